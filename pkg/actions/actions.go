// Package actions wires the copy and open side effects to the host system.
package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// ErrEmptyURL is returned when an action is asked to act on a blank URL.
var ErrEmptyURL = errors.New("actions: url is empty")

// Clipboard writes to the system clipboard.
type Clipboard struct {
	write func(string) error
}

// NewClipboard returns a Clipboard backed by the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

// Available reports whether a clipboard utility is present.
func (c *Clipboard) Available() bool {
	return !clipboard.Unsupported
}

// Copy writes text to the clipboard.
func (c *Clipboard) Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyURL
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("actions: clipboard: %w", err)
	}
	return nil
}

// Opener opens URLs with the platform browser.
type Opener struct {
	open func(string) error
}

// NewOpener returns an Opener backed by the platform browser launcher.
func NewOpener() *Opener {
	return &Opener{open: browser.OpenURL}
}

// Open launches url.
func (o *Opener) Open(url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrEmptyURL
	}
	if err := o.open(url); err != nil {
		return fmt.Errorf("actions: open %s: %w", url, err)
	}
	return nil
}
