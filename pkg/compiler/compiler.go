// Package compiler assembles the target URL from the base URL text, the
// schema and the current state. Compile is pure: identical inputs always
// produce an identical Result.
package compiler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// DefaultPageAddress resolves relative base URL text when no page address
// is configured.
const DefaultPageAddress = "http://localhost/"

// PreviewValue is written under schema.PreviewParam in preview URLs.
const PreviewValue = "true"

// Values is the read side of the state store.
type Values interface {
	Get(id string) schema.Value
}

// Result is the outcome of one compilation.
type Result struct {
	URL        string `json:"url"`
	Status     Status `json:"status"`
	ParamCount int    `json:"paramCount"`
	Err        error  `json:"-"`
}

// Ready reports whether URL holds a compiled URL.
func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Option customizes compilation.
type Option func(*options)

type options struct {
	pageAddress string
}

// WithPageAddress sets the address relative base URL text resolves against,
// normally the address the tool itself is served from.
func WithPageAddress(address string) Option {
	return func(o *options) {
		if strings.TrimSpace(address) != "" {
			o.pageAddress = address
		}
	}
}

var errEmptyHost = errors.New("missing host")

// Compile builds the target URL. Blank base text yields StatusMissingBase;
// unparsable text yields StatusInvalidBase with a *ParseError in Err. Every
// field writes its param in declaration order, so a later field sharing a
// param wins, and ParamCount counts fields rather than distinct params.
func Compile(baseText string, sch *schema.Schema, values Values, opts ...Option) Result {
	cfg := options{pageAddress: DefaultPageAddress}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	trimmed := strings.TrimSpace(baseText)
	if trimmed == "" {
		return Result{Status: StatusMissingBase}
	}

	target, err := resolve(trimmed, cfg.pageAddress)
	if err != nil {
		return Result{Status: StatusInvalidBase, Err: &ParseError{Input: trimmed, Err: err}}
	}

	fields := sch.Fields()
	if len(fields) > 0 {
		q := parseQuery(target.RawQuery)
		for _, field := range fields {
			var value schema.Value
			if values != nil {
				value = values.Get(field.ID)
			}
			q = q.set(field.Param, codec.Encode(field, value))
		}
		target.RawQuery = q.encode()
		target.ForceQuery = false
	}

	return Result{
		URL:        target.String(),
		Status:     StatusReady,
		ParamCount: len(fields),
	}
}

// PreviewURL returns the compiled URL with preview=true set on top of it,
// or "" when the result is not ready.
func PreviewURL(result Result) string {
	if !result.Ready() || result.URL == "" {
		return ""
	}
	target, err := url.Parse(result.URL)
	if err != nil {
		return ""
	}
	target.RawQuery = parseQuery(target.RawQuery).set(schema.PreviewParam, PreviewValue).encode()
	return target.String()
}

func resolve(text, pageAddress string) (*url.URL, error) {
	ref, err := url.Parse(text)
	if err != nil {
		return nil, unwrapURLError(err)
	}
	target := ref
	if !ref.IsAbs() {
		page, err := url.Parse(pageAddress)
		if err != nil {
			return nil, unwrapURLError(err)
		}
		target = page.ResolveReference(ref)
	}
	if hierarchical(target.Scheme) {
		if target.Host == "" {
			return nil, errEmptyHost
		}
		target.Host = strings.ToLower(target.Host)
		if target.Path == "" && target.Opaque == "" {
			target.Path = "/"
		}
	}
	return target, nil
}

func hierarchical(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https", "ws", "wss", "ftp":
		return true
	default:
		return false
	}
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
