package schema

import (
	"bytes"
	"errors"
	"fmt"
)

// Document is a schema payload as fetched, before it is decoded.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument keeps a private copy of raw. Payloads that hold only
// whitespace are rejected here so every loader reports them alike.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: document source is nil")
	}
	if blank(raw) {
		return Document{}, fmt.Errorf("schema: %s is empty", src.Location())
	}
	return Document{source: src, raw: bytes.Clone(raw)}, nil
}

// MustNewDocument is NewDocument for fixtures; it panics on error.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte { return bytes.Clone(d.raw) }

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// JSON reports whether the payload is meant as JSON. Anything else is
// decoded as YAML.
func (d Document) JSON() bool { return looksJSON(d.raw) }

func blank(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0
}

func looksJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
