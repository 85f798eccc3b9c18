// Package schema defines the declarative form description: sections of typed
// fields, each with a stable id, the query parameter it writes, and a default
// value. Documents are JSON (or YAML with the same shape) and are loaded once;
// a parsed *Schema is never mutated afterwards and is safe to share.
//
// Field kinds form a closed set (text, number, switch, color, range). Values
// are held in the Value variant whose kind is fixed by the field type: string
// for text and color, number for number and range, bool for switch.
package schema
