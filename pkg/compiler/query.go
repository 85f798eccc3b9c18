package compiler

import (
	"net/url"
	"strings"
)

type pair struct {
	key   string
	value string
}

// query is an ordered parameter list with URLSearchParams semantics. The
// standard url.Values is a map and loses the order the base URL declared.
type query []pair

func parseQuery(raw string) query {
	var out query
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		out = append(out, pair{key: unescape(key), value: unescape(value)})
	}
	return out
}

func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// set replaces the first pair named key, drops any later pairs with that
// name, and appends when key is absent.
func (q query) set(key, value string) query {
	found := false
	out := q[:0]
	for _, p := range q {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if found {
			continue
		}
		found = true
		out = append(out, pair{key: key, value: value})
	}
	if !found {
		out = append(out, pair{key: key, value: value})
	}
	return out
}

func (q query) count(key string) int {
	n := 0
	for _, p := range q {
		if p.key == key {
			n++
		}
	}
	return n
}

func (q query) encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
