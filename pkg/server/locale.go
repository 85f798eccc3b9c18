package server

import (
	"strings"

	"github.com/goliatone/go-urlform/pkg/render"
)

type localeLister interface {
	Locales() []string
}

func (s *Server) locales() map[string]bool {
	out := make(map[string]bool)
	for _, locale := range render.DefaultCatalog.Locales() {
		out[strings.ToLower(locale)] = true
	}
	if lister, ok := s.translator.(localeLister); ok {
		for _, locale := range lister.Locales() {
			out[strings.ToLower(locale)] = true
		}
	}
	return out
}

// negotiateLocale prefers an explicit lang, then Accept-Language in header
// order, then fallback. Regional tags match their base language.
func negotiateLocale(explicit, header, fallback string, supported map[string]bool) string {
	candidates := make([]string, 0, 4)
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		candidates = append(candidates, explicit)
	}
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if tag = strings.TrimSpace(tag); tag != "" && tag != "*" {
			candidates = append(candidates, tag)
		}
	}
	for _, candidate := range candidates {
		normalized := strings.ToLower(strings.ReplaceAll(candidate, "_", "-"))
		if supported[normalized] {
			return normalized
		}
		if base, _, ok := strings.Cut(normalized, "-"); ok && supported[base] {
			return normalized
		}
	}
	return fallback
}
