package transcat

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLocale canonicalizes a locale tag for map keys: trimmed,
// lowercased, underscores replaced by hyphens ("es_MX" -> "es-mx").
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	return strings.ReplaceAll(locale, "_", "-")
}

// baseLocale returns the base language of a normalized tag ("es-mx" -> "es").
func baseLocale(locale string) string {
	if idx := strings.Index(locale, "-"); idx > 0 {
		return locale[:idx]
	}
	return locale
}

// parentChain expands a locale into itself plus its ancestors, most specific
// first, using BCP 47 parent relationships ("es-419" -> "es", not just a
// string prefix cut). Tags that do not parse fall back to the plain base cut.
func parentChain(locale string) []string {
	normalized := NormalizeLocale(locale)
	if normalized == "" {
		return nil
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		if base := baseLocale(normalized); base != normalized {
			return []string{normalized, base}
		}
		return []string{normalized}
	}
	chain := make([]string, 0, 3)
	seen := map[string]struct{}{}
	for ; tag != language.Und; tag = tag.Parent() {
		candidate := NormalizeLocale(tag.String())
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		chain = append(chain, candidate)
	}
	// Parsing may canonicalize away the exact requested spelling; keep it
	// as the first candidate so exact registrations still win.
	if len(chain) == 0 || chain[0] != normalized {
		chain = append([]string{normalized}, chain...)
	}
	return chain
}

// localeCandidates builds the full lookup order for a request: the requested
// tag and its parents, then configured fallbacks, then the reference locale.
func localeCandidates(requested string, fallbacks []string, reference string) []string {
	candidates := make([]string, 0, 6)
	seen := map[string]struct{}{}
	appendLocale := func(locale string) {
		if locale == "" {
			return
		}
		if _, ok := seen[locale]; ok {
			return
		}
		seen[locale] = struct{}{}
		candidates = append(candidates, locale)
	}
	for _, candidate := range parentChain(requested) {
		appendLocale(candidate)
	}
	for _, fallback := range fallbacks {
		appendLocale(NormalizeLocale(fallback))
	}
	appendLocale(NormalizeLocale(reference))
	return candidates
}
