// Package plural provides CLDR plural category selection for a given
// language and count. Category names: "zero", "one", "two", "few", "many",
// "other".
package plural

import "strings"

// family is one shared rule implementation covering several languages.
type family func(n int) string

var families = map[string]family{
	"ar": arabic,
	"ru": eastSlavic, "uk": eastSlavic, "be": eastSlavic,
	"sr": eastSlavic, "hr": eastSlavic, "bs": eastSlavic, "sh": eastSlavic,
	"pl": polish,
	"cy": celtic, "br": celtic, "ga": celtic, "gd": celtic,
	"gv": celtic, "kw": celtic, "mt": celtic, "sm": celtic, "ak": celtic,
	"he": hebrew, "iw": hebrew,
	"en": oneOther, "es": oneOther, "fr": oneOther, "de": oneOther,
	"it": oneOther, "pt": oneOther, "nl": oneOther, "no": oneOther,
	"sv": oneOther, "da": oneOther, "fi": oneOther, "tr": oneOther,
	"el": oneOther, "hi": oneOther,
	"ja": otherOnly, "ko": otherOnly, "zh": otherOnly,
	"th": otherOnly, "vi": otherOnly, "id": otherOnly,
}

// Base normalizes a language tag to its base ("en-US" -> "en").
func Base(lang string) string {
	base := strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(base, "-_"); idx > 0 {
		base = base[:idx]
	}
	return base
}

// Known reports whether a CLDR rule is registered for the language.
func Known(lang string) bool {
	_, ok := families[Base(lang)]
	return ok
}

// Languages returns the base language tags with a registered rule, in no
// particular order.
func Languages() []string {
	langs := make([]string, 0, len(families))
	for lang := range families {
		langs = append(langs, lang)
	}
	return langs
}

// Category returns the CLDR plural category for the given language tag and
// count. Unknown languages use an English-like one/other rule.
func Category(lang string, count int) string {
	n := count
	if n < 0 {
		n = -n
	}
	if rule, ok := families[Base(lang)]; ok {
		return rule(n)
	}
	return oneOther(n)
}

func oneOther(n int) string {
	if n == 1 {
		return "one"
	}
	return "other"
}

func otherOnly(int) string {
	return "other"
}

func arabic(n int) string {
	switch {
	case n == 0:
		return "zero"
	case n == 1:
		return "one"
	case n == 2:
		return "two"
	case n >= 3 && n <= 10:
		return "few"
	case n >= 11 && n <= 99:
		return "many"
	default:
		return "other"
	}
}

func eastSlavic(n int) string {
	n10, n100 := n%10, n%100
	switch {
	case n10 == 1 && n100 != 11:
		return "one"
	case n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14):
		return "few"
	case n10 == 0 || (n10 >= 5 && n10 <= 9) || (n100 >= 11 && n100 <= 14):
		return "many"
	default:
		return "other"
	}
}

func polish(n int) string {
	if n == 1 {
		return "one"
	}
	n10, n100 := n%10, n%100
	switch {
	case n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14):
		return "few"
	case n10 == 0 || (n10 >= 5 && n10 <= 9) || (n100 >= 12 && n100 <= 14):
		return "many"
	default:
		return "other"
	}
}

func celtic(n int) string {
	switch n {
	case 0:
		return "zero"
	case 1:
		return "one"
	case 2:
		return "two"
	case 3:
		return "few"
	case 6:
		return "many"
	default:
		return "other"
	}
}

func hebrew(n int) string {
	switch {
	case n == 1:
		return "one"
	case n == 2:
		return "two"
	case n >= 3 && n <= 10:
		return "few"
	case n >= 11 && n <= 99:
		return "many"
	default:
		return "other"
	}
}
