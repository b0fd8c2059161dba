package transcat

import (
	"fmt"

	"github.com/loopcontext/transcat/internal/plural"
)

// Rule selects a plural category for a quantity. One rule per locale; FormOther
// must always be a legal output.
type Rule func(quantity int) Form

// DefaultRule returns the built-in CLDR rule for a language tag. Languages
// without CLDR data get an English-like one/other rule.
func DefaultRule(locale string) Rule {
	base := plural.Base(locale)
	return func(quantity int) Form {
		return Form(plural.Category(base, quantity))
	}
}

// defaultRuleLocales are the base tags the built-in rule set covers; the
// engine seeds its registry with them so exact-rule lookups succeed for known
// languages without emitting missing-rule events.
func defaultRuleLocales() []string {
	return plural.Languages()
}

// ResolvePlural applies a rule to a quantity and selects the matching
// template from the group, falling back to the "other" form when the selected
// category is absent (locales may define fewer categories than CLDR permits).
// An explicit "zero" variant wins at quantity 0 even in languages whose CLDR
// rule maps 0 to "other": a catalog that spells it out means it.
//
// A group without "other" should have been rejected by validation at load
// time; hitting one here means validation was bypassed, so ResolvePlural
// panics rather than guessing a template.
func ResolvePlural(group PluralGroup, rule Rule, quantity int) (string, Form) {
	if quantity == 0 {
		if template, ok := group[FormZero]; ok {
			return template, FormZero
		}
	}
	form := rule(quantity)
	if template, ok := group[form]; ok {
		return template, form
	}
	template, ok := group[FormOther]
	if !ok {
		panic(fmt.Sprintf(`transcat: plural group without "other" form reached resolution (forms %v); catalog was not validated`, group.Forms()))
	}
	return template, FormOther
}
