package transcat

import (
	"fmt"
	"sort"
	"strings"
)

// DivergenceKind classifies one structural mismatch between a candidate
// locale and the reference locale.
type DivergenceKind int

const (
	// MissingKey: present in the reference, absent from the candidate.
	MissingKey DivergenceKind = iota
	// ExtraKey: present in the candidate, absent from the reference.
	ExtraKey
	// KindMismatch: the key resolves to different node kinds.
	KindMismatch
	// ParameterMismatch: a reference parameter is absent from the
	// candidate's contract or carries a different inferred kind.
	ParameterMismatch
	// MissingOtherForm: a plural group without the mandatory "other"
	// category.
	MissingOtherForm
)

func (k DivergenceKind) String() string {
	switch k {
	case MissingKey:
		return "missing_key"
	case ExtraKey:
		return "extra_key"
	case KindMismatch:
		return "kind_mismatch"
	case ParameterMismatch:
		return "parameter_mismatch"
	case MissingOtherForm:
		return "missing_other_form"
	default:
		return "unknown"
	}
}

// Divergence is a single structural defect, attributed to a key path and the
// locale it was found in. Divergences are collected, never returned as
// errors, so one validation pass surfaces every problem in a catalog.
type Divergence struct {
	Kind   DivergenceKind
	Path   string
	Locale string
	Detail string
}

func (d Divergence) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s %s: %s", d.Locale, d.Path, d.Kind)
	}
	return fmt.Sprintf("%s %s: %s (%s)", d.Locale, d.Path, d.Kind, d.Detail)
}

// Report is the ordered list of divergences found while validating one
// candidate locale. Ordering is stable (sorted by key path, then kind) so
// repeated runs over unchanged catalogs are byte-identical and diff-friendly
// in CI logs.
type Report struct {
	Locale      string
	Divergences []Divergence
}

func (r *Report) Empty() bool {
	return r == nil || len(r.Divergences) == 0
}

// Blocking reports whether the report contains divergences that the
// conventional CI gate treats as fatal: missing keys, parameter mismatches,
// and plural groups without an "other" form. The exit-code policy itself
// lives in the tooling, not here.
func (r *Report) Blocking() bool {
	if r == nil {
		return false
	}
	for _, d := range r.Divergences {
		switch d.Kind {
		case MissingKey, ParameterMismatch, MissingOtherForm:
			return true
		}
	}
	return false
}

func (r *Report) String() string {
	if r.Empty() {
		return fmt.Sprintf("%s: ok", r.Locale)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d divergence(s)\n", r.Locale, len(r.Divergences))
	for _, d := range r.Divergences {
		b.WriteString("  ")
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Report) add(kind DivergenceKind, path string, detail string) {
	r.Divergences = append(r.Divergences, Divergence{
		Kind:   kind,
		Path:   path,
		Locale: r.Locale,
		Detail: detail,
	})
}

// Check compares a candidate schema against the reference schema and reports
// every divergence. It is a pure set/diff over derived schemas: insensitive
// to catalog map ordering, deterministic in its output.
func Check(ref, cand *Schema, locale string) *Report {
	report := &Report{Locale: locale}
	keys := keyUnion(ref, cand)
	for _, key := range keys {
		refEntry, inRef := ref.Lookup(key)
		candEntry, inCand := cand.Lookup(key)
		switch {
		case inRef && !inCand:
			report.add(MissingKey, key, fmt.Sprintf("defined in %s", ref.Locale))
		case !inRef && inCand:
			report.add(ExtraKey, key, fmt.Sprintf("not defined in %s", ref.Locale))
			checkOtherForm(report, candEntry)
		default:
			if refEntry.Kind != candEntry.Kind {
				report.add(KindMismatch, key,
					fmt.Sprintf("%s in %s, %s in %s", refEntry.Kind, ref.Locale, candEntry.Kind, locale))
				continue
			}
			checkOtherForm(report, candEntry)
			if refEntry.Kind == KindBranch {
				continue
			}
			checkContract(report, refEntry, candEntry, ref.Locale)
		}
	}
	return report
}

// checkContract reports reference parameters that the candidate drops or
// retypes. Candidate-only parameters are not divergences: the engine ignores
// over-supplied values, so they cannot break a call site.
func checkContract(report *Report, refEntry, candEntry *Entry, refLocale string) {
	for _, refParam := range refEntry.Contract.Params() {
		candParam, ok := candEntry.Contract.Get(refParam.Name)
		if !ok {
			report.add(ParameterMismatch, refEntry.Path.String(),
				fmt.Sprintf("parameter %q from %s is absent", refParam.Name, refLocale))
			continue
		}
		if kindsConflict(refParam.Kind, candParam.Kind) {
			report.add(ParameterMismatch, refEntry.Path.String(),
				fmt.Sprintf("parameter %q is %s in %s but %s here",
					refParam.Name, refParam.Kind, refLocale, candParam.Kind))
		}
	}
}

func checkOtherForm(report *Report, e *Entry) {
	if e.Kind != KindPlural {
		return
	}
	if _, ok := e.Group[FormOther]; !ok {
		report.add(MissingOtherForm, e.Path.String(), `plural group has no "other" form`)
	}
}

// kindsConflict reports whether two inferred kinds are incompatible. ParamAny
// is a wildcard and never conflicts.
func kindsConflict(a, b ParamKind) bool {
	return a != ParamAny && b != ParamAny && a != b
}

// SelfCheck validates the invariants a schema must satisfy on its own,
// independent of any reference: today, that every plural group defines the
// "other" form. The reference locale is validated this way at load time.
func SelfCheck(s *Schema) *Report {
	report := &Report{Locale: s.Locale}
	for _, key := range s.Keys() {
		entry, _ := s.Lookup(key)
		checkOtherForm(report, entry)
	}
	return report
}

func keyUnion(a, b *Schema) []string {
	seen := make(map[string]struct{}, a.Len()+b.Len())
	keys := make([]string, 0, a.Len()+b.Len())
	for _, key := range a.Keys() {
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	for _, key := range b.Keys() {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
