package transcat

import "sort"

// Form is a CLDR plural category.
type Form string

const (
	FormZero  Form = "zero"
	FormOne   Form = "one"
	FormTwo   Form = "two"
	FormFew   Form = "few"
	FormMany  Form = "many"
	FormOther Form = "other"
)

// formOrder is the canonical CLDR ordering used wherever forms are listed.
var formOrder = []Form{FormZero, FormOne, FormTwo, FormFew, FormMany, FormOther}

// IsForm reports whether s names a plural category.
func IsForm(s string) bool {
	for _, f := range formOrder {
		if string(f) == s {
			return true
		}
	}
	return false
}

// NodeKind discriminates the three catalog node variants.
type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindPlural
	KindBranch
)

func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindPlural:
		return "plural"
	case KindBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Node is one vertex of a locale catalog tree: a Leaf template, a PluralGroup
// of per-category templates, or a Branch of named children.
type Node interface {
	Kind() NodeKind
}

// Leaf is a single message template.
type Leaf string

func (Leaf) Kind() NodeKind { return KindLeaf }

// PluralGroup maps plural categories to template variants. Every valid group
// defines at least FormOther; that invariant is enforced by the checker at
// load time, not by the type.
type PluralGroup map[Form]string

func (PluralGroup) Kind() NodeKind { return KindPlural }

// Forms returns the categories defined by the group in canonical CLDR order.
func (g PluralGroup) Forms() []Form {
	forms := make([]Form, 0, len(g))
	for _, f := range formOrder {
		if _, ok := g[f]; ok {
			forms = append(forms, f)
		}
	}
	return forms
}

// Branch maps segment names to child nodes. Insertion order is irrelevant;
// all derived output is sorted.
type Branch map[string]Node

func (Branch) Kind() NodeKind { return KindBranch }

// Children returns the branch segment names sorted.
func (b Branch) Children() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LocaleCatalog is the full message tree for one locale. Catalogs are treated
// as immutable snapshots: an update replaces the whole catalog, never patches
// nodes in place.
type LocaleCatalog struct {
	Locale string
	Root   Branch
}
