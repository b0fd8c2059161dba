package transcat

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one row of a catalog schema: the node kind at a key path and, for
// message nodes, the resolved template(s) and parameter contract.
type Entry struct {
	Path     KeyPath
	Kind     NodeKind
	Contract *Contract
	// Template is set for leaf entries.
	Template string
	// Group and Forms are set for plural entries. Forms is in canonical
	// CLDR order.
	Group PluralGroup
	Forms []Form
}

// Schema is the flat table derived from one locale catalog: key path to entry.
// A schema is immutable once built; a catalog update produces a whole new
// schema which the engine publishes atomically.
type Schema struct {
	Locale  string
	entries map[string]*Entry
	keys    []string
}

// Keys returns all key paths in the schema, sorted.
func (s *Schema) Keys() []string {
	return s.keys
}

func (s *Schema) Len() int {
	return len(s.entries)
}

// Lookup returns the entry at a joined key path.
func (s *Schema) Lookup(key string) (*Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// LookupPath returns the entry at a key path.
func (s *Schema) LookupPath(path KeyPath) (*Entry, bool) {
	return s.Lookup(path.String())
}

// BuildSchema walks a catalog depth-first and derives its schema. Leaves are
// scanned for their parameter contract; plural groups take the union of the
// per-category contracts (categories may reference different subsets, the
// union only has to agree on kinds). Structural defects that cannot be
// expressed as a divergence report, like conflicting parameter kinds or an
// invalid segment name, fail the build.
func BuildSchema(cat LocaleCatalog) (*Schema, error) {
	if cat.Locale == "" {
		return nil, fmt.Errorf("catalog has no locale")
	}
	s := &Schema{
		Locale:  cat.Locale,
		entries: map[string]*Entry{},
	}
	if err := s.walkBranch(nil, cat.Root); err != nil {
		return nil, fmt.Errorf("schema %s: %w", cat.Locale, err)
	}
	s.keys = make([]string, 0, len(s.entries))
	for key := range s.entries {
		s.keys = append(s.keys, key)
	}
	sort.Strings(s.keys)
	return s, nil
}

func (s *Schema) walkBranch(path KeyPath, b Branch) error {
	for _, segment := range b.Children() {
		if segment == "" || strings.Contains(segment, ".") {
			return fmt.Errorf("invalid segment %q under %q", segment, path.String())
		}
		child := path.Child(segment)
		if err := s.walkNode(child, b[segment]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) walkNode(path KeyPath, node Node) error {
	switch n := node.(type) {
	case Leaf:
		contract, err := Scan(string(n))
		if err != nil {
			return fmt.Errorf("%s: %w", path.String(), err)
		}
		s.entries[path.String()] = &Entry{
			Path:     path,
			Kind:     KindLeaf,
			Contract: contract,
			Template: string(n),
		}
	case PluralGroup:
		contract := &Contract{}
		for _, form := range n.Forms() {
			formContract, err := Scan(n[form])
			if err != nil {
				return fmt.Errorf("%s[%s]: %w", path.String(), form, err)
			}
			if err := contract.merge(formContract); err != nil {
				return fmt.Errorf("%s: %w", path.String(), err)
			}
		}
		s.entries[path.String()] = &Entry{
			Path:     path,
			Kind:     KindPlural,
			Contract: contract,
			Group:    n,
			Forms:    n.Forms(),
		}
	case Branch:
		s.entries[path.String()] = &Entry{
			Path: path,
			Kind: KindBranch,
		}
		return s.walkBranch(path, n)
	case nil:
		return fmt.Errorf("nil node at %q", path.String())
	default:
		return fmt.Errorf("unsupported node type %T at %q", node, path.String())
	}
	return nil
}
