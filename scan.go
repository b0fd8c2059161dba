package transcat

import (
	"fmt"
	"regexp"
)

// markerRegex matches well-formed interpolation markers: {{name}} for plain
// parameters and {{num:name}} / {{date:name}} for typed ones. Anything that
// does not match (unterminated braces, empty or invalid names) is literal
// text, not a parameter.
var markerRegex = regexp.MustCompile(`\{\{(?:(num|date):)?([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// ParamKind is the scalar kind inferred for a template parameter from the
// marker that references it.
type ParamKind int

const (
	// ParamAny is the provisional kind of a plain {{name}} marker; it
	// unifies with every other kind.
	ParamAny ParamKind = iota
	ParamNumber
	ParamDate
)

func (k ParamKind) String() string {
	switch k {
	case ParamNumber:
		return "number"
	case ParamDate:
		return "date"
	default:
		return "any"
	}
}

// kindOfMarker maps a marker prefix submatch to a ParamKind.
func kindOfMarker(prefix string) ParamKind {
	switch prefix {
	case "num":
		return ParamNumber
	case "date":
		return ParamDate
	default:
		return ParamAny
	}
}

// Param is one named parameter of a template contract.
type Param struct {
	Name string
	Kind ParamKind
}

// Contract is the set of parameters a template (or plural group) references,
// in first-reference order.
type Contract struct {
	params []Param
	index  map[string]int
}

// Params returns the contract parameters in first-reference order.
func (c *Contract) Params() []Param {
	if c == nil {
		return nil
	}
	return c.params
}

// Names returns the parameter names in first-reference order.
func (c *Contract) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.params))
	for i, p := range c.params {
		names[i] = p.Name
	}
	return names
}

// Get returns the parameter with the given name.
func (c *Contract) Get(name string) (Param, bool) {
	if c == nil {
		return Param{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Param{}, false
	}
	return c.params[i], true
}

func (c *Contract) Len() int {
	if c == nil {
		return 0
	}
	return len(c.params)
}

// add records one parameter reference, unifying kinds. ParamAny unifies with
// anything; two distinct explicit kinds for the same name conflict.
func (c *Contract) add(name string, kind ParamKind) error {
	if c.index == nil {
		c.index = map[string]int{}
	}
	i, ok := c.index[name]
	if !ok {
		c.index[name] = len(c.params)
		c.params = append(c.params, Param{Name: name, Kind: kind})
		return nil
	}
	existing := c.params[i].Kind
	switch {
	case existing == kind:
	case existing == ParamAny:
		c.params[i].Kind = kind
	case kind == ParamAny:
	default:
		return fmt.Errorf("parameter %q referenced as both %s and %s", name, existing, kind)
	}
	return nil
}

// merge folds another contract into c, keeping c's ordering for names already
// present. Used by the schema builder to union plural-category contracts.
func (c *Contract) merge(other *Contract) error {
	for _, p := range other.Params() {
		if err := c.add(p.Name, p.Kind); err != nil {
			return err
		}
	}
	return nil
}

// Scan extracts the parameter contract from a single template string. A
// template with no markers yields an empty contract. Scan fails only when the
// same name is referenced with two incompatible explicit kinds inside the one
// template.
func Scan(template string) (*Contract, error) {
	contract := &Contract{}
	var scanErr error
	for _, match := range markerRegex.FindAllStringSubmatch(template, -1) {
		if err := contract.add(match[2], kindOfMarker(match[1])); err != nil && scanErr == nil {
			scanErr = err
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return contract, nil
}
