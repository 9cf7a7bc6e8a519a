package synth

import "fmt"

// Parameter is a named, range-bounded value controlling a module's
// behaviour. Parameters are the targets of auxiliary modulation links as
// well as of static layout configuration.
type Parameter struct {
	name     string
	min, max float64
	value    float64
}

// NewParameter builds a parameter with the given range and starting value.
// It fails when the range is inverted or the default falls outside it.
func NewParameter(name string, min, max, def float64) (*Parameter, error) {
	if max < min {
		return nil, fmt.Errorf("parameter %q: invalid range [%v, %v]", name, min, max)
	}
	if def < min || def > max {
		return nil, fmt.Errorf("parameter %q: default %v outside range [%v, %v]", name, def, min, max)
	}
	return &Parameter{name: name, min: min, max: max, value: def}, nil
}

// Name returns the parameter's identifying tag.
func (p *Parameter) Name() string { return p.name }

// Value returns the current value.
func (p *Parameter) Value() float64 { return p.value }

// Set overwrites the current value. Out-of-range values are rejected and
// the previous value is kept.
func (p *Parameter) Set(v float64) error {
	if v < p.min || v > p.max {
		return fmt.Errorf("%w: %q = %v outside [%v, %v]", ErrInvalidValue, p.name, v, p.min, p.max)
	}
	p.value = v
	return nil
}

// ParamSet is the name-indexed parameter collection modules embed to satisfy
// the Parameter/SetParameter half of the Module contract.
type ParamSet struct {
	params map[string]*Parameter
}

// NewParamSet collects parameters into a set. Duplicate names are a
// programmer error and panic.
func NewParamSet(params ...*Parameter) *ParamSet {
	set := &ParamSet{params: make(map[string]*Parameter, len(params))}
	for _, p := range params {
		if _, exists := set.params[p.name]; exists {
			panic(fmt.Sprintf("duplicate parameter %q", p.name))
		}
		set.params[p.name] = p
	}
	return set
}

// Parameter returns the current value of the named parameter.
func (s *ParamSet) Parameter(name string) (float64, error) {
	p, ok := s.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	return p.value, nil
}

// SetParameter overwrites the named parameter.
func (s *ParamSet) SetParameter(name string, value float64) error {
	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	return p.Set(value)
}

// Has reports whether the set declares the named parameter.
func (s *ParamSet) Has(name string) bool {
	_, ok := s.params[name]
	return ok
}
