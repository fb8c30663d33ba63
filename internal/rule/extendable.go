package rule

import (
	"errors"

	"colmto/internal/vehicle"
)

var (
	// ErrNilRule rejects nil rules at add time.
	ErrNilRule = errors.New("rule is nil")
	// ErrSelfSubrule rejects registering a rule as its own sub-rule.
	ErrSelfSubrule = errors.New("rule cannot be its own sub-rule")
	// ErrCompositeSubrule rejects nesting composite rules: composition depth
	// is fixed at exactly one level.
	ErrCompositeSubrule = errors.New("composite rules cannot be used as sub-rules")
	// ErrCompositeBase rejects wrapping a composite rule in another composite.
	ErrCompositeBase = errors.New("composite rules cannot be used as a base rule")
	// ErrInvalidOperator rejects operator values outside any/all.
	ErrInvalidOperator = errors.New("invalid sub-rule operator")
)

// Extendable wraps a leaf base rule with a set of sub-rules combined under an
// any/all operator:
//
//	applies(v) = base(v) && operator(subrule results)
//
// A composite with no sub-rules never applies, regardless of its base; it has
// to be extended to become useful. Sub-rules are kept in insertion order and
// deduplicated by value, and the operator is applied lazily over the set as
// it stands at evaluation time.
type Extendable struct {
	base     Rule
	operator Operator
	subrules []Rule
	index    map[Rule]struct{}
}

// NewExtendable wraps base, which must be a leaf rule, with an empty sub-rule
// set and the given operator.
func NewExtendable(base Rule, operator Operator) (*Extendable, error) {
	if base == nil {
		return nil, ErrNilRule
	}
	if _, ok := base.(*Extendable); ok {
		return nil, ErrCompositeBase
	}
	if !operator.valid() {
		return nil, ErrInvalidOperator
	}
	return &Extendable{
		base:     base,
		operator: operator,
		index:    map[Rule]struct{}{},
	}, nil
}

// AddSubrule adds r to the sub-rule set. Adding the rule to itself or adding
// any composite fails and leaves the set unchanged; adding an equal rule
// twice is a no-op.
func (e *Extendable) AddSubrule(r Rule) error {
	if r == nil {
		return ErrNilRule
	}
	if sub, ok := r.(*Extendable); ok {
		if sub == e {
			return ErrSelfSubrule
		}
		return ErrCompositeSubrule
	}
	if _, ok := e.index[r]; ok {
		return nil
	}
	e.index[r] = struct{}{}
	e.subrules = append(e.subrules, r)
	return nil
}

// SetOperator switches the operator applied to the sub-rule set.
func (e *Extendable) SetOperator(operator Operator) error {
	if !operator.valid() {
		return ErrInvalidOperator
	}
	e.operator = operator
	return nil
}

// Operator returns the current sub-rule operator.
func (e *Extendable) Operator() Operator {
	return e.operator
}

// Base returns the wrapped leaf rule.
func (e *Extendable) Base() Rule {
	return e.base
}

// Subrules returns the sub-rules in insertion order.
func (e *Extendable) Subrules() []Rule {
	out := make([]Rule, len(e.subrules))
	copy(out, e.subrules)
	return out
}

func (e *Extendable) AppliesTo(v *vehicle.Vehicle) bool {
	if len(e.subrules) == 0 {
		return false
	}
	if !e.base.AppliesTo(v) {
		return false
	}
	results := make([]bool, len(e.subrules))
	for i, r := range e.subrules {
		results[i] = r.AppliesTo(v)
	}
	return e.operator.Evaluate(results)
}

func (e *Extendable) String() string {
	return "extendable: " + Label(e.base) + " (" + e.operator.String() + ")"
}
