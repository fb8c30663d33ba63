package rule

import (
	"fmt"
	"strings"

	"colmto/internal/vehicle"
)

// BoundingBox is the axis-aligned box spanned by P1 and P2, used as the
// position rule's parameter. Contains is inclusive on all four edges.
type BoundingBox struct {
	P1 vehicle.Position
	P2 vehicle.Position
}

// Contains reports whether p lies inside the box, borders included.
func (b BoundingBox) Contains(p vehicle.Position) bool {
	return b.P1.X <= p.X && p.X <= b.P2.X && b.P1.Y <= p.Y && p.Y <= b.P2.Y
}

// SpeedRange is an inclusive [Min,Max] speed interval.
type SpeedRange struct {
	Min float64
	Max float64
}

// Contains reports whether speed lies between Min and Max, both included.
func (r SpeedRange) Contains(speed float64) bool {
	return r.Min <= speed && speed <= r.Max
}

// DissatisfactionRange is an inclusive [Min,Max] dissatisfaction interval.
type DissatisfactionRange struct {
	Min float64
	Max float64
}

// Contains reports whether value lies between Min and Max, both included.
func (r DissatisfactionRange) Contains(value float64) bool {
	return r.Min <= value && value <= r.Max
}

// Operator combines the boolean results of a composite rule's sub-rules.
type Operator int

const (
	// Any is boolean OR over the sub-rule results. Any of an empty sequence
	// is false.
	Any Operator = iota
	// All is boolean AND over the sub-rule results. All of an empty sequence
	// is true.
	All
)

// ParseOperator maps "any"/"all" (case insensitive) to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(s) {
	case "any":
		return Any, nil
	case "all":
		return All, nil
	}
	return Any, fmt.Errorf("unknown rule operator %q", s)
}

func (o Operator) String() string {
	if o == All {
		return "all"
	}
	return "any"
}

func (o Operator) valid() bool {
	return o == Any || o == All
}

// Evaluate reduces results with the operator's boolean semantics, matching
// any()/all() over an empty sequence.
func (o Operator) Evaluate(results []bool) bool {
	if o == All {
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	}
	for _, r := range results {
		if r {
			return true
		}
	}
	return false
}
