// Package rule implements the predicates the CSE evaluates to decide whether
// a vehicle may use the overtaking lane. Leaf rules are immutable comparable
// values; the composite Extendable rule combines a leaf with sub-rules under
// an any/all operator.
package rule

import (
	"fmt"

	"colmto/internal/vehicle"
)

// Rule is the predicate contract: a pure function of the vehicle's state and
// the rule's own parameters, free of side effects and ordering dependencies.
type Rule interface {
	AppliesTo(v *vehicle.Vehicle) bool
}

// Label returns a short human-readable description of r, used in logs and
// DOT exports.
func Label(r Rule) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", r)
}

// Universal applies to every vehicle.
type Universal struct{}

func (Universal) AppliesTo(*vehicle.Vehicle) bool { return true }

func (Universal) String() string { return "universal" }

// Null applies to no vehicle.
type Null struct{}

func (Null) AppliesTo(*vehicle.Vehicle) bool { return false }

func (Null) String() string { return "null" }

// VType applies to vehicles of a given type.
type VType struct {
	Type vehicle.VehicleType
}

func (r VType) AppliesTo(v *vehicle.Vehicle) bool {
	return v.Type == r.Type
}

func (r VType) String() string {
	return fmt.Sprintf("vehicle_type: %s", r.Type)
}

// MinimalSpeed applies to vehicles unable to reach the threshold speed, i.e.
// speed_max strictly below it. A vehicle exactly at the threshold is fast
// enough and the rule does not fire.
type MinimalSpeed struct {
	Threshold float64
}

func (r MinimalSpeed) AppliesTo(v *vehicle.Vehicle) bool {
	return v.SpeedMax < r.Threshold
}

func (r MinimalSpeed) String() string {
	return fmt.Sprintf("minimal_speed: < %g", r.Threshold)
}

// Speed applies to vehicles whose maximum speed lies in Range, inverted by
// Outside.
type Speed struct {
	Range   SpeedRange
	Outside bool
}

func (r Speed) AppliesTo(v *vehicle.Vehicle) bool {
	return r.Outside != r.Range.Contains(v.SpeedMax)
}

func (r Speed) String() string {
	return fmt.Sprintf("speed: [%g, %g] outside=%t", r.Range.Min, r.Range.Max, r.Outside)
}

// Position applies to vehicles located inside BBox. Outside inverts the test
// via XOR, keeping the idiom shared with the dissatisfaction rule.
type Position struct {
	BBox    BoundingBox
	Outside bool
}

func (r Position) AppliesTo(v *vehicle.Vehicle) bool {
	return r.Outside != r.BBox.Contains(v.Position)
}

func (r Position) String() string {
	return fmt.Sprintf("position: (%g, %g) -> (%g, %g) outside=%t",
		r.BBox.P1.X, r.BBox.P1.Y, r.BBox.P2.X, r.BBox.P2.Y, r.Outside)
}

// Dissatisfaction applies to vehicles whose dissatisfaction score lies in
// Range, inverted by Outside via XOR.
type Dissatisfaction struct {
	Range   DissatisfactionRange
	Outside bool
}

func (r Dissatisfaction) AppliesTo(v *vehicle.Vehicle) bool {
	return r.Outside != r.Range.Contains(v.Dissatisfaction)
}

func (r Dissatisfaction) String() string {
	return fmt.Sprintf("dissatisfaction: [%g, %g] outside=%t", r.Range.Min, r.Range.Max, r.Outside)
}
