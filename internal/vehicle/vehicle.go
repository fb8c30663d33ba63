// Package vehicle holds the per-entity state the decision engine reads and
// writes: kinematic attributes fed in by the traffic driver each step, the
// derived dissatisfaction score, and the access class set by the CSE.
package vehicle

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// gridCellWidth is the fixed cell size in meters used to derive grid
// positions from continuous positions. NOTE: assumed fixed at 4m for now,
// should come from scenario config eventually.
const gridCellWidth = 4.0

// Position is a continuous 2D position on the road segment.
type Position struct {
	X float64
	Y float64
}

// GridPosition is a discretised position: x in grid cells, y as lane index.
type GridPosition struct {
	X int
	Y int
}

// Gridified rounds p to the grid, taking the lane index for the y-coordinate.
// Positions on a cell boundary round half to even, matching the recording
// convention of the result files.
func (p Position) Gridified(laneIndex int) GridPosition {
	return GridPosition{
		X: int(math.RoundToEven(p.X/gridCellWidth)) - 1,
		Y: laneIndex,
	}
}

// VehicleType enumerates the vehicle types known to the scenario generator.
type VehicleType string

const (
	Delivery       VehicleType = "delivery"
	HeavyTransport VehicleType = "heavytransport"
	Passenger      VehicleType = "passenger"
	Tractor        VehicleType = "tractor"
	Truck          VehicleType = "truck"
	Van            VehicleType = "van"
	Undefined      VehicleType = "undefined"
)

// ParseVehicleType maps a type string to its VehicleType value.
func ParseVehicleType(s string) (VehicleType, error) {
	switch VehicleType(s) {
	case Delivery, HeavyTransport, Passenger, Tractor, Truck, Van, Undefined:
		return VehicleType(s), nil
	}
	return Undefined, fmt.Errorf("unknown vehicle type %q", s)
}

// AccessClass is the two-valued outcome of evaluating a vehicle against the
// CSE's rule set. It reflects only the most recent evaluation.
type AccessClass int

const (
	Allow AccessClass = iota
	Deny
)

func (c AccessClass) String() string {
	if c == Deny {
		return "deny"
	}
	return "allow"
}

// Vehicle is the mutable per-entity record. The driver writes the kinematic
// fields via Update once per step; the CSE writes AccessClass afterwards.
// The two writers must not race within a step.
type Vehicle struct {
	ID            string
	Type          VehicleType
	SpeedMax      float64
	DsatThreshold float64
	StartTime     float64

	Position        Position
	GridPosition    GridPosition
	LaneIndex       int
	Speed           float64
	Dissatisfaction float64
	AccessClass     AccessClass

	series []Sample
}

// New creates a vehicle entering the simulation at startTime with default
// access to the overtaking lane.
func New(vtype VehicleType, speedMax float64, startTime float64) *Vehicle {
	return &Vehicle{
		ID:            uuid.NewString(),
		Type:          vtype,
		SpeedMax:      speedMax,
		DsatThreshold: DefaultDsatThreshold,
		StartTime:     startTime,
		AccessClass:   Allow,
	}
}

// Update writes the driver-provided kinematic state for timeStep, derives the
// grid position, travel time and time loss, and recomputes the vehicle's
// dissatisfaction. The optimal travel time is the time needed to reach the
// current x-position at maximum speed.
func (v *Vehicle) Update(position Position, laneIndex int, speed float64, timeStep float64) *Vehicle {
	v.Position = position
	v.LaneIndex = laneIndex
	v.GridPosition = position.Gridified(laneIndex)
	v.Speed = speed

	optimalTravelTime := position.X / v.SpeedMax
	travelTime := timeStep - v.StartTime
	timeLoss := travelTime - optimalTravelTime
	v.Dissatisfaction = Dissatisfaction(timeLoss, optimalTravelTime, v.DsatThreshold)

	relativeTimeLoss := 0.0
	if optimalTravelTime > 0 {
		relativeTimeLoss = timeLoss / optimalTravelTime
	}

	v.series = append(v.series, Sample{
		TimeStep:         timeStep,
		PositionY:        position.Y,
		GridPositionY:    v.GridPosition.Y,
		Dissatisfaction:  v.Dissatisfaction,
		TravelTime:       travelTime,
		TimeLoss:         timeLoss,
		RelativeTimeLoss: relativeTimeLoss,
		LaneIndex:        laneIndex,
	})

	return v
}

// Sample is one recorded step of a vehicle's travel series, consumed
// downstream by the statistics writers.
type Sample struct {
	TimeStep         float64
	PositionY        float64
	GridPositionY    int
	Dissatisfaction  float64
	TravelTime       float64
	TimeLoss         float64
	RelativeTimeLoss float64
	LaneIndex        int
}

// Series returns the recorded travel series in step order.
func (v *Vehicle) Series() []Sample {
	out := make([]Sample, len(v.series))
	copy(out, v.series)
	return out
}
