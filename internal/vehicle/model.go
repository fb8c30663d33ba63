package vehicle

import (
	"fmt"
	"math"
)

// DefaultDsatThreshold is the default cut-off point of acceptable time loss
// relative to optimal travel time.
const DefaultDsatThreshold = 0.2

// smoothing flattens the logistic transition so it is not a hard step.
const smoothing = 0.05

// Dissatisfaction maps a vehicle's time loss to a normalised (0,1) score:
//
//	dsat(TL, TT*, TLT) = 1 / (1 + e^((-TL + TLT*TT*) * 0.05))
//
// The score is monotonically increasing in timeLoss and crosses 0.5 exactly
// where the time loss equals threshold*optimalTravelTime. A negative time
// loss violates the driver's update contract and panics.
func Dissatisfaction(timeLoss, optimalTravelTime, threshold float64) float64 {
	if timeLoss < 0 {
		panic(fmt.Sprintf("vehicle: negative time loss %f", timeLoss))
	}
	return 1.0 / (1.0 + math.Exp((-timeLoss+threshold*optimalTravelTime)*smoothing))
}
