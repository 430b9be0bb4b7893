package physics

import "github.com/torres-mse/garage/pkg/core"

// RatingCategory selects which aspect of a metrics profile Rating grades.
type RatingCategory string

const (
	RatingPower      RatingCategory = "power"
	RatingSpeed      RatingCategory = "speed"
	RatingHandling   RatingCategory = "handling"
	RatingEfficiency RatingCategory = "efficiency"
)

// Compare returns the field-wise difference a minus b.
func Compare(a, b core.PerformanceMetrics) core.PerformanceMetrics {
	return core.PerformanceMetrics{
		Horsepower:         a.Horsepower - b.Horsepower,
		Torque:             a.Torque - b.Torque,
		Weight:             a.Weight - b.Weight,
		ZeroToSixty:        a.ZeroToSixty - b.ZeroToSixty,
		ZeroToHundred:      a.ZeroToHundred - b.ZeroToHundred,
		QuarterMile:        a.QuarterMile - b.QuarterMile,
		TopSpeed:           a.TopSpeed - b.TopSpeed,
		BrakingDistance:    a.BrakingDistance - b.BrakingDistance,
		LateralG:           a.LateralG - b.LateralG,
		Downforce:          a.Downforce - b.Downforce,
		DragCoefficient:    a.DragCoefficient - b.DragCoefficient,
		FuelConsumption:    a.FuelConsumption - b.FuelConsumption,
		Efficiency:         a.Efficiency - b.Efficiency,
		BrakingCoefficient: a.BrakingCoefficient - b.BrakingCoefficient,
		GripCoefficient:    a.GripCoefficient - b.GripCoefficient,
	}
}

// Rating grades a metrics profile in the given category on a 1-5 scale.
func Rating(m core.PerformanceMetrics, category RatingCategory) int {
	switch category {
	case RatingPower:
		switch {
		case m.Horsepower >= 1000:
			return 5
		case m.Horsepower >= 600:
			return 4
		case m.Horsepower >= 400:
			return 3
		case m.Horsepower >= 250:
			return 2
		}
		return 1

	case RatingSpeed:
		switch {
		case m.ZeroToSixty <= 3.0:
			return 5
		case m.ZeroToSixty <= 4.5:
			return 4
		case m.ZeroToSixty <= 6.0:
			return 3
		case m.ZeroToSixty <= 8.0:
			return 2
		}
		return 1

	case RatingHandling:
		switch {
		case m.LateralG >= 1.5:
			return 5
		case m.LateralG >= 1.2:
			return 4
		case m.LateralG >= 1.0:
			return 3
		case m.LateralG >= 0.85:
			return 2
		}
		return 1

	case RatingEfficiency:
		switch {
		case m.Efficiency >= 80:
			return 5
		case m.Efficiency >= 60:
			return 4
		case m.Efficiency >= 40:
			return 3
		case m.Efficiency >= 20:
			return 2
		}
		return 1
	}
	return 1
}
