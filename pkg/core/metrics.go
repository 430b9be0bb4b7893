// pkg/core/metrics.go
package core

// PerformanceMetrics is the derived performance profile of a vehicle with its
// installed parts. It is a pure projection of (BaseSpecs, InstalledParts):
// always recomputed in full, never patched incrementally.
type PerformanceMetrics struct {
	Horsepower float64 `json:"horsepower"`
	Torque     float64 `json:"torque"` // Nm
	Weight     float64 `json:"weight"` // kg

	ZeroToSixty   float64 `json:"zeroToSixty"`   // seconds, 0-60 mph
	ZeroToHundred float64 `json:"zeroToHundred"` // seconds, 0-100 km/h
	QuarterMile   float64 `json:"quarterMile"`   // seconds
	TopSpeed      float64 `json:"topSpeed"`      // km/h

	BrakingDistance float64 `json:"brakingDistance"` // meters, 100-0 km/h
	LateralG        float64 `json:"lateralG"`
	Downforce       float64 `json:"downforce"` // kg at top speed
	DragCoefficient float64 `json:"dragCoefficient"`
	FuelConsumption float64 `json:"fuelConsumption"` // L/100km
	Efficiency      float64 `json:"efficiency"`      // 0-100

	// Coefficients folded from multiplicative part stats, carried for
	// downstream consumers (braking/cornering models).
	BrakingCoefficient float64 `json:"brakingCoefficient"`
	GripCoefficient    float64 `json:"gripCoefficient"`
}

// PowerToWeight returns horsepower per metric ton, computed on demand.
func (m PerformanceMetrics) PowerToWeight() float64 {
	if m.Weight <= 0 {
		return 0
	}
	return m.Horsepower / m.Weight * 1000
}
