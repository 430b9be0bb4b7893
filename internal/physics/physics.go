// Package physics folds installed part stats into a deterministic
// performance profile. Calculate is pure: same base specs and installed set
// always produce the same metrics, regardless of install order or history.
package physics

import (
	"math"

	"github.com/torres-mse/garage/pkg/core"
)

const (
	airDensity  = 1.225 // kg/m3 at sea level
	gravity     = 9.81  // m/s2
	frontalArea = 2.0   // m2, estimated

	// minWeight is the floor for folded vehicle mass. Stacked
	// weight-reduction parts must never drive the model to zero or
	// negative mass.
	minWeight = 300.0

	// wattsPerHP converts mechanical horsepower to watts.
	wattsPerHP = 745.7

	// accelCalibration scales the weight-to-wheel-power ratio into a
	// 0-100 km/h time. Calibrated so a stock mid-size coupe lands in the
	// low five-second range.
	accelCalibration = 0.78

	// boostHPPerBar is the horsepower gained per bar of boost above a
	// turbo part's rated pressure.
	boostHPPerBar = 15.0

	minDragCoefficient = 0.15
)

// drivetrainLoss is the fraction of crank power lost before the wheels.
var drivetrainLoss = map[core.Drivetrain]float64{
	core.DrivetrainFWD: 0.15,
	core.DrivetrainRWD: 0.15,
	core.DrivetrainAWD: 0.20,
	core.Drivetrain4WD: 0.22,
}

// Aggregator computes performance metrics from a vehicle configuration.
type Aggregator struct{}

// NewAggregator creates an Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Calculate folds the installed parts into a full metrics profile.
//
// The fold runs in two passes. The additive pass accumulates flat
// horsepower/torque adders, weight reduction (negative values add mass),
// downforce, and drag-reduction percentage points on top of the base specs.
// The multiplicative pass then scales the *result* of the additive pass by
// the product of all multipliers: a flat power adder establishes a new
// baseline that a percentage tune scales. Braking and grip multipliers fold
// into coefficients carried on the metrics.
//
// Part mass flows exclusively through WeightReduction; the catalog Weight
// field on a part does not enter the model.
func (a *Aggregator) Calculate(vehicle core.Vehicle) core.PerformanceMetrics {
	specs := vehicle.BaseSpecs

	// Additive pass.
	horsepower := specs.Engine.BaseHorsepower
	torque := specs.Engine.BaseTorque
	weight := specs.Weight
	downforce := 0.0
	dragReductionPct := 0.0

	for _, ip := range vehicle.InstalledParts {
		stats := ip.Part.Stats
		horsepower += stats.HorsepowerAdd
		torque += stats.TorqueAdd
		weight -= stats.WeightReduction
		downforce += stats.DownforceAdd
		dragReductionPct += stats.DragReduction

		if ip.Tuning != nil && ip.Tuning.BoostTarget > 0 && stats.BoostPressure > 0 {
			horsepower += (ip.Tuning.BoostTarget - stats.BoostPressure) * boostHPPerBar
		}
	}

	if weight < minWeight {
		weight = minWeight
	}

	// Multiplicative pass.
	hpFactor := 1.0
	torqueFactor := 1.0
	brakingCoeff := 1.0
	gripCoeff := 1.0
	for _, ip := range vehicle.InstalledParts {
		stats := ip.Part.Stats
		hpFactor *= stats.HorsepowerFactor()
		torqueFactor *= stats.TorqueFactor()
		brakingCoeff *= stats.BrakingFactor()
		gripCoeff *= stats.GripFactor()
	}
	horsepower *= hpFactor
	torque *= torqueFactor

	dragCoefficient := specs.DragCoefficient * (1 - dragReductionPct/100)
	if dragCoefficient < minDragCoefficient {
		dragCoefficient = minDragCoefficient
	}

	loss, ok := drivetrainLoss[specs.Drivetrain]
	if !ok {
		loss = 0.15
	}
	wheelHP := horsepower * (1 - loss)

	zeroToHundred := accelTime(weight, wheelHP, gripCoeff)
	zeroToSixty := zeroToHundred * 0.9656 // 60 mph = 96.56 km/h
	quarterMile := haleQuarterMile(weight, wheelHP)
	topSpeed := dragLimitedTopSpeed(wheelHP, dragCoefficient)
	brakingDistance := brakingDistanceFrom(100, brakingCoeff, gripCoeff)
	lateralG := lateralGrip(gripCoeff, downforce, weight)
	fuel := fuelConsumption(horsepower, weight, specs.Engine.Displacement)
	efficiency := efficiencyScore(horsepower, weight, fuel)

	return core.PerformanceMetrics{
		Horsepower:         round1(horsepower),
		Torque:             round1(torque),
		Weight:             math.Round(weight),
		ZeroToSixty:        round2(zeroToSixty),
		ZeroToHundred:      round2(zeroToHundred),
		QuarterMile:        round2(quarterMile),
		TopSpeed:           math.Round(topSpeed),
		BrakingDistance:    round1(brakingDistance),
		LateralG:           round2(lateralG),
		Downforce:          math.Round(downforce),
		DragCoefficient:    round3(dragCoefficient),
		FuelConsumption:    round1(fuel),
		Efficiency:         math.Round(efficiency),
		BrakingCoefficient: round3(brakingCoeff),
		GripCoefficient:    round3(gripCoeff),
	}
}

// accelTime models 0-100 km/h as proportional to the weight-to-wheel-power
// ratio, softened by tire grip. The function is strictly monotonic: more
// power or less weight always shortens it, more grip never lengthens it.
func accelTime(weight, wheelHP, grip float64) float64 {
	if wheelHP <= 0 {
		return math.Inf(1)
	}
	if grip <= 0 {
		grip = 1
	}
	return accelCalibration * (weight / wheelHP) / math.Pow(grip, 0.25)
}

// haleQuarterMile applies the Hale formula, ET = 5.825 * (W/P)^(1/3) with
// weight in pounds.
func haleQuarterMile(weight, wheelHP float64) float64 {
	if wheelHP <= 0 {
		return math.Inf(1)
	}
	return 5.825 * math.Cbrt(weight*2.205/wheelHP)
}

// dragLimitedTopSpeed solves P = 0.5*rho*Cd*A*v^3 for v, in km/h.
func dragLimitedTopSpeed(wheelHP, dragCoefficient float64) float64 {
	powerWatts := wheelHP * wattsPerHP
	vCubed := 2 * powerWatts / (airDensity * dragCoefficient * frontalArea)
	return math.Cbrt(vCubed) * 3.6
}

// brakingDistanceFrom returns the stopping distance in meters from the
// given speed, d = v^2 / (2 * mu * g * brakingPower) on dry asphalt.
func brakingDistanceFrom(speedKmh, brakingCoeff, gripCoeff float64) float64 {
	speedMs := speedKmh / 3.6
	deceleration := 0.9 * gripCoeff * gravity * brakingCoeff
	return speedMs * speedMs / (2 * deceleration)
}

// lateralGrip combines tire grip with a small downforce contribution,
// capped at 2.5G.
func lateralGrip(gripCoeff, downforce, weight float64) float64 {
	g := 0.85*gripCoeff + downforce/weight*0.1
	return math.Min(g, 2.5)
}

// fuelConsumption estimates L/100km from displacement scaled by power and
// weight factors.
func fuelConsumption(horsepower, weight, displacement float64) float64 {
	base := displacement * 2.5
	powerFactor := 1 + (horsepower-150)*0.002
	weightFactor := 1 + (weight-1500)*0.0002
	return base * powerFactor * weightFactor
}

// efficiencyScore blends power-per-consumption and weight efficiency into a
// 0-100 score.
func efficiencyScore(horsepower, weight, fuel float64) float64 {
	if fuel <= 0 || weight <= 0 {
		return 0
	}
	score := (horsepower/fuel*3 + 1500/weight*50) / 2
	return math.Min(math.Max(score, 0), 100)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
