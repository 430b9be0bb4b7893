// pkg/core/part.go
package core

// Category identifies a part's functional slot. The set is closed: UI grouping
// and slot exclusivity both key off it, but the exclusivity policy lives with
// the configuration store, not here.
type Category string

const (
	CategoryEngine       Category = "engine"
	CategoryTurbo        Category = "turbo"
	CategorySupercharger Category = "supercharger"
	CategoryExhaust      Category = "exhaust"
	CategoryIntake       Category = "intake"
	CategoryECU          Category = "ecu"
	CategoryElectronics  Category = "electronics"
	CategoryTransmission Category = "transmission"
	CategoryClutch       Category = "clutch"
	CategoryDifferential Category = "differential"
	CategoryDriveshaft   Category = "driveshaft"
	CategorySuspension   Category = "suspension"
	CategoryChassis      Category = "chassis"
	CategoryBrakes       Category = "brakes"
	CategoryWheels       Category = "wheels"
	CategoryTires        Category = "tires"
	CategoryBodykit      Category = "bodykit"
	CategoryAero         Category = "aero"
	CategoryExterior     Category = "exterior"
	CategoryLighting     Category = "lighting"
	CategoryInterior     Category = "interior"
	CategorySeats        Category = "seats"
	CategorySafety       Category = "safety"
	CategoryGauges       Category = "gauges"
	CategoryFuel         Category = "fuel"
	CategoryCooling      Category = "cooling"
	CategoryNitrous      Category = "nitrous"
)

// AllCategories lists every valid category in display order.
var AllCategories = []Category{
	CategoryEngine,
	CategoryTurbo,
	CategorySupercharger,
	CategoryExhaust,
	CategoryIntake,
	CategoryECU,
	CategoryElectronics,
	CategoryTransmission,
	CategoryClutch,
	CategoryDifferential,
	CategoryDriveshaft,
	CategorySuspension,
	CategoryChassis,
	CategoryBrakes,
	CategoryWheels,
	CategoryTires,
	CategoryBodykit,
	CategoryAero,
	CategoryExterior,
	CategoryLighting,
	CategoryInterior,
	CategorySeats,
	CategorySafety,
	CategoryGauges,
	CategoryFuel,
	CategoryCooling,
	CategoryNitrous,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CompatibilityRules constrains which vehicles a part fits. An empty list on
// any axis is a wildcard: the part fits every vehicle on that axis.
type CompatibilityRules struct {
	MountTypes       []MountType    `json:"mountTypes"`
	Drivetrains      []Drivetrain   `json:"drivetrains"`
	EngineLayouts    []EngineLayout `json:"engineLayouts"`
	MinEngineBaySize float64        `json:"minEngineBaySize,omitempty"` // liters, 0 = unconstrained
	BoltPatterns     []BoltPattern  `json:"boltPatterns,omitempty"`
	RequiredParts    []string       `json:"requiredParts,omitempty"`    // part IDs that must already be installed
	ConflictingParts []string       `json:"conflictingParts,omitempty"` // part IDs that cannot coexist
	MaxWeight        float64        `json:"maxWeight,omitempty"`        // kg, exceeding it is a warning not a failure
}

// PartStats holds the stat modifiers a part contributes. Every field is
// optional; zero means "no effect". Additive fields default to 0,
// multiplicative fields default to 1; use the *Factor accessors for
// multipliers so an unset field resolves to its identity value.
type PartStats struct {
	HorsepowerAdd        float64 `json:"horsepowerAdd,omitempty"`
	HorsepowerMultiplier float64 `json:"horsepowerMultiplier,omitempty"`
	TorqueAdd            float64 `json:"torqueAdd,omitempty"`
	TorqueMultiplier     float64 `json:"torqueMultiplier,omitempty"`
	WeightReduction      float64 `json:"weightReduction,omitempty"` // kg; positive lightens, negative adds mass
	DownforceAdd         float64 `json:"downforceAdd,omitempty"`    // kg at top speed
	DragReduction        float64 `json:"dragReduction,omitempty"`   // percentage points off the drag coefficient
	BrakingPower         float64 `json:"brakingPower,omitempty"`    // multiplier
	TireGrip             float64 `json:"tireGrip,omitempty"`        // multiplier
	RevLimit             float64 `json:"revLimit,omitempty"`        // rpm
	BoostPressure        float64 `json:"boostPressure,omitempty"`   // bar
}

// HorsepowerFactor returns the horsepower multiplier, 1 if unset.
func (s PartStats) HorsepowerFactor() float64 {
	if s.HorsepowerMultiplier == 0 {
		return 1
	}
	return s.HorsepowerMultiplier
}

// TorqueFactor returns the torque multiplier, 1 if unset.
func (s PartStats) TorqueFactor() float64 {
	if s.TorqueMultiplier == 0 {
		return 1
	}
	return s.TorqueMultiplier
}

// BrakingFactor returns the braking power multiplier, 1 if unset.
func (s PartStats) BrakingFactor() float64 {
	if s.BrakingPower == 0 {
		return 1
	}
	return s.BrakingPower
}

// GripFactor returns the tire grip multiplier, 1 if unset.
func (s PartStats) GripFactor() float64 {
	if s.TireGrip == 0 {
		return 1
	}
	return s.TireGrip
}

// Part is an immutable catalog entry. Parts are referenced by installed
// configurations, never mutated.
type Part struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Brand         string             `json:"brand"`
	Category      Category           `json:"category"`
	Price         float64            `json:"price"`
	Weight        float64            `json:"weight"` // kg, catalog/shipping metadata
	Compatibility CompatibilityRules `json:"compatibility"`
	Stats         PartStats          `json:"stats"`
	Description   string             `json:"description,omitempty"`
}
