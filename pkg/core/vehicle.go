// pkg/core/vehicle.go
package core

import "time"

// Drivetrain is the driven-axle layout tag.
type Drivetrain string

const (
	DrivetrainFWD Drivetrain = "FWD"
	DrivetrainRWD Drivetrain = "RWD"
	DrivetrainAWD Drivetrain = "AWD"
	Drivetrain4WD Drivetrain = "4WD"
)

// EngineLayout is the engine placement tag.
type EngineLayout string

const (
	LayoutFront EngineLayout = "front"
	LayoutMid   EngineLayout = "mid"
	LayoutRear  EngineLayout = "rear"
)

// MountType identifies the engine block configuration a part mounts to.
type MountType string

const (
	MountInline4  MountType = "inline4"
	MountInline6  MountType = "inline6"
	MountV6       MountType = "v6"
	MountV8       MountType = "v8"
	MountV10      MountType = "v10"
	MountV12      MountType = "v12"
	MountFlat4    MountType = "flat4"
	MountFlat6    MountType = "flat6"
	MountRotary   MountType = "rotary"
	MountElectric MountType = "electric"
)

// TransmissionType is the gearbox family tag.
type TransmissionType string

const (
	TransmissionManual     TransmissionType = "manual"
	TransmissionAutomatic  TransmissionType = "automatic"
	TransmissionDCT        TransmissionType = "dct"
	TransmissionCVT        TransmissionType = "cvt"
	TransmissionSequential TransmissionType = "sequential"
)

// BoltPattern is a wheel bolt pattern tag, e.g. "5x114.3".
type BoltPattern string

// Engine describes the base engine block.
type Engine struct {
	Type               MountType `json:"type"`
	Displacement       float64   `json:"displacement"` // liters
	Cylinders          int       `json:"cylinders"`
	NaturallyAspirated bool      `json:"naturallyAspirated"`
	BaseHorsepower     float64   `json:"baseHorsepower"`
	BaseTorque         float64   `json:"baseTorque"` // Nm
	Redline            int       `json:"redline"`    // rpm
}

// Transmission describes the base gearbox.
type Transmission struct {
	Type  TransmissionType `json:"type"`
	Gears int              `json:"gears"`
}

// BaseSpecs are the factory specifications of a vehicle. They never change;
// installed parts modify the derived metrics, not the base specs.
type BaseSpecs struct {
	Engine          Engine       `json:"engine"`
	Drivetrain      Drivetrain   `json:"drivetrain"`
	EngineLayout    EngineLayout `json:"engineLayout"`
	Transmission    Transmission `json:"transmission"`
	Weight          float64      `json:"weight"`        // kg
	Wheelbase       float64      `json:"wheelbase"`     // mm
	TrackWidth      float64      `json:"trackWidth"`    // mm
	EngineBaySize   float64      `json:"engineBaySize"` // liters, used for fitment checks
	BoltPattern     BoltPattern  `json:"boltPattern"`
	FuelCapacity    float64      `json:"fuelCapacity"` // liters
	DragCoefficient float64      `json:"dragCoefficient"`
}

// TuningSettings are optional per-part overrides applied after installation.
type TuningSettings struct {
	BoostTarget float64 `json:"boostTarget,omitempty"` // bar
	RevLimiter  int     `json:"revLimiter,omitempty"`  // rpm
	FinalDrive  float64 `json:"finalDrive,omitempty"`
}

// InstalledPart is a catalog part fitted to a vehicle.
type InstalledPart struct {
	Part        Part            `json:"part"`
	InstalledAt time.Time       `json:"installedAt"`
	Tuning      *TuningSettings `json:"tuning,omitempty"`
}

// Vehicle is a working copy of a catalog template. Selecting a different
// vehicle replaces the whole struct; there is no cross-vehicle state.
type Vehicle struct {
	ID           string  `json:"id"`
	Manufacturer string  `json:"manufacturer"`
	Name         string  `json:"name"`
	Year         int     `json:"year"`
	BasePrice    float64 `json:"basePrice"`

	BaseSpecs      BaseSpecs          `json:"baseSpecs"`
	InstalledParts []InstalledPart    `json:"installedParts"`
	CurrentMetrics PerformanceMetrics `json:"currentMetrics"`

	Colors   VehicleColors   `json:"colors"`
	Finishes VehicleFinishes `json:"finishes"`
}

// InstalledPartByCategory returns the installed part occupying the given
// category, if any.
func (v *Vehicle) InstalledPartByCategory(c Category) (InstalledPart, bool) {
	for _, ip := range v.InstalledParts {
		if ip.Part.Category == c {
			return ip, true
		}
	}
	return InstalledPart{}, false
}

// InstalledPartByID returns the installed part with the given part ID, if any.
func (v *Vehicle) InstalledPartByID(partID string) (InstalledPart, bool) {
	for _, ip := range v.InstalledParts {
		if ip.Part.ID == partID {
			return ip, true
		}
	}
	return InstalledPart{}, false
}

// FinishType is a paint finish tag.
type FinishType string

const (
	FinishGloss    FinishType = "gloss"
	FinishMatte    FinishType = "matte"
	FinishSatin    FinishType = "satin"
	FinishMetallic FinishType = "metallic"
	FinishPearl    FinishType = "pearl"
	FinishChrome   FinishType = "chrome"
)

// VehicleColors holds per-zone paint colors (hex strings).
type VehicleColors struct {
	Body     string `json:"body"`
	Wheels   string `json:"wheels"`
	Calipers string `json:"calipers"`
	Interior string `json:"interior"`
	Accents  string `json:"accents"`
	Aero     string `json:"aero"`
	Lights   string `json:"lights"`
}

// VehicleFinishes holds per-zone paint finishes.
type VehicleFinishes struct {
	Body     FinishType `json:"body"`
	Wheels   FinishType `json:"wheels"`
	Calipers FinishType `json:"calipers"`
	Interior FinishType `json:"interior"`
	Accents  FinishType `json:"accents"`
	Aero     FinishType `json:"aero"`
	Lights   FinishType `json:"lights"`
}

// DefaultColors returns the factory paint scheme.
func DefaultColors() VehicleColors {
	return VehicleColors{
		Body:     "#1a1a2e",
		Wheels:   "#4a4a4a",
		Calipers: "#dc2626",
		Interior: "#1a1a2e",
		Accents:  "#00d4ff",
		Aero:     "#1a1a2e",
		Lights:   "#ffffff",
	}
}

// DefaultFinishes returns the factory paint finishes.
func DefaultFinishes() VehicleFinishes {
	return VehicleFinishes{
		Body:     FinishGloss,
		Wheels:   FinishGloss,
		Calipers: FinishGloss,
		Interior: FinishMatte,
		Accents:  FinishMetallic,
		Aero:     FinishMatte,
		Lights:   FinishGloss,
	}
}
