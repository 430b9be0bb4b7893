// internal/catalog/seed.go
package catalog

import "github.com/torres-mse/garage/pkg/core"

// NewSeeded returns a Service loaded with the built-in dataset. Used when no
// database backend is configured and by tests that need a realistic catalog.
func NewSeeded() *Service {
	s := NewService()
	s.Load(SeedVehicles(), SeedParts())
	return s
}

// SeedVehicles returns the built-in vehicle templates.
func SeedVehicles() []core.Vehicle {
	return []core.Vehicle{
		{
			ID:           "ts-240",
			Manufacturer: "Torres",
			Name:         "TS-240",
			Year:         2024,
			BasePrice:    42000,
			BaseSpecs: core.BaseSpecs{
				Engine: core.Engine{
					Type:               core.MountInline4,
					Displacement:       2.4,
					Cylinders:          4,
					NaturallyAspirated: true,
					BaseHorsepower:     276,
					BaseTorque:         392,
					Redline:            7400,
				},
				Drivetrain:      core.DrivetrainRWD,
				EngineLayout:    core.LayoutFront,
				Transmission:    core.Transmission{Type: core.TransmissionManual, Gears: 6},
				Weight:          1560,
				Wheelbase:       2570,
				TrackWidth:      1540,
				EngineBaySize:   2.8,
				BoltPattern:     "5x114.3",
				FuelCapacity:    50,
				DragCoefficient: 0.29,
			},
			Colors:   core.DefaultColors(),
			Finishes: core.DefaultFinishes(),
		},
		{
			ID:           "kr-stx",
			Manufacturer: "Kurogane",
			Name:         "STX",
			Year:         2023,
			BasePrice:    38500,
			BaseSpecs: core.BaseSpecs{
				Engine: core.Engine{
					Type:               core.MountFlat4,
					Displacement:       2.0,
					Cylinders:          4,
					NaturallyAspirated: false,
					BaseHorsepower:     271,
					BaseTorque:         350,
					Redline:            6700,
				},
				Drivetrain:      core.DrivetrainAWD,
				EngineLayout:    core.LayoutFront,
				Transmission:    core.Transmission{Type: core.TransmissionManual, Gears: 6},
				Weight:          1568,
				Wheelbase:       2650,
				TrackWidth:      1555,
				EngineBaySize:   2.5,
				BoltPattern:     "5x114.3",
				FuelCapacity:    60,
				DragCoefficient: 0.33,
			},
			Colors:   core.DefaultColors(),
			Finishes: core.DefaultFinishes(),
		},
		{
			ID:           "vl-meridian",
			Manufacturer: "Valtera",
			Name:         "Meridian GT",
			Year:         2022,
			BasePrice:    74000,
			BaseSpecs: core.BaseSpecs{
				Engine: core.Engine{
					Type:               core.MountV8,
					Displacement:       5.0,
					Cylinders:          8,
					NaturallyAspirated: true,
					BaseHorsepower:     460,
					BaseTorque:         570,
					Redline:            7000,
				},
				Drivetrain:      core.DrivetrainRWD,
				EngineLayout:    core.LayoutFront,
				Transmission:    core.Transmission{Type: core.TransmissionAutomatic, Gears: 10},
				Weight:          1740,
				Wheelbase:       2720,
				TrackWidth:      1580,
				EngineBaySize:   5.6,
				BoltPattern:     "5x114.3",
				FuelCapacity:    61,
				DragCoefficient: 0.35,
			},
			Colors:   core.DefaultColors(),
			Finishes: core.DefaultFinishes(),
		},
		{
			ID:           "ax-spada",
			Manufacturer: "Axiom",
			Name:         "Spada R",
			Year:         2024,
			BasePrice:    128000,
			BaseSpecs: core.BaseSpecs{
				Engine: core.Engine{
					Type:               core.MountFlat6,
					Displacement:       4.0,
					Cylinders:          6,
					NaturallyAspirated: true,
					BaseHorsepower:     518,
					BaseTorque:         465,
					Redline:            9000,
				},
				Drivetrain:      core.DrivetrainRWD,
				EngineLayout:    core.LayoutMid,
				Transmission:    core.Transmission{Type: core.TransmissionDCT, Gears: 7},
				Weight:          1450,
				Wheelbase:       2460,
				TrackWidth:      1600,
				EngineBaySize:   4.4,
				BoltPattern:     "5x130",
				FuelCapacity:    64,
				DragCoefficient: 0.32,
			},
			Colors:   core.DefaultColors(),
			Finishes: core.DefaultFinishes(),
		},
		{
			ID:           "en-volt",
			Manufacturer: "Enfield",
			Name:         "Volt S",
			Year:         2025,
			BasePrice:    56000,
			BaseSpecs: core.BaseSpecs{
				Engine: core.Engine{
					Type:               core.MountElectric,
					Displacement:       0,
					Cylinders:          0,
					NaturallyAspirated: false,
					BaseHorsepower:     480,
					BaseTorque:         660,
					Redline:            18000,
				},
				Drivetrain:      core.DrivetrainAWD,
				EngineLayout:    core.LayoutRear,
				Transmission:    core.Transmission{Type: core.TransmissionAutomatic, Gears: 1},
				Weight:          1950,
				Wheelbase:       2875,
				TrackWidth:      1620,
				EngineBaySize:   1.0,
				BoltPattern:     "5x114.3",
				FuelCapacity:    0,
				DragCoefficient: 0.22,
			},
			Colors:   core.DefaultColors(),
			Finishes: core.DefaultFinishes(),
		},
	}
}

// combustionCompat excludes electric drive; most engine hardware needs a
// combustion mount.
var combustionCompat = core.CompatibilityRules{
	MountTypes: []core.MountType{
		core.MountInline4, core.MountInline6,
		core.MountV6, core.MountV8, core.MountV10, core.MountV12,
		core.MountFlat4, core.MountFlat6, core.MountRotary,
	},
}

// SeedParts returns the built-in parts inventory.
func SeedParts() []core.Part {
	parts := []core.Part{
		// Forced induction tiers. Bigger units want a bigger bay.
		NewPart(core.CategoryTurbo, "stage1", "GTX-2860 Bolt-On Kit", "Hayashi Turbo", 2200,
			TurboStats(TurboSmall), combustionCompat),
		NewPart(core.CategoryTurbo, "stage2", "GTX-3576 Ball Bearing Kit", "Hayashi Turbo", 3500,
			TurboStats(TurboMedium), withBay(combustionCompat, 2.0)),
		NewPart(core.CategoryTurbo, "stage3", "GTX-4508 Race Kit", "Hayashi Turbo", 6800,
			TurboStats(TurboLarge), withBay(combustionCompat, 3.0)),
		NewPart(core.CategoryTurbo, "stage4", "GTX-5533 Competition", "Hayashi Turbo", 12500,
			TurboStats(TurboMonster), withBay(combustionCompat, 4.5)),

		NewPart(core.CategorySupercharger, "roots", "R2650 Roots Blower", "Vortech Dynamics", 5400,
			core.PartStats{HorsepowerAdd: 180, TorqueAdd: 190, BoostPressure: 0.8},
			withBay(combustionCompat, 3.5)),

		// Exhaust tiers.
		NewPart(core.CategoryExhaust, "catback", "StreetFlow Cat-Back", "Borla-Tec", 1000,
			ExhaustStats(ExhaustCatback), combustionCompat),
		NewPart(core.CategoryExhaust, "headers", "Equal-Length Headers", "Borla-Tec", 1400,
			ExhaustStats(ExhaustHeaders), combustionCompat),
		NewPart(core.CategoryExhaust, "full", "Full Titanium System", "Borla-Tec", 2600,
			ExhaustStats(ExhaustFull), combustionCompat),
		NewPart(core.CategoryExhaust, "race", "Open Race System", "Borla-Tec", 3900,
			ExhaustStats(ExhaustRace), combustionCompat),

		NewPart(core.CategoryIntake, "cold-air", "Carbon Cold Air Intake", "Apex Induction", 450,
			core.PartStats{HorsepowerAdd: 8, TorqueAdd: 6}, combustionCompat),

		NewPart(core.CategoryECU, "street-tune", "Street ECU Remap", "Fieldline Tuning", 800,
			core.PartStats{HorsepowerMultiplier: 1.15, TorqueMultiplier: 1.10}, universalCompat),
		NewPart(core.CategoryECU, "race-tune", "Race ECU Package", "Fieldline Tuning", 2400,
			core.PartStats{HorsepowerMultiplier: 1.25, TorqueMultiplier: 1.18, RevLimit: 500}, universalCompat),

		// Brake tiers.
		NewPart(core.CategoryBrakes, "sport", "4-Piston Sport Kit", "Meridian Brakes", 1800,
			BrakeStats(BrakesSport), universalCompat),
		NewPart(core.CategoryBrakes, "track", "6-Piston Track Kit", "Meridian Brakes", 3600,
			BrakeStats(BrakesTrack), universalCompat),
		NewPart(core.CategoryBrakes, "race", "Carbon-Ceramic Race Kit", "Meridian Brakes", 8900,
			BrakeStats(BrakesRace), universalCompat),

		NewPart(core.CategoryTires, "sport", "Pilot S5 Sport", "Tread Dynamics", 900,
			core.PartStats{TireGrip: 1.08}, universalCompat),
		NewPart(core.CategoryTires, "semi-slick", "Cup R Semi-Slick", "Tread Dynamics", 1700,
			core.PartStats{TireGrip: 1.18}, universalCompat),

		NewPart(core.CategorySuspension, "coilovers", "ClubSport Coilovers", "Ohlingen", 2100,
			core.PartStats{TireGrip: 1.05, WeightReduction: 4}, universalCompat),
		NewPart(core.CategorySuspension, "race", "3-Way Race Dampers", "Ohlingen", 5200,
			core.PartStats{TireGrip: 1.12, WeightReduction: 8}, universalCompat),

		NewPart(core.CategoryAero, "splitter", "Front Splitter", "Windform Aero", 700,
			core.PartStats{DownforceAdd: 25, DragReduction: -1}, universalCompat),
		NewPart(core.CategoryAero, "gt-wing", "GT Wing", "Windform Aero", 1600,
			core.PartStats{DownforceAdd: 80, DragReduction: -4}, universalCompat),
		NewPart(core.CategoryAero, "flat-floor", "Flat Underfloor Kit", "Windform Aero", 2400,
			core.PartStats{DownforceAdd: 40, DragReduction: 3}, universalCompat),

		NewPart(core.CategoryChassis, "carbon-hood", "Carbon Hood and Fenders", "Lightline Composites", 1900,
			core.PartStats{WeightReduction: 28}, universalCompat),
		NewPart(core.CategoryInterior, "strip-kit", "Interior Strip Kit", "Lightline Composites", 600,
			core.PartStats{WeightReduction: 45}, universalCompat),
		NewPart(core.CategorySeats, "buckets", "Carbon Bucket Seats", "Lightline Composites", 2200,
			core.PartStats{WeightReduction: 22}, universalCompat),

		NewPart(core.CategoryWheels, "forged-18", "Forged 18x9.5", "Kinetic Forged", 2800,
			core.PartStats{WeightReduction: 12},
			core.CompatibilityRules{BoltPatterns: []core.BoltPattern{"5x114.3"}}),
		NewPart(core.CategoryWheels, "forged-19", "Forged 19x10", "Kinetic Forged", 3400,
			core.PartStats{WeightReduction: 9},
			core.CompatibilityRules{BoltPatterns: []core.BoltPattern{"5x114.3", "5x130"}}),

		NewPart(core.CategoryCooling, "fmic", "Front-Mount Intercooler", "Apex Induction", 1100,
			core.PartStats{HorsepowerAdd: 5, WeightReduction: -8}, combustionCompat),
		NewPart(core.CategoryFuel, "hp-pump", "High-Flow Fuel Pump", "Apex Induction", 500,
			core.PartStats{}, combustionCompat),
	}
	return parts
}

func withBay(r core.CompatibilityRules, minBay float64) core.CompatibilityRules {
	r.MinEngineBaySize = minBay
	return r
}
