package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/torres-mse/garage/internal/model"
	"github.com/torres-mse/garage/pkg/core"
)

func sampleVehicle() core.Vehicle {
	return core.Vehicle{
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
			Weight:          1560,
			EngineBaySize:   2.8,
			BoltPattern:     "5x114.3",
			DragCoefficient: 0.29,
		},
		Colors:   core.DefaultColors(),
		Finishes: core.DefaultFinishes(),
	}
}

func samplePart() core.Part {
	return core.Part{
		ID:       "turbo-stage2",
		Name:     "GTX-3576 Ball Bearing Kit",
		Brand:    "Hayashi Turbo",
		Category: core.CategoryTurbo,
		Price:    3500,
		Compatibility: core.CompatibilityRules{
			MountTypes:       []core.MountType{core.MountInline4, core.MountV6},
			MinEngineBaySize: 2.0,
		},
		Stats: core.PartStats{HorsepowerAdd: 150, TorqueAdd: 130, BoostPressure: 1.0},
	}
}

func TestVehicleRoundTrip(t *testing.T) {
	in := sampleVehicle()

	row, err := VehicleToGorm(in)
	require.NoError(t, err)
	assert.Equal(t, "ts-240", row.VehicleID)
	assert.Equal(t, "Torres", row.Manufacturer)
	assert.NotEmpty(t, row.BaseSpecs)

	out, err := VehicleToCore(row)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.BaseSpecs, out.BaseSpecs)
	// Working state never round-trips through the catalog.
	assert.Empty(t, out.InstalledParts)
}

func TestVehicleToCoreEmptySpecs(t *testing.T) {
	out, err := VehicleToCore(model.VehicleTemplate{VehicleID: "bare"})
	require.NoError(t, err)
	assert.Equal(t, core.BaseSpecs{}, out.BaseSpecs)
	assert.Equal(t, core.DefaultColors(), out.Colors)
}

func TestVehicleToCoreBadSpecs(t *testing.T) {
	_, err := VehicleToCore(model.VehicleTemplate{
		VehicleID: "bad",
		BaseSpecs: datatypes.JSON(`{not json`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding base specs")
}

func TestPartRoundTrip(t *testing.T) {
	in := samplePart()

	row, err := PartToGorm(in)
	require.NoError(t, err)
	assert.Equal(t, "turbo-stage2", row.PartID)
	assert.Equal(t, "turbo", row.Category)

	out, err := PartToCore(row)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPartToCoreBadStats(t *testing.T) {
	_, err := PartToCore(model.PartRecord{
		PartID: "bad",
		Stats:  datatypes.JSON(`[`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding stats")
}

func TestBuildRoundTrip(t *testing.T) {
	saved := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	in := core.SavedBuild{
		ID:        "ts-240-123456",
		Name:      "Track day",
		VehicleID: "ts-240",
		Parts: []core.InstalledPartRef{
			{PartID: "turbo-stage2", InstalledAt: saved.Add(-time.Hour)},
			{PartID: "ecu-street-tune", InstalledAt: saved.Add(-30 * time.Minute), Tuning: &core.TuningSettings{BoostTarget: 1.2}},
		},
		Metrics:  core.PerformanceMetrics{Horsepower: 455.4, Weight: 1560},
		Colors:   core.DefaultColors(),
		Finishes: core.DefaultFinishes(),
		SavedAt:  saved,
	}

	row, err := BuildToGorm("default", in, 2)
	require.NoError(t, err)
	assert.Equal(t, "default", row.Profile)
	assert.Equal(t, 2, row.Position)
	assert.True(t, row.SavedAt.Equal(saved))

	out, err := BuildToCore(row)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Metrics, out.Metrics)
	require.Len(t, out.Parts, 2)
	require.NotNil(t, out.Parts[1].Tuning)
	assert.InDelta(t, 1.2, out.Parts[1].Tuning.BoostTarget, 1e-9)
}

func TestStateRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	in := core.GarageState{
		VehicleID: "ts-240",
		Parts: []core.InstalledPartRef{
			{PartID: "exhaust-catback", InstalledAt: now.Add(-time.Hour)},
		},
		Builds: []core.SavedBuild{
			{ID: "b1", Name: "one", VehicleID: "ts-240", SavedAt: now},
			{ID: "b2", Name: "two", VehicleID: "kr-stx", SavedAt: now.Add(-time.Hour)},
		},
		Balance:   46500,
		UpdatedAt: now,
	}

	rec, builds, err := StateToGorm("default", in)
	require.NoError(t, err)
	assert.Equal(t, "default", rec.Profile)
	assert.InDelta(t, 46500.0, rec.Balance, 1e-9)
	require.Len(t, builds, 2)
	assert.Equal(t, 0, builds[0].Position)
	assert.Equal(t, 1, builds[1].Position)

	out, err := StateToCore(rec, builds)
	require.NoError(t, err)
	assert.Equal(t, in.VehicleID, out.VehicleID)
	assert.InDelta(t, in.Balance, out.Balance, 1e-9)
	require.Len(t, out.Builds, 2)
	assert.Equal(t, "b1", out.Builds[0].ID)
	require.Len(t, out.Parts, 1)
	assert.Equal(t, "exhaust-catback", out.Parts[0].PartID)
}

func TestStateToCoreBadParts(t *testing.T) {
	_, err := StateToCore(model.GarageStateRecord{
		Profile:        "default",
		InstalledParts: datatypes.JSON(`{`),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding installed parts")
}
