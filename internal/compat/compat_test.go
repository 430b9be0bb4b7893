package compat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torres-mse/garage/pkg/core"
)

func testVehicle() core.Vehicle {
	return core.Vehicle{
		ID:           "ts-240",
		Manufacturer: "Torres",
		Name:         "TS-240",
		BaseSpecs: core.BaseSpecs{
			Engine: core.Engine{
				Type:               core.MountInline4,
				NaturallyAspirated: true,
				BaseHorsepower:     276,
				BaseTorque:         392,
			},
			Drivetrain:    core.DrivetrainRWD,
			EngineLayout:  core.LayoutFront,
			EngineBaySize: 2.4,
			BoltPattern:   core.BoltPattern("5x114.3"),
			Weight:        1560,
		},
		CurrentMetrics: core.PerformanceMetrics{Weight: 1560},
	}
}

func installed(parts ...core.Part) []core.InstalledPart {
	out := make([]core.InstalledPart, len(parts))
	for i, p := range parts {
		out[i] = core.InstalledPart{Part: p, InstalledAt: time.Now()}
	}
	return out
}

func TestCheck_WildcardRulesFitEverything(t *testing.T) {
	r := NewResolver()
	part := core.Part{ID: "universal-ecu", Category: core.CategoryECU}

	res := r.Check(part, testVehicle())
	assert.True(t, res.Compatible)
	assert.Empty(t, res.Reason)
	assert.Empty(t, res.Warnings)
}

func TestCheck_AxisFailures(t *testing.T) {
	vehicle := testVehicle()

	tests := []struct {
		name       string
		rules      core.CompatibilityRules
		wantReason string
	}{
		{
			name:       "mount type mismatch",
			rules:      core.CompatibilityRules{MountTypes: []core.MountType{core.MountV8}},
			wantReason: "mount type",
		},
		{
			name:       "drivetrain mismatch",
			rules:      core.CompatibilityRules{Drivetrains: []core.Drivetrain{core.DrivetrainAWD}},
			wantReason: "drivetrain",
		},
		{
			name:       "engine layout mismatch",
			rules:      core.CompatibilityRules{EngineLayouts: []core.EngineLayout{core.LayoutMid}},
			wantReason: "engine layout",
		},
		{
			name:       "engine bay too small",
			rules:      core.CompatibilityRules{MinEngineBaySize: 3.5},
			wantReason: "engine bay size",
		},
		{
			name:       "bolt pattern mismatch",
			rules:      core.CompatibilityRules{BoltPatterns: []core.BoltPattern{"5x120"}},
			wantReason: "bolt pattern",
		},
		{
			name:       "missing required part",
			rules:      core.CompatibilityRules{RequiredParts: []string{"fuel-pump-stage2"}},
			wantReason: "required parts",
		},
	}

	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part := core.Part{ID: "p", Category: core.CategoryEngine, Compatibility: tt.rules}
			res := r.Check(part, vehicle)
			assert.False(t, res.Compatible)
			assert.Contains(t, res.Reason, tt.wantReason)
		})
	}
}

func TestCheck_ShortCircuitOrder(t *testing.T) {
	// Both mount type and drivetrain fail; the reason must name the mount
	// axis because it is checked first.
	part := core.Part{
		ID: "p",
		Compatibility: core.CompatibilityRules{
			MountTypes:  []core.MountType{core.MountV8},
			Drivetrains: []core.Drivetrain{core.DrivetrainAWD},
		},
	}

	res := NewResolver().Check(part, testVehicle())
	require.False(t, res.Compatible)
	assert.Contains(t, res.Reason, "mount type")
	assert.NotContains(t, res.Reason, "drivetrain:")
}

func TestCheck_RequiredPartSatisfied(t *testing.T) {
	vehicle := testVehicle()
	pump := core.Part{ID: "fuel-pump-stage2", Name: "Stage 2 Fuel Pump", Category: core.CategoryFuel}
	vehicle.InstalledParts = installed(pump)

	part := core.Part{
		ID:            "big-turbo",
		Category:      core.CategoryTurbo,
		Compatibility: core.CompatibilityRules{RequiredParts: []string{"fuel-pump-stage2"}},
	}

	res := NewResolver().Check(part, vehicle)
	assert.True(t, res.Compatible)
}

func TestCheck_ConflictingPartNamesInstalledPart(t *testing.T) {
	vehicle := testVehicle()
	blower := core.Part{ID: "roots-blower", Name: "Roots Blower", Category: core.CategorySupercharger}
	vehicle.InstalledParts = installed(blower)

	part := core.Part{
		ID:            "itb-kit",
		Category:      core.CategoryIntake,
		Compatibility: core.CompatibilityRules{ConflictingParts: []string{"roots-blower"}},
	}

	res := NewResolver().Check(part, vehicle)
	require.False(t, res.Compatible)
	assert.Contains(t, res.Reason, "conflicting parts")
	assert.Contains(t, res.Reason, "Roots Blower")
}

func TestCheck_TurboWithSuperchargerWarns(t *testing.T) {
	vehicle := testVehicle()
	vehicle.BaseSpecs.Engine.NaturallyAspirated = false
	blower := core.Part{ID: "roots-blower", Category: core.CategorySupercharger}
	vehicle.InstalledParts = installed(blower)

	turbo := core.Part{ID: "turbo-kit", Category: core.CategoryTurbo}
	res := NewResolver().Check(turbo, vehicle)

	require.True(t, res.Compatible)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "supercharger")
}

func TestCheck_ForcedInductionOnNAWarns(t *testing.T) {
	turbo := core.Part{ID: "turbo-kit", Category: core.CategoryTurbo}

	res := NewResolver().Check(turbo, testVehicle())
	require.True(t, res.Compatible)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "naturally aspirated")
}

func TestCheck_MaxWeightWarns(t *testing.T) {
	part := core.Part{
		ID:            "armored-kit",
		Category:      core.CategoryExterior,
		Weight:        80,
		Compatibility: core.CompatibilityRules{MaxWeight: 1600},
	}

	res := NewResolver().Check(part, testVehicle())
	require.True(t, res.Compatible)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "1600kg")
}

func TestFilterCompatible(t *testing.T) {
	vehicle := testVehicle()
	fits := core.Part{ID: "fits", Category: core.CategoryExhaust}
	wrongMount := core.Part{
		ID:            "v8-headers",
		Category:      core.CategoryExhaust,
		Compatibility: core.CompatibilityRules{MountTypes: []core.MountType{core.MountV8}},
	}
	alsoFits := core.Part{
		ID:            "coilovers",
		Category:      core.CategorySuspension,
		Compatibility: core.CompatibilityRules{Drivetrains: []core.Drivetrain{core.DrivetrainRWD}},
	}

	got := NewResolver().FilterCompatible([]core.Part{fits, wrongMount, alsoFits}, vehicle)
	require.Len(t, got, 2)
	assert.Equal(t, "fits", got[0].ID)
	assert.Equal(t, "coilovers", got[1].ID)
}

func TestDependentParts(t *testing.T) {
	vehicle := testVehicle()
	pump := core.Part{ID: "fuel-pump-stage2", Category: core.CategoryFuel}
	turbo := core.Part{
		ID:            "big-turbo",
		Category:      core.CategoryTurbo,
		Compatibility: core.CompatibilityRules{RequiredParts: []string{"fuel-pump-stage2"}},
	}
	vehicle.InstalledParts = installed(pump, turbo)

	deps := NewResolver().DependentParts("fuel-pump-stage2", vehicle)
	require.Len(t, deps, 1)
	assert.Equal(t, "big-turbo", deps[0].ID)

	assert.Empty(t, NewResolver().DependentParts("big-turbo", vehicle))
}
