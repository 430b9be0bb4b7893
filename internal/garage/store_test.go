package garage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torres-mse/garage/internal/compat"
	"github.com/torres-mse/garage/internal/ledger"
	"github.com/torres-mse/garage/internal/physics"
	"github.com/torres-mse/garage/pkg/core"
)

type fakeCatalog struct {
	parts    map[string]core.Part
	vehicles map[string]core.Vehicle
}

func (c *fakeCatalog) Part(id string) (core.Part, bool) {
	p, ok := c.parts[id]
	return p, ok
}

func (c *fakeCatalog) Vehicle(id string) (core.Vehicle, bool) {
	v, ok := c.vehicles[id]
	return v, ok
}

type recordingPersister struct {
	states []core.GarageState
}

func (p *recordingPersister) Persist(state core.GarageState) {
	p.states = append(p.states, state)
}

func (p *recordingPersister) last() core.GarageState {
	return p.states[len(p.states)-1]
}

var (
	testVehicle = core.Vehicle{
		ID:           "ts-240",
		Manufacturer: "Torres",
		Name:         "TS-240",
		Year:         2024,
		BasePrice:    38000,
		BaseSpecs: core.BaseSpecs{
			Engine: core.Engine{
				Type:           core.MountInline4,
				Displacement:   2.4,
				BaseHorsepower: 276,
				BaseTorque:     392,
			},
			Drivetrain:      core.DrivetrainRWD,
			EngineLayout:    core.LayoutFront,
			Weight:          1560,
			DragCoefficient: 0.29,
			EngineBaySize:   2.8,
		},
	}

	turboKit = core.Part{
		ID: "turbo-kit", Name: "Stage 1 Turbo Kit",
		Category: core.CategoryTurbo,
		Price:    3500,
		Stats:    core.PartStats{HorsepowerAdd: 120, TorqueAdd: 150},
	}
	ecuTune = core.Part{
		ID: "ecu-tune", Name: "Performance Tune",
		Category: core.CategoryECU,
		Price:    800,
		Stats:    core.PartStats{HorsepowerMultiplier: 1.15},
	}
	catback = core.Part{
		ID: "catback", Name: "Catback Exhaust",
		Category: core.CategoryExhaust,
		Price:    1000,
		Stats:    core.PartStats{HorsepowerAdd: 12},
	}
	titanExhaust = core.Part{
		ID: "titan-exhaust", Name: "Titanium Exhaust",
		Category: core.CategoryExhaust,
		Price:    1500,
		Stats:    core.PartStats{HorsepowerAdd: 18, WeightReduction: 12},
	}
)

func newTestStore(t *testing.T, balance float64) (*Store, *ledger.Ledger, *recordingPersister) {
	t.Helper()

	led, err := ledger.New(balance, false)
	require.NoError(t, err)

	persister := &recordingPersister{}
	catalog := &fakeCatalog{
		parts: map[string]core.Part{
			turboKit.ID:     turboKit,
			ecuTune.ID:      ecuTune,
			catback.ID:      catback,
			titanExhaust.ID: titanExhaust,
		},
		vehicles: map[string]core.Vehicle{testVehicle.ID: testVehicle},
	}

	store, err := NewStore(Dependencies{
		Catalog:    catalog,
		Ledger:     led,
		Resolver:   compat.NewResolver(),
		Aggregator: physics.NewAggregator(),
		Persister:  persister,
	})
	require.NoError(t, err)
	return store, led, persister
}

func TestInstallPart_NoVehicleSelected(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)

	_, err := store.InstallPart(turboKit)
	require.Error(t, err)
	se, ok := AsStoreError(err)
	require.True(t, ok)
	assert.Equal(t, KindVehicleNotSelected, se.Kind)
}

func TestInstallPart_DebitsAndRecomputes(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	res, err := store.InstallPart(turboKit)
	require.NoError(t, err)

	assert.False(t, res.AlreadyInstalled)
	assert.Nil(t, res.Replaced)
	assert.Equal(t, 396.0, res.Metrics.Horsepower)
	assert.Equal(t, 542.0, res.Metrics.Torque)
	assert.Equal(t, 46500.0, led.Balance())
}

func TestInstallPart_AlreadyInstalledIsNoOp(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	first, err := store.InstallPart(turboKit)
	require.NoError(t, err)
	balanceAfterFirst := led.Balance()

	second, err := store.InstallPart(turboKit)
	require.NoError(t, err)

	assert.True(t, second.AlreadyInstalled)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, balanceAfterFirst, led.Balance())
}

func TestInstallPart_IncompatibleRejectedWithoutMutation(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	v8Swap := core.Part{
		ID: "v8-swap", Category: core.CategoryEngine, Price: 20000,
		Compatibility: core.CompatibilityRules{MountTypes: []core.MountType{core.MountV8}},
	}

	_, err := store.InstallPart(v8Swap)
	require.Error(t, err)
	se, _ := AsStoreError(err)
	assert.Equal(t, KindIncompatiblePart, se.Kind)
	assert.Contains(t, se.Reason, "mount type")

	vehicle, _ := store.CurrentVehicle()
	assert.Empty(t, vehicle.InstalledParts)
	assert.Equal(t, 50000.0, led.Balance())
}

func TestInstallPart_ReplaceRefundsDisplacedPart(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(catback)
	require.NoError(t, err)
	require.Equal(t, 49000.0, led.Balance())

	res, err := store.InstallPart(titanExhaust)
	require.NoError(t, err)

	require.NotNil(t, res.Replaced)
	assert.Equal(t, "catback", res.Replaced.ID)
	// Net effect of the swap is exactly one transaction: -1000 +1000 -1500.
	assert.Equal(t, 48500.0, led.Balance())

	vehicle, _ := store.CurrentVehicle()
	require.Len(t, vehicle.InstalledParts, 1)
	assert.Equal(t, "titan-exhaust", vehicle.InstalledParts[0].Part.ID)
}

func TestInstallPart_ReplaceAffordableOnlyWithRefund(t *testing.T) {
	// The refund of the displaced part must count toward affording the
	// replacement.
	store, led, _ := newTestStore(t, 1600)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(catback)
	require.NoError(t, err)
	require.Equal(t, 600.0, led.Balance())

	// 1500 > 600, but 600 plus the 1000 refund covers it.
	res, err := store.InstallPart(titanExhaust)
	require.NoError(t, err)
	require.NotNil(t, res.Replaced)
	assert.Equal(t, 100.0, led.Balance())
}

func TestInstallPart_InsufficientFundsRollsBack(t *testing.T) {
	store, led, _ := newTestStore(t, 1100)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(catback)
	require.NoError(t, err)
	balanceBefore := led.Balance()
	spentBefore := led.TotalSpent()
	earnedBefore := led.TotalEarned()
	metricsBefore, err := store.Metrics()
	require.NoError(t, err)

	unaffordable := core.Part{
		ID: "race-exhaust", Name: "Race Exhaust",
		Category: core.CategoryExhaust,
		Price:    9000,
		Stats:    core.PartStats{HorsepowerAdd: 30},
	}

	_, err = store.InstallPart(unaffordable)
	require.Error(t, err)
	se, _ := AsStoreError(err)
	assert.Equal(t, KindInsufficientFunds, se.Kind)

	// The displaced part is back and the balance is exactly as before.
	vehicle, _ := store.CurrentVehicle()
	require.Len(t, vehicle.InstalledParts, 1)
	assert.Equal(t, "catback", vehicle.InstalledParts[0].Part.ID)
	assert.Equal(t, balanceBefore, led.Balance())

	// A rejected swap records no ledger movement at all.
	assert.Equal(t, spentBefore, led.TotalSpent())
	assert.Equal(t, earnedBefore, led.TotalEarned())

	metricsAfter, err := store.Metrics()
	require.NoError(t, err)
	assert.Equal(t, metricsBefore, metricsAfter)
}

func TestInstallUninstall_RoundTrip(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	metricsBefore, err := store.Metrics()
	require.NoError(t, err)
	balanceBefore := led.Balance()

	_, err = store.InstallPart(turboKit)
	require.NoError(t, err)

	metricsAfter, err := store.UninstallPart(turboKit.ID)
	require.NoError(t, err)

	assert.Equal(t, metricsBefore, metricsAfter)
	assert.Equal(t, balanceBefore, led.Balance())
}

func TestScenario_MultiplierReappliesToRemainingBase(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	res, err := store.InstallPart(turboKit)
	require.NoError(t, err)
	assert.Equal(t, 396.0, res.Metrics.Horsepower)
	assert.Equal(t, 542.0, res.Metrics.Torque)

	res, err = store.InstallPart(ecuTune)
	require.NoError(t, err)
	assert.Equal(t, 455.4, res.Metrics.Horsepower)
	assert.Equal(t, 542.0, res.Metrics.Torque)

	// Removing the flat adder leaves the multiplier scaling the stock
	// base: 276 * 1.15, never 396 or 276.
	metrics, err := store.UninstallPart(turboKit.ID)
	require.NoError(t, err)
	assert.Equal(t, 317.4, metrics.Horsepower)
}

func TestUninstallPart_AbsentIsNoOp(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	metrics, err := store.UninstallPart("never-installed")
	require.NoError(t, err)
	assert.Equal(t, 276.0, metrics.Horsepower)
	assert.Equal(t, 50000.0, led.Balance())
}

func TestUninstallPart_NoVehicle(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)

	_, err := store.UninstallPart("turbo-kit")
	require.Error(t, err)
	se, _ := AsStoreError(err)
	assert.Equal(t, KindVehicleNotSelected, se.Kind)
}

func TestSelectVehicle_ResetsCustomization(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(turboKit)
	require.NoError(t, err)

	metrics := store.SelectVehicle(testVehicle)
	assert.Equal(t, 276.0, metrics.Horsepower)

	vehicle, ok := store.CurrentVehicle()
	require.True(t, ok)
	assert.Empty(t, vehicle.InstalledParts)
	assert.Equal(t, core.DefaultColors(), vehicle.Colors)
	assert.Equal(t, core.DefaultFinishes(), vehicle.Finishes)
}

func TestAtMostOnePartPerCategory(t *testing.T) {
	store, _, _ := newTestStore(t, 500000)
	store.SelectVehicle(testVehicle)

	sequence := []core.Part{catback, turboKit, titanExhaust, ecuTune, catback, titanExhaust}
	for _, p := range sequence {
		_, err := store.InstallPart(p)
		require.NoError(t, err)
	}

	vehicle, _ := store.CurrentVehicle()
	seen := map[core.Category]int{}
	for _, ip := range vehicle.InstalledParts {
		seen[ip.Part.Category]++
	}
	for cat, n := range seen {
		assert.LessOrEqual(t, n, 1, "category %s has %d parts", cat, n)
	}
}

func TestTunePart_AffectsMetrics(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	boosted := core.Part{
		ID: "big-turbo", Category: core.CategoryTurbo, Price: 5000,
		Stats: core.PartStats{HorsepowerAdd: 120, BoostPressure: 1.0},
	}
	_, err := store.InstallPart(boosted)
	require.NoError(t, err)

	metrics, err := store.TunePart("big-turbo", core.TuningSettings{BoostTarget: 1.5})
	require.NoError(t, err)
	assert.Equal(t, 403.5, metrics.Horsepower)

	metrics, err = store.ResetTuning("big-turbo")
	require.NoError(t, err)
	assert.Equal(t, 396.0, metrics.Horsepower)
}

func TestPersister_ReceivesSnapshots(t *testing.T) {
	store, _, persister := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(turboKit)
	require.NoError(t, err)

	require.NotEmpty(t, persister.states)
	last := persister.last()
	assert.Equal(t, "ts-240", last.VehicleID)
	require.Len(t, last.Parts, 1)
	assert.Equal(t, "turbo-kit", last.Parts[0].PartID)
	assert.Equal(t, 46500.0, last.Balance)
}

func TestSaveBuild_RequiresVehicle(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)

	_, err := store.SaveBuild("weekend racer")
	require.Error(t, err)
	se, _ := AsStoreError(err)
	assert.Equal(t, KindVehicleNotSelected, se.Kind)
}

func TestSaveBuild_SnapshotsConfiguration(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(turboKit)
	require.NoError(t, err)

	build, err := store.SaveBuild("weekend racer")
	require.NoError(t, err)

	assert.NotEmpty(t, build.ID)
	assert.Equal(t, "weekend racer", build.Name)
	assert.Equal(t, "ts-240", build.VehicleID)
	require.Len(t, build.Parts, 1)
	assert.Equal(t, "turbo-kit", build.Parts[0].PartID)
	assert.Equal(t, 396.0, build.Metrics.Horsepower)
}

func TestSaveBuild_SameVehicleOverwritesInPlace(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	first, err := store.SaveBuild("v1")
	require.NoError(t, err)

	_, err = store.InstallPart(turboKit)
	require.NoError(t, err)
	second, err := store.SaveBuild("v2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	builds := store.ListBuilds()
	require.Len(t, builds, 1)
	assert.Equal(t, "v2", builds[0].Name)
	require.Len(t, builds[0].Parts, 1)
}

func TestLoadBuild_RestoresWithoutCharging(t *testing.T) {
	store, led, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(turboKit)
	require.NoError(t, err)
	_, err = store.InstallPart(ecuTune)
	require.NoError(t, err)

	build, err := store.SaveBuild("weekend racer")
	require.NoError(t, err)
	savedMetrics := build.Metrics

	// Wipe the configuration and the purchase history noise.
	store.SelectVehicle(testVehicle)
	balanceBefore := led.Balance()

	metrics, err := store.LoadBuild(build.ID)
	require.NoError(t, err)

	assert.Equal(t, savedMetrics, metrics)
	assert.Equal(t, balanceBefore, led.Balance(), "restoring a snapshot is not a purchase")

	vehicle, _ := store.CurrentVehicle()
	assert.Len(t, vehicle.InstalledParts, 2)
}

func TestLoadBuild_UnknownID(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)

	_, err := store.LoadBuild("no-such-build")
	require.Error(t, err)
	se, _ := AsStoreError(err)
	assert.Equal(t, KindBuildNotFound, se.Kind)
}

func TestDeleteBuild(t *testing.T) {
	store, _, _ := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	build, err := store.SaveBuild("doomed")
	require.NoError(t, err)
	require.Len(t, store.ListBuilds(), 1)

	store.DeleteBuild(build.ID)
	assert.Empty(t, store.ListBuilds())

	// Unknown ids are ignored.
	store.DeleteBuild("gone")
}

func TestSaveBuild_CapEvictsOldest(t *testing.T) {
	led, err := ledger.New(50000, false)
	require.NoError(t, err)

	catalog := &fakeCatalog{parts: map[string]core.Part{}, vehicles: map[string]core.Vehicle{}}
	store, err := NewStore(Dependencies{
		Catalog:        catalog,
		Ledger:         led,
		Resolver:       compat.NewResolver(),
		Aggregator:     physics.NewAggregator(),
		MaxSavedBuilds: 3,
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		v := testVehicle
		v.ID = fmt.Sprintf("car-%d", i)
		catalog.vehicles[v.ID] = v
		store.SelectVehicle(v)
		_, err := store.SaveBuild(fmt.Sprintf("build %d", i))
		require.NoError(t, err)
	}

	builds := store.ListBuilds()
	require.Len(t, builds, 3)
	// Most recently saved first, oldest evicted.
	assert.Equal(t, "car-4", builds[0].VehicleID)
	assert.Equal(t, "car-3", builds[1].VehicleID)
	assert.Equal(t, "car-2", builds[2].VehicleID)
}

func TestRestoreState_RehydratesVehicleAndBuilds(t *testing.T) {
	store, _, persister := newTestStore(t, 50000)
	store.SelectVehicle(testVehicle)

	_, err := store.InstallPart(turboKit)
	require.NoError(t, err)
	_, err = store.SaveBuild("persisted")
	require.NoError(t, err)

	snapshot := persister.last()

	fresh, freshLedger, _ := newTestStore(t, 50000)
	require.NoError(t, fresh.RestoreState(snapshot))

	vehicle, ok := fresh.CurrentVehicle()
	require.True(t, ok)
	assert.Equal(t, "ts-240", vehicle.ID)
	require.Len(t, vehicle.InstalledParts, 1)
	assert.Equal(t, "turbo-kit", vehicle.InstalledParts[0].Part.ID)
	assert.Equal(t, 396.0, vehicle.CurrentMetrics.Horsepower)

	// Rehydration does not spend.
	assert.Equal(t, 50000.0, freshLedger.Balance())
	assert.Len(t, fresh.ListBuilds(), 1)
}
