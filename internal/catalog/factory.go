// internal/catalog/factory.go
package catalog

import (
	"fmt"

	"github.com/torres-mse/garage/pkg/core"
)

// universalCompat fits every vehicle: all axes are wildcards.
var universalCompat = core.CompatibilityRules{}

// NewPart builds a catalog entry. The id is prefixed with the category so
// ids stay unique across categories ("turbo-stage2", "exhaust-catback").
func NewPart(category core.Category, id, name, brand string, price float64, stats core.PartStats, compat core.CompatibilityRules) core.Part {
	return core.Part{
		ID:            fmt.Sprintf("%s-%s", category, id),
		Name:          name,
		Brand:         brand,
		Category:      category,
		Price:         price,
		Compatibility: compat,
		Stats:         stats,
	}
}

// TurboTier is a forced-induction preset size.
type TurboTier string

const (
	TurboSmall   TurboTier = "small"
	TurboMedium  TurboTier = "medium"
	TurboLarge   TurboTier = "large"
	TurboMonster TurboTier = "monster"
)

// turboConfigs: bigger tiers trade lag for power. Boost is the pressure the
// unit delivers stock; ECU tuning can push past it.
var turboConfigs = map[TurboTier]core.PartStats{
	TurboSmall:   {HorsepowerAdd: 80, TorqueAdd: 70, BoostPressure: 0.6},
	TurboMedium:  {HorsepowerAdd: 150, TorqueAdd: 130, BoostPressure: 1.0},
	TurboLarge:   {HorsepowerAdd: 250, TorqueAdd: 200, BoostPressure: 1.4},
	TurboMonster: {HorsepowerAdd: 400, TorqueAdd: 350, BoostPressure: 2.0},
}

// TurboStats returns the preset stats for a tier. Unknown tiers get the
// small preset.
func TurboStats(tier TurboTier) core.PartStats {
	if s, ok := turboConfigs[tier]; ok {
		return s
	}
	return turboConfigs[TurboSmall]
}

// ExhaustTier is an exhaust preset level.
type ExhaustTier string

const (
	ExhaustCatback ExhaustTier = "catback"
	ExhaustHeaders ExhaustTier = "headers"
	ExhaustFull    ExhaustTier = "full"
	ExhaustRace    ExhaustTier = "race"
)

var exhaustConfigs = map[ExhaustTier]core.PartStats{
	ExhaustCatback: {HorsepowerAdd: 10, TorqueAdd: 8, WeightReduction: 5},
	ExhaustHeaders: {HorsepowerAdd: 20, TorqueAdd: 15, WeightReduction: 3},
	ExhaustFull:    {HorsepowerAdd: 35, TorqueAdd: 25, WeightReduction: 15},
	ExhaustRace:    {HorsepowerAdd: 50, TorqueAdd: 40, WeightReduction: 20},
}

// ExhaustStats returns the preset stats for a tier. Unknown tiers get the
// catback preset.
func ExhaustStats(tier ExhaustTier) core.PartStats {
	if s, ok := exhaustConfigs[tier]; ok {
		return s
	}
	return exhaustConfigs[ExhaustCatback]
}

// BrakeTier is a brake kit preset level.
type BrakeTier string

const (
	BrakesSport BrakeTier = "sport"
	BrakesTrack BrakeTier = "track"
	BrakesRace  BrakeTier = "race"
)

// Brake presets are expressed as percent improvement over stock and folded
// into the braking multiplier here.
var brakeConfigs = map[BrakeTier]core.PartStats{
	BrakesSport: {BrakingPower: 1.15},
	BrakesTrack: {BrakingPower: 1.30},
	BrakesRace:  {BrakingPower: 1.50},
}

// BrakeStats returns the preset stats for a tier. Unknown tiers get the
// sport preset.
func BrakeStats(tier BrakeTier) core.PartStats {
	if s, ok := brakeConfigs[tier]; ok {
		return s
	}
	return brakeConfigs[BrakesSport]
}
