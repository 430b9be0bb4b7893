// pkg/core/build.go
package core

import "time"

// MaxSavedBuilds caps the per-account build library. Saving an eleventh build
// for a new vehicle evicts the least recently saved entry.
const MaxSavedBuilds = 10

// InstalledPartRef is the persisted form of an installed part: identity,
// install time and tuning knobs. The part definition itself is re-resolved
// against the catalog on load.
type InstalledPartRef struct {
	PartID      string          `json:"partId"`
	InstalledAt time.Time       `json:"installedAt"`
	Tuning      *TuningSettings `json:"tuning,omitempty"`
}

// SavedBuild is a named snapshot of a configured vehicle, including the
// metrics at save time. Loading one replaces the working configuration
// wholesale and does not touch the ledger.
type SavedBuild struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	VehicleID string             `json:"vehicleId"`
	Parts     []InstalledPartRef `json:"parts"`
	Metrics   PerformanceMetrics `json:"metrics"`
	Colors    VehicleColors      `json:"colors"`
	Finishes  VehicleFinishes    `json:"finishes"`
	SavedAt   time.Time          `json:"savedAt"`
}

// GarageState is the persisted snapshot of the working garage: the current
// vehicle, its installed parts and the saved-build library. It is what the
// storage backends write and read.
type GarageState struct {
	VehicleID string             `json:"vehicleId"`
	Parts     []InstalledPartRef `json:"parts"`
	Builds    []SavedBuild       `json:"builds"`
	Balance   float64            `json:"balance"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
