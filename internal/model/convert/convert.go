// Package convert provides functions to convert GORM models to core models
// and back. Nested documents (specs, stats, installed parts) travel as JSON
// columns, so conversion is mostly codec work.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/torres-mse/garage/internal/model"
	"github.com/torres-mse/garage/pkg/core"
)

// VehicleToCore converts a catalog VehicleTemplate row to a core.Vehicle.
func VehicleToCore(v model.VehicleTemplate) (core.Vehicle, error) {
	out := core.Vehicle{
		ID:           v.VehicleID,
		Manufacturer: v.Manufacturer,
		Name:         v.Name,
		Year:         v.Year,
		BasePrice:    v.BasePrice,
		Colors:       core.DefaultColors(),
		Finishes:     core.DefaultFinishes(),
	}
	if len(v.BaseSpecs) > 0 {
		if err := json.Unmarshal(v.BaseSpecs, &out.BaseSpecs); err != nil {
			return core.Vehicle{}, fmt.Errorf("decoding base specs for %s: %w", v.VehicleID, err)
		}
	}
	return out, nil
}

// PartToCore converts a catalog PartRecord row to a core.Part.
func PartToCore(p model.PartRecord) (core.Part, error) {
	out := core.Part{
		ID:          p.PartID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    core.Category(p.Category),
		Price:       p.Price,
		Weight:      p.Weight,
		Description: p.Description,
	}
	if len(p.Compatibility) > 0 {
		if err := json.Unmarshal(p.Compatibility, &out.Compatibility); err != nil {
			return core.Part{}, fmt.Errorf("decoding compatibility for %s: %w", p.PartID, err)
		}
	}
	if len(p.Stats) > 0 {
		if err := json.Unmarshal(p.Stats, &out.Stats); err != nil {
			return core.Part{}, fmt.Errorf("decoding stats for %s: %w", p.PartID, err)
		}
	}
	return out, nil
}

// BuildToCore converts a SavedBuildRecord row to a core.SavedBuild.
func BuildToCore(b model.SavedBuildRecord) (core.SavedBuild, error) {
	out := core.SavedBuild{
		ID:        b.BuildID,
		Name:      b.Name,
		VehicleID: b.VehicleID,
		SavedAt:   b.SavedAt,
	}
	if len(b.Parts) > 0 {
		if err := json.Unmarshal(b.Parts, &out.Parts); err != nil {
			return core.SavedBuild{}, fmt.Errorf("decoding parts for build %s: %w", b.BuildID, err)
		}
	}
	if len(b.Metrics) > 0 {
		if err := json.Unmarshal(b.Metrics, &out.Metrics); err != nil {
			return core.SavedBuild{}, fmt.Errorf("decoding metrics for build %s: %w", b.BuildID, err)
		}
	}
	if len(b.Colors) > 0 {
		if err := json.Unmarshal(b.Colors, &out.Colors); err != nil {
			return core.SavedBuild{}, fmt.Errorf("decoding colors for build %s: %w", b.BuildID, err)
		}
	}
	if len(b.Finishes) > 0 {
		if err := json.Unmarshal(b.Finishes, &out.Finishes); err != nil {
			return core.SavedBuild{}, fmt.Errorf("decoding finishes for build %s: %w", b.BuildID, err)
		}
	}
	return out, nil
}

// StateToCore reassembles a core.GarageState from its state row and build
// rows. Build rows are expected ordered by Position, most recent save first.
func StateToCore(s model.GarageStateRecord, builds []model.SavedBuildRecord) (core.GarageState, error) {
	out := core.GarageState{
		VehicleID: s.VehicleID,
		Balance:   s.Balance,
		UpdatedAt: s.UpdatedAt,
	}
	if len(s.InstalledParts) > 0 {
		if err := json.Unmarshal(s.InstalledParts, &out.Parts); err != nil {
			return core.GarageState{}, fmt.Errorf("decoding installed parts: %w", err)
		}
	}
	out.Builds = make([]core.SavedBuild, 0, len(builds))
	for _, b := range builds {
		cb, err := BuildToCore(b)
		if err != nil {
			return core.GarageState{}, err
		}
		out.Builds = append(out.Builds, cb)
	}
	return out, nil
}
