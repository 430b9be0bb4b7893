// internal/model/convert/to_gorm.go
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/torres-mse/garage/internal/model"
	"github.com/torres-mse/garage/pkg/core"
)

// VehicleToGorm converts a core.Vehicle to its catalog row. Installed parts
// and current metrics are working state and do not belong in the catalog.
func VehicleToGorm(v core.Vehicle) (model.VehicleTemplate, error) {
	specs, err := json.Marshal(v.BaseSpecs)
	if err != nil {
		return model.VehicleTemplate{}, fmt.Errorf("encoding base specs for %s: %w", v.ID, err)
	}
	return model.VehicleTemplate{
		VehicleID:    v.ID,
		Manufacturer: v.Manufacturer,
		Name:         v.Name,
		Year:         v.Year,
		BasePrice:    v.BasePrice,
		BaseSpecs:    specs,
	}, nil
}

// PartToGorm converts a core.Part to its catalog row.
func PartToGorm(p core.Part) (model.PartRecord, error) {
	compat, err := json.Marshal(p.Compatibility)
	if err != nil {
		return model.PartRecord{}, fmt.Errorf("encoding compatibility for %s: %w", p.ID, err)
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return model.PartRecord{}, fmt.Errorf("encoding stats for %s: %w", p.ID, err)
	}
	return model.PartRecord{
		PartID:        p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Category:      string(p.Category),
		Price:         p.Price,
		Weight:        p.Weight,
		Compatibility: compat,
		Stats:         stats,
		Description:   p.Description,
	}, nil
}

// BuildToGorm converts a core.SavedBuild to its row. Position records the
// build's index in the most-recent-first list.
func BuildToGorm(profile string, b core.SavedBuild, position int) (model.SavedBuildRecord, error) {
	parts, err := json.Marshal(b.Parts)
	if err != nil {
		return model.SavedBuildRecord{}, fmt.Errorf("encoding parts for build %s: %w", b.ID, err)
	}
	metrics, err := json.Marshal(b.Metrics)
	if err != nil {
		return model.SavedBuildRecord{}, fmt.Errorf("encoding metrics for build %s: %w", b.ID, err)
	}
	colors, err := json.Marshal(b.Colors)
	if err != nil {
		return model.SavedBuildRecord{}, fmt.Errorf("encoding colors for build %s: %w", b.ID, err)
	}
	finishes, err := json.Marshal(b.Finishes)
	if err != nil {
		return model.SavedBuildRecord{}, fmt.Errorf("encoding finishes for build %s: %w", b.ID, err)
	}
	return model.SavedBuildRecord{
		BuildID:   b.ID,
		Profile:   profile,
		Name:      b.Name,
		VehicleID: b.VehicleID,
		SavedAt:   b.SavedAt,
		Position:  position,
		Parts:     parts,
		Metrics:   metrics,
		Colors:    colors,
		Finishes:  finishes,
	}, nil
}

// StateToGorm splits a core.GarageState into its state row and build rows.
func StateToGorm(profile string, s core.GarageState) (model.GarageStateRecord, []model.SavedBuildRecord, error) {
	parts, err := json.Marshal(s.Parts)
	if err != nil {
		return model.GarageStateRecord{}, nil, fmt.Errorf("encoding installed parts: %w", err)
	}
	rec := model.GarageStateRecord{
		Profile:        profile,
		UpdatedAt:      s.UpdatedAt,
		VehicleID:      s.VehicleID,
		Balance:        s.Balance,
		InstalledParts: parts,
	}
	builds := make([]model.SavedBuildRecord, 0, len(s.Builds))
	for i, b := range s.Builds {
		row, err := BuildToGorm(profile, b, i)
		if err != nil {
			return model.GarageStateRecord{}, nil, err
		}
		builds = append(builds, row)
	}
	return rec, builds, nil
}
