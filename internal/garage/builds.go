package garage

import (
	"fmt"
	"time"

	"github.com/torres-mse/garage/pkg/core"
)

// SaveBuild snapshots the current configuration under a name. Builds are
// kept most-recently-saved first, capped at the configured maximum with the
// oldest dropped. A save for a vehicle that already has a build overwrites
// that entry in place, keeping its id and list position.
func (s *Store) SaveBuild(name string) (core.SavedBuild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vehicle == nil {
		return core.SavedBuild{}, errVehicleNotSelected()
	}

	if name == "" {
		name = fmt.Sprintf("%s %s build", s.vehicle.Manufacturer, s.vehicle.Name)
	}

	build := core.SavedBuild{
		Name:      name,
		VehicleID: s.vehicle.ID,
		Parts:     partRefs(s.vehicle.InstalledParts),
		Metrics:   s.vehicle.CurrentMetrics,
		Colors:    s.vehicle.Colors,
		Finishes:  s.vehicle.Finishes,
		SavedAt:   time.Now().UTC(),
	}

	for i, existing := range s.builds {
		if existing.VehicleID == build.VehicleID {
			build.ID = existing.ID
			s.builds[i] = build
			s.logger.Info("build overwritten", "buildId", build.ID, "vehicleId", build.VehicleID)
			s.persistLocked()
			return build, nil
		}
	}

	build.ID = fmt.Sprintf("%s-%d", build.VehicleID, build.SavedAt.UnixNano())
	s.builds = append([]core.SavedBuild{build}, s.builds...)
	if len(s.builds) > s.maxBuilds {
		dropped := s.builds[len(s.builds)-1]
		s.builds = s.builds[:s.maxBuilds]
		s.logger.Debug("oldest build evicted", "buildId", dropped.ID)
	}

	s.logger.Info("build saved", "buildId", build.ID, "vehicleId", build.VehicleID)
	s.persistLocked()
	return build, nil
}

// ListBuilds returns the saved builds, most recently saved first.
func (s *Store) ListBuilds() []core.SavedBuild {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavedBuild(nil), s.builds...)
}

// DeleteBuild removes a saved build by id. Deleting an unknown id is a
// no-op.
func (s *Store) DeleteBuild(buildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.builds {
		if b.ID == buildID {
			s.builds = append(s.builds[:i], s.builds[i+1:]...)
			s.logger.Info("build deleted", "buildId", buildID)
			s.persistLocked()
			return
		}
	}
}

// LoadBuild restores a saved build: the vehicle is re-selected and every
// snapshotted part re-applied through the normal install path with the
// ledger bypassed. Restoring a snapshot is not a purchase.
func (s *Store) LoadBuild(buildID string) (core.PerformanceMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var build *core.SavedBuild
	for i := range s.builds {
		if s.builds[i].ID == buildID {
			build = &s.builds[i]
			break
		}
	}
	if build == nil {
		return core.PerformanceMetrics{}, errBuildNotFound(buildID)
	}

	vehicle, ok := s.catalog.Vehicle(build.VehicleID)
	if !ok {
		return core.PerformanceMetrics{}, &StoreError{
			Kind:   KindBuildNotFound,
			Reason: fmt.Sprintf("build %q references unknown vehicle %q", buildID, build.VehicleID),
		}
	}

	working := vehicle
	working.InstalledParts = nil
	working.Colors = build.Colors
	working.Finishes = build.Finishes
	working.CurrentMetrics = s.aggregator.Calculate(working)
	s.vehicle = &working

	for _, ref := range build.Parts {
		part, ok := s.catalog.Part(ref.PartID)
		if !ok {
			s.logger.Error("build references unknown part, skipping", "partId", ref.PartID)
			continue
		}
		if _, err := s.installLocked(part, ref.InstalledAt, ref.Tuning, false); err != nil {
			s.logger.Error("build part no longer applies, skipping",
				"partId", ref.PartID, "error", err.Error())
		}
	}

	s.logger.Info("build loaded", "buildId", buildID, "vehicleId", build.VehicleID)
	s.persistLocked()
	return s.vehicle.CurrentMetrics, nil
}

// RestoreState rehydrates the store from a persisted snapshot: saved builds
// verbatim, and the working vehicle re-selected with its parts re-applied
// ledger-free.
func (s *Store) RestoreState(state core.GarageState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.builds = append([]core.SavedBuild(nil), state.Builds...)
	if len(s.builds) > s.maxBuilds {
		s.builds = s.builds[:s.maxBuilds]
	}

	if state.VehicleID == "" {
		return nil
	}

	vehicle, ok := s.catalog.Vehicle(state.VehicleID)
	if !ok {
		return &StoreError{
			Kind:   KindBuildNotFound,
			Reason: fmt.Sprintf("persisted state references unknown vehicle %q", state.VehicleID),
		}
	}

	working := vehicle
	working.InstalledParts = nil
	working.Colors = core.DefaultColors()
	working.Finishes = core.DefaultFinishes()
	working.CurrentMetrics = s.aggregator.Calculate(working)
	s.vehicle = &working

	for _, ref := range state.Parts {
		part, ok := s.catalog.Part(ref.PartID)
		if !ok {
			s.logger.Error("state references unknown part, skipping", "partId", ref.PartID)
			continue
		}
		if _, err := s.installLocked(part, ref.InstalledAt, ref.Tuning, false); err != nil {
			s.logger.Error("persisted part no longer applies, skipping",
				"partId", ref.PartID, "error", err.Error())
		}
	}
	return nil
}
