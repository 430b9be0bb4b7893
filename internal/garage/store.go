// Package garage owns the mutable working state: the current vehicle, its
// installed parts and the saved-build library. Install, uninstall and
// select run as single critical sections so the cached metrics always match
// the installed set at the moment they are read.
package garage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/torres-mse/garage/internal/compat"
	"github.com/torres-mse/garage/internal/logging"
	"github.com/torres-mse/garage/pkg/core"
)

// Catalog is the read-only reference-data view the store resolves ids
// against.
type Catalog interface {
	Part(id string) (core.Part, bool)
	Vehicle(id string) (core.Vehicle, bool)
}

// Resolver decides whether a part fits the current vehicle.
type Resolver interface {
	Check(part core.Part, vehicle core.Vehicle) compat.Result
}

// Aggregator recomputes the performance profile after every mutation.
type Aggregator interface {
	Calculate(vehicle core.Vehicle) core.PerformanceMetrics
}

// Ledger funds part purchases and receives refunds.
type Ledger interface {
	Spend(amount float64) bool
	Add(amount float64)
	Balance() float64
}

// Persister receives state snapshots after each mutation. Implementations
// must not block; failures stay on their side of the boundary.
type Persister interface {
	Persist(state core.GarageState)
}

// Dependencies carries everything a Store needs.
type Dependencies struct {
	Catalog    Catalog
	Ledger     Ledger
	Resolver   Resolver
	Aggregator Aggregator
	Logger     logging.Logger
	Persister  Persister

	// MaxSavedBuilds caps the build library; 0 means core.MaxSavedBuilds.
	MaxSavedBuilds int
}

// InstallResult reports a successful (or no-op) install.
type InstallResult struct {
	// AlreadyInstalled is set when the exact part was present and nothing
	// changed: no currency movement, no recompute.
	AlreadyInstalled bool
	// Replaced is the part that vacated the category slot, if any.
	Replaced *core.Part
	// Warnings are advisory notes from the compatibility check.
	Warnings []string
	// Metrics is the profile after the operation.
	Metrics core.PerformanceMetrics
}

// Store is the configuration store.
type Store struct {
	mu        sync.Mutex
	vehicle   *core.Vehicle
	builds    []core.SavedBuild
	maxBuilds int

	catalog    Catalog
	ledger     Ledger
	resolver   Resolver
	aggregator Aggregator
	logger     logging.Logger
	persister  Persister

	// OTEL metrics
	installs     metric.Int64Counter
	uninstalls   metric.Int64Counter
	replacements metric.Int64Counter
	rejected     metric.Int64Counter
}

// NewStore creates a Store.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewStore(deps Dependencies) (*Store, error) {
	maxBuilds := deps.MaxSavedBuilds
	if maxBuilds <= 0 {
		maxBuilds = core.MaxSavedBuilds
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}

	s := &Store{
		maxBuilds:  maxBuilds,
		catalog:    deps.Catalog,
		ledger:     deps.Ledger,
		resolver:   deps.Resolver,
		aggregator: deps.Aggregator,
		logger:     logger,
		persister:  deps.Persister,
	}

	m := meter()

	var err error

	s.installs, err = m.Int64Counter(
		"garage.parts.installed",
		metric.WithDescription("Parts installed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating installs counter: %w", err)
	}

	s.uninstalls, err = m.Int64Counter(
		"garage.parts.uninstalled",
		metric.WithDescription("Parts uninstalled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating uninstalls counter: %w", err)
	}

	s.replacements, err = m.Int64Counter(
		"garage.parts.replaced",
		metric.WithDescription("Parts displaced by a same-category install"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating replacements counter: %w", err)
	}

	s.rejected, err = m.Int64Counter(
		"garage.installs.rejected",
		metric.WithDescription("Install attempts rejected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	return s, nil
}

// SelectVehicle replaces the working vehicle. Installed parts are cleared,
// colors and finishes reset to defaults, and metrics recomputed for the
// stock configuration.
func (s *Store) SelectVehicle(vehicle core.Vehicle) core.PerformanceMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := vehicle
	working.InstalledParts = nil
	working.Colors = core.DefaultColors()
	working.Finishes = core.DefaultFinishes()
	working.CurrentMetrics = s.aggregator.Calculate(working)
	s.vehicle = &working

	s.logger.Info("vehicle selected", "vehicleId", working.ID)
	s.persistLocked()
	return working.CurrentMetrics
}

// CurrentVehicle returns a copy of the working vehicle.
func (s *Store) CurrentVehicle() (core.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vehicle == nil {
		return core.Vehicle{}, false
	}
	return copyVehicle(*s.vehicle), true
}

// Metrics returns the current performance profile.
func (s *Store) Metrics() (core.PerformanceMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vehicle == nil {
		return core.PerformanceMetrics{}, errVehicleNotSelected()
	}
	return s.vehicle.CurrentMetrics, nil
}

// CheckCompatibility runs the resolver against the current vehicle without
// mutating anything.
func (s *Store) CheckCompatibility(part core.Part) (compat.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vehicle == nil {
		return compat.Result{}, errVehicleNotSelected()
	}
	return s.resolver.Check(part, *s.vehicle), nil
}

// InstallPart runs the install transaction: compatibility check, same-slot
// replace with refund, debit, append, recompute. The operation is atomic:
// on any failure the installed set and balance are exactly as before.
func (s *Store) InstallPart(part core.Part) (InstallResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(part, time.Now().UTC(), nil, true)
}

func (s *Store) installLocked(part core.Part, installedAt time.Time, tuning *core.TuningSettings, charge bool) (InstallResult, error) {
	if s.vehicle == nil {
		s.countRejected(KindVehicleNotSelected)
		return InstallResult{}, errVehicleNotSelected()
	}

	check := s.resolver.Check(part, *s.vehicle)
	if !check.Compatible {
		s.countRejected(KindIncompatiblePart)
		s.logger.Debug("install rejected", "partId", part.ID, "reason", check.Reason)
		return InstallResult{}, errIncompatible(check.Reason)
	}

	if _, ok := s.vehicle.InstalledPartByID(part.ID); ok {
		return InstallResult{
			AlreadyInstalled: true,
			Warnings:         check.Warnings,
			Metrics:          s.vehicle.CurrentMetrics,
		}, nil
	}

	// Vacate the category slot. The displaced part's refund is deferred
	// until the debit clears so a rejected install leaves the ledger
	// untouched.
	var removed *core.InstalledPart
	var removedIdx int
	if occupants(s.vehicle.InstalledParts, part.Category) >= slotLimit(part.Category) {
		removed, removedIdx = s.removeCategoryLocked(part.Category)
	}

	if charge {
		refunded := false
		if !s.ledger.Spend(part.Price) {
			// The purchase may still clear once the refund is in.
			if removed == nil || s.ledger.Balance()+removed.Part.Price < part.Price {
				if removed != nil {
					s.reinsertLocked(*removed, removedIdx)
				}
				s.countRejected(KindInsufficientFunds)
				return InstallResult{}, errInsufficientFunds(part.Price, s.ledger.Balance())
			}
			s.ledger.Add(removed.Part.Price)
			refunded = true
			s.ledger.Spend(part.Price)
		}
		if removed != nil && !refunded {
			s.ledger.Add(removed.Part.Price)
		}
	}

	s.vehicle.InstalledParts = append(s.vehicle.InstalledParts, core.InstalledPart{
		Part:        part,
		InstalledAt: installedAt,
		Tuning:      tuning,
	})
	s.vehicle.CurrentMetrics = s.aggregator.Calculate(*s.vehicle)

	s.installs.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("category", string(part.Category))))

	result := InstallResult{
		Warnings: check.Warnings,
		Metrics:  s.vehicle.CurrentMetrics,
	}
	if removed != nil {
		p := removed.Part
		result.Replaced = &p
		s.replacements.Add(context.Background(), 1)
		s.logger.Info("part replaced", "partId", part.ID, "replacedId", p.ID)
	} else {
		s.logger.Info("part installed", "partId", part.ID, "category", string(part.Category))
	}

	s.persistLocked()
	return result, nil
}

// UninstallPart removes a part by id, refunds its price and recomputes
// metrics. Removing a part that is not installed is a no-op success.
func (s *Store) UninstallPart(partID string) (core.PerformanceMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vehicle == nil {
		return core.PerformanceMetrics{}, errVehicleNotSelected()
	}

	idx := -1
	for i, ip := range s.vehicle.InstalledParts {
		if ip.Part.ID == partID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.vehicle.CurrentMetrics, nil
	}

	removed := s.vehicle.InstalledParts[idx]
	s.vehicle.InstalledParts = append(
		s.vehicle.InstalledParts[:idx],
		s.vehicle.InstalledParts[idx+1:]...,
	)
	s.ledger.Add(removed.Part.Price)
	s.vehicle.CurrentMetrics = s.aggregator.Calculate(*s.vehicle)

	s.uninstalls.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("category", string(removed.Part.Category))))
	s.logger.Info("part uninstalled", "partId", partID)

	s.persistLocked()
	return s.vehicle.CurrentMetrics, nil
}

// TunePart merges tuning settings into an installed part and recomputes
// metrics. Unknown part ids are ignored.
func (s *Store) TunePart(partID string, settings core.TuningSettings) (core.PerformanceMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vehicle == nil {
		return core.PerformanceMetrics{}, errVehicleNotSelected()
	}

	for i := range s.vehicle.InstalledParts {
		if s.vehicle.InstalledParts[i].Part.ID != partID {
			continue
		}
		merged := settings
		if prev := s.vehicle.InstalledParts[i].Tuning; prev != nil {
			if merged.BoostTarget == 0 {
				merged.BoostTarget = prev.BoostTarget
			}
			if merged.RevLimiter == 0 {
				merged.RevLimiter = prev.RevLimiter
			}
			if merged.FinalDrive == 0 {
				merged.FinalDrive = prev.FinalDrive
			}
		}
		s.vehicle.InstalledParts[i].Tuning = &merged
		s.vehicle.CurrentMetrics = s.aggregator.Calculate(*s.vehicle)
		s.persistLocked()
		break
	}
	return s.vehicle.CurrentMetrics, nil
}

// ResetTuning clears tuning on an installed part and recomputes metrics.
func (s *Store) ResetTuning(partID string) (core.PerformanceMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vehicle == nil {
		return core.PerformanceMetrics{}, errVehicleNotSelected()
	}

	for i := range s.vehicle.InstalledParts {
		if s.vehicle.InstalledParts[i].Part.ID == partID {
			s.vehicle.InstalledParts[i].Tuning = nil
			s.vehicle.CurrentMetrics = s.aggregator.Calculate(*s.vehicle)
			s.persistLocked()
			break
		}
	}
	return s.vehicle.CurrentMetrics, nil
}

// Balance returns the ledger balance.
func (s *Store) Balance() float64 {
	return s.ledger.Balance()
}

// Snapshot returns the current garage state as it would be persisted.
func (s *Store) Snapshot() core.GarageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) removeCategoryLocked(cat core.Category) (*core.InstalledPart, int) {
	for i, ip := range s.vehicle.InstalledParts {
		if ip.Part.Category == cat {
			removed := ip
			s.vehicle.InstalledParts = append(
				s.vehicle.InstalledParts[:i],
				s.vehicle.InstalledParts[i+1:]...,
			)
			return &removed, i
		}
	}
	return nil, -1
}

func (s *Store) reinsertLocked(ip core.InstalledPart, idx int) {
	if idx < 0 || idx > len(s.vehicle.InstalledParts) {
		s.vehicle.InstalledParts = append(s.vehicle.InstalledParts, ip)
		return
	}
	s.vehicle.InstalledParts = append(s.vehicle.InstalledParts, core.InstalledPart{})
	copy(s.vehicle.InstalledParts[idx+1:], s.vehicle.InstalledParts[idx:])
	s.vehicle.InstalledParts[idx] = ip
}

func (s *Store) countRejected(kind ErrorKind) {
	s.rejected.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", string(kind))))
}

// persistLocked hands a snapshot to the persister. Persistence is
// fire-and-forget: the persister must not block and its failures never
// reach the store.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	s.persister.Persist(s.snapshotLocked())
}

func (s *Store) snapshotLocked() core.GarageState {
	state := core.GarageState{
		Balance:   s.ledger.Balance(),
		UpdatedAt: time.Now().UTC(),
		Builds:    append([]core.SavedBuild(nil), s.builds...),
	}
	if s.vehicle != nil {
		state.VehicleID = s.vehicle.ID
		state.Parts = partRefs(s.vehicle.InstalledParts)
	}
	return state
}

func partRefs(installed []core.InstalledPart) []core.InstalledPartRef {
	refs := make([]core.InstalledPartRef, len(installed))
	for i, ip := range installed {
		refs[i] = core.InstalledPartRef{
			PartID:      ip.Part.ID,
			InstalledAt: ip.InstalledAt,
			Tuning:      ip.Tuning,
		}
	}
	return refs
}

func occupants(installed []core.InstalledPart, cat core.Category) int {
	n := 0
	for _, ip := range installed {
		if ip.Part.Category == cat {
			n++
		}
	}
	return n
}

func copyVehicle(v core.Vehicle) core.Vehicle {
	out := v
	out.InstalledParts = append([]core.InstalledPart(nil), v.InstalledParts...)
	return out
}
