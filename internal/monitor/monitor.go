// Package monitor periodically reports garage health: persist queue depth,
// last write duration and the active build's headline numbers. Output goes
// to a status file and, when configured, to InfluxDB.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/torres-mse/garage/internal/influx"
	"github.com/torres-mse/garage/internal/logging"
	"github.com/torres-mse/garage/pkg/core"
)

// StateProvider exposes the current garage state.
type StateProvider interface {
	Snapshot() core.GarageState
}

// WriteStats exposes persist worker statistics.
type WriteStats interface {
	QueueLen() int
	GetLastDBWriteDuration() time.Duration
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	State    StateProvider
	Writer   WriteStats
	Influx   *influx.Manager // optional
	Logger   logging.Logger
	StateDir string
	Interval time.Duration
}

// Status is the JSON document written to the status file.
type Status struct {
	Time                time.Time `json:"time"`
	VehicleID           string    `json:"vehicleId"`
	InstalledParts      int       `json:"installedParts"`
	SavedBuilds         int       `json:"savedBuilds"`
	Balance             float64   `json:"balance"`
	PersistQueueLength  int       `json:"persistQueueLength"`
	LastWriteDurationMs float64   `json:"lastWriteDurationMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger{}
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// CurrentStatus assembles a status sample.
func (s *Service) CurrentStatus() Status {
	state := s.deps.State.Snapshot()
	return Status{
		Time:                time.Now().UTC(),
		VehicleID:           state.VehicleID,
		InstalledParts:      len(state.Parts),
		SavedBuilds:         len(state.Builds),
		Balance:             state.Balance,
		PersistQueueLength:  s.deps.Writer.QueueLen(),
		LastWriteDurationMs: float64(s.deps.Writer.GetLastDBWriteDuration().Milliseconds()),
	}
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	if err := os.MkdirAll(s.deps.StateDir, 0755); err != nil {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("creating status directory: %w", err)
	}

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("starting status monitor goroutine")

		statusPath := filepath.Join(s.deps.StateDir, "status.json")
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				status := s.CurrentStatus()

				if err := s.writeStatusFile(statusPath, status); err != nil {
					s.deps.Logger.Error("error writing status file", "error", err)
				}

				if s.deps.Influx != nil && s.deps.Influx.IsValid {
					point := influx.StatusPoint(
						status.VehicleID,
						status.InstalledParts,
						status.SavedBuilds,
						status.PersistQueueLength,
						status.Balance,
						status.LastWriteDurationMs,
					)
					if err := s.deps.Influx.WritePoint(context.Background(), "garage_performance", point); err != nil {
						s.deps.Logger.Error("error writing status point", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

func (s *Service) writeStatusFile(path string, status Status) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
