// Package gormstore persists the garage state and catalog through GORM,
// backed by Postgres or an embedded SQLite database.
package gormstore

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/torres-mse/garage/internal/model"
	"github.com/torres-mse/garage/internal/model/convert"
	"github.com/torres-mse/garage/pkg/core"
)

// DefaultProfile names the state row when no profile is configured.
const DefaultProfile = "default"

// Store is a storage.Backend over a GORM database.
type Store struct {
	db      *gorm.DB
	profile string
	log     zerolog.Logger

	beforeClose func() error
}

// New creates a Store over an already connected database.
func New(db *gorm.DB, profile string, log zerolog.Logger) *Store {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Store{db: db, profile: profile, log: log}
}

// BeforeClose registers a hook that runs before the connection closes.
// Used to dump an in-memory fallback database to disk.
func (s *Store) BeforeClose(fn func() error) {
	s.beforeClose = fn
}

// Init migrates the schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %s", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.beforeClose != nil {
		if err := s.beforeClose(); err != nil {
			s.log.Error().Err(err).Msg("Before-close hook failed")
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %s", err)
	}
	return sqlDB.Close()
}

// SaveGarageState upserts the state row and replaces the profile's build
// rows to match the snapshot.
func (s *Store) SaveGarageState(state core.GarageState) error {
	rec, builds, err := convert.StateToGorm(s.profile, state)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
			return fmt.Errorf("saving garage state: %w", err)
		}

		keep := make([]string, 0, len(builds))
		for _, b := range builds {
			keep = append(keep, b.BuildID)
		}
		del := tx.Where("profile = ?", s.profile)
		if len(keep) > 0 {
			del = del.Where("build_id NOT IN ?", keep)
		}
		if err := del.Delete(&model.SavedBuildRecord{}).Error; err != nil {
			return fmt.Errorf("pruning stale builds: %w", err)
		}

		if len(builds) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&builds).Error; err != nil {
				return fmt.Errorf("saving builds: %w", err)
			}
		}
		return nil
	})
}

// LoadGarageState reads the profile's state and build rows.
func (s *Store) LoadGarageState() (core.GarageState, bool, error) {
	var rec model.GarageStateRecord
	err := s.db.Where("profile = ?", s.profile).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return core.GarageState{}, false, nil
		}
		return core.GarageState{}, false, fmt.Errorf("loading garage state: %w", err)
	}

	var builds []model.SavedBuildRecord
	err = s.db.Where("profile = ?", s.profile).Order("position ASC").Find(&builds).Error
	if err != nil {
		return core.GarageState{}, false, fmt.Errorf("loading builds: %w", err)
	}

	state, err := convert.StateToCore(rec, builds)
	if err != nil {
		return core.GarageState{}, false, err
	}
	return state, true, nil
}

// LoadCatalog reads all vehicle templates and part records. Rows that fail
// to decode are skipped and logged rather than failing the whole load.
func (s *Store) LoadCatalog() ([]core.Vehicle, []core.Part, error) {
	var vehicleRows []model.VehicleTemplate
	if err := s.db.Find(&vehicleRows).Error; err != nil {
		return nil, nil, fmt.Errorf("loading vehicle templates: %w", err)
	}
	var partRows []model.PartRecord
	if err := s.db.Find(&partRows).Error; err != nil {
		return nil, nil, fmt.Errorf("loading part records: %w", err)
	}

	vehicles := make([]core.Vehicle, 0, len(vehicleRows))
	for _, row := range vehicleRows {
		v, err := convert.VehicleToCore(row)
		if err != nil {
			s.log.Error().Err(err).Str("vehicleId", row.VehicleID).Msg("Skipping undecodable vehicle template")
			continue
		}
		vehicles = append(vehicles, v)
	}
	parts := make([]core.Part, 0, len(partRows))
	for _, row := range partRows {
		p, err := convert.PartToCore(row)
		if err != nil {
			s.log.Error().Err(err).Str("partId", row.PartID).Msg("Skipping undecodable part record")
			continue
		}
		parts = append(parts, p)
	}
	return vehicles, parts, nil
}

// SeedCatalog writes vehicles and parts into the catalog tables, replacing
// rows with matching ids.
func (s *Store) SeedCatalog(vehicles []core.Vehicle, parts []core.Part) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, v := range vehicles {
			row, err := convert.VehicleToGorm(v)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("seeding vehicle %s: %w", v.ID, err)
			}
		}
		for _, p := range parts {
			row, err := convert.PartToGorm(p)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("seeding part %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// RecordLedgerEntry appends a balance movement to the history table.
func (s *Store) RecordLedgerEntry(entry model.LedgerEntry) error {
	entry.Profile = s.profile
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("recording ledger entry: %w", err)
	}
	return nil
}
