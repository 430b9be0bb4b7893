package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&GarageInfo{},
	&VehicleTemplate{},
	&PartRecord{},
	&GarageStateRecord{},
	&SavedBuildRecord{},
	&LedgerEntry{},
}

// DatabaseModelsSQLite mirrors DatabaseModels for the embedded backend.
var DatabaseModelsSQLite = []interface{}{
	&GarageInfo{},
	&VehicleTemplate{},
	&PartRecord{},
	&GarageStateRecord{},
	&SavedBuildRecord{},
	&LedgerEntry{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// GarageInfo contains metadata about the garage instance
type GarageInfo struct {
	gorm.Model
	GarageName  string `json:"garageName" gorm:"size:127"`
	Description string `json:"description" gorm:"size:255"`
	Website     string `json:"websiteURL" gorm:"size:255"`
}

func (*GarageInfo) TableName() string {
	return "garage_infos"
}

////////////////////////
// CATALOG MODELS
////////////////////////

// VehicleTemplate is a catalog vehicle. Base specs never change after load,
// so they are stored as a JSON document rather than normalized columns.
type VehicleTemplate struct {
	VehicleID    string    `json:"vehicleId" gorm:"primaryKey;size:64"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Manufacturer string    `json:"manufacturer" gorm:"size:64;index:idx_vehicle_manufacturer"`
	Name         string    `json:"name" gorm:"size:127"`
	Year         int       `json:"year"`
	BasePrice    float64   `json:"basePrice"`

	BaseSpecs datatypes.JSON `json:"baseSpecs" gorm:"type:jsonb;default:'{}'"`
}

func (*VehicleTemplate) TableName() string {
	return "vehicle_templates"
}

// PartRecord is a catalog part. Compatibility rules and stat modifiers are
// JSON documents; the category is broken out for indexed browsing.
type PartRecord struct {
	PartID    string    `json:"partId" gorm:"primaryKey;size:64"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name" gorm:"size:127"`
	Brand     string    `json:"brand" gorm:"size:64"`
	Category  string    `json:"category" gorm:"size:32;index:idx_part_category"`
	Price     float64   `json:"price"`
	Weight    float64   `json:"weight"`

	Compatibility datatypes.JSON `json:"compatibility" gorm:"type:jsonb;default:'{}'"`
	Stats         datatypes.JSON `json:"stats" gorm:"type:jsonb;default:'{}'"`
	Description   string         `json:"description" gorm:"size:512"`
}

func (*PartRecord) TableName() string {
	return "part_records"
}

////////////////////////
// GARAGE STATE MODELS
////////////////////////

// GarageStateRecord is the persisted working state: selected vehicle,
// installed parts and balance. One row per profile; the default profile
// is "default".
type GarageStateRecord struct {
	Profile   string    `json:"profile" gorm:"primaryKey;size:64"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"index:idx_garagestate_updated_at"`
	VehicleID string    `json:"vehicleId" gorm:"size:64"`
	Balance   float64   `json:"balance"`

	InstalledParts datatypes.JSON `json:"installedParts" gorm:"type:jsonb;default:'[]'"`
}

func (*GarageStateRecord) TableName() string {
	return "garage_state_records"
}

// SavedBuildRecord is a named configuration snapshot. BuildID is assigned by
// the store, not the database, so overwrites keep their identity. Position
// preserves the most-recently-saved ordering.
type SavedBuildRecord struct {
	BuildID   string         `json:"buildId" gorm:"primaryKey;size:128"`
	Profile   string         `json:"profile" gorm:"size:64;index:idx_savedbuild_profile"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	Name      string         `json:"name" gorm:"size:127"`
	VehicleID string         `json:"vehicleId" gorm:"size:64;index:idx_savedbuild_vehicle_id"`
	SavedAt   time.Time      `json:"savedAt" gorm:"index:idx_savedbuild_saved_at"`
	Position  int            `json:"position"`

	Parts    datatypes.JSON `json:"parts" gorm:"type:jsonb;default:'[]'"`
	Metrics  datatypes.JSON `json:"metrics" gorm:"type:jsonb;default:'{}'"`
	Colors   datatypes.JSON `json:"colors" gorm:"type:jsonb;default:'{}'"`
	Finishes datatypes.JSON `json:"finishes" gorm:"type:jsonb;default:'{}'"`
}

func (*SavedBuildRecord) TableName() string {
	return "saved_build_records"
}

////////////////////////
// ECONOMY MODELS
////////////////////////

// LedgerEntry is an append-only record of a balance movement. Rejected
// purchases are recorded too so the history explains the balance.
type LedgerEntry struct {
	ID           uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time         time.Time `json:"time" gorm:"index:idx_ledgerentry_time"`
	Profile      string    `json:"profile" gorm:"size:64;index:idx_ledgerentry_profile"`
	Kind         string    `json:"kind" gorm:"size:16"` // spend, earn, reject
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balanceAfter"`
	PartID       string    `json:"partId" gorm:"size:64"`
	Note         string    `json:"note" gorm:"size:255"`
}

func (*LedgerEntry) TableName() string {
	return "ledger_entries"
}
