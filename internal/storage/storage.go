// internal/storage/storage.go
package storage

import "github.com/torres-mse/garage/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Garage state persistence. SaveGarageState replaces the stored state
	// wholesale; the state carries the saved builds with it.
	SaveGarageState(state core.GarageState) error
	LoadGarageState() (state core.GarageState, found bool, err error)

	// Catalog source. Backends without catalog data return empty slices;
	// callers fall back to the built-in seed.
	LoadCatalog() (vehicles []core.Vehicle, parts []core.Part, err error)
}

// Exportable is an optional interface for backends that produce a state
// file on disk.
type Exportable interface {
	GetExportedFilePath() string
}
