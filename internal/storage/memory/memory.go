// Package memory stores the garage state in memory and mirrors it to a JSON
// file so state survives restarts without a database.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/torres-mse/garage/pkg/core"
)

// Backend keeps the latest garage state in memory. Every save rewrites the
// export file; the state document is small enough that this stays cheap.
type Backend struct {
	outputDir string
	compress  bool

	state    *core.GarageState
	exported string
	mu       sync.RWMutex
}

// New creates a new memory backend writing to outputDir.
func New(outputDir string, compress bool) *Backend {
	return &Backend{
		outputDir: outputDir,
		compress:  compress,
	}
}

// Init ensures the output directory exists.
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close flushes the current state to disk.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == nil {
		return nil
	}
	return b.export(*b.state)
}

// SaveGarageState stores the state and rewrites the export file.
func (b *Backend) SaveGarageState(state core.GarageState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = &state
	return b.export(state)
}

// LoadGarageState returns the in-memory state, falling back to the export
// file from a previous run.
func (b *Backend) LoadGarageState() (core.GarageState, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state != nil {
		return *b.state, true, nil
	}
	state, err := readState(b.filePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.GarageState{}, false, nil
		}
		return core.GarageState{}, false, err
	}
	return state, true, nil
}

// LoadCatalog returns nothing; the memory backend has no catalog source.
func (b *Backend) LoadCatalog() ([]core.Vehicle, []core.Part, error) {
	return nil, nil, nil
}

// GetExportedFilePath returns the path of the last written export file.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exported
}

func (b *Backend) filePath() string {
	name := "garage_state.json"
	if b.compress {
		name += ".gz"
	}
	return filepath.Join(b.outputDir, name)
}

func (b *Backend) export(state core.GarageState) error {
	path := b.filePath()
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if b.compress {
		if err := writeGzipJSON(path, state); err != nil {
			return err
		}
	} else {
		if err := writeJSON(path, state); err != nil {
			return err
		}
	}
	b.exported = path
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	if err := json.NewEncoder(gz).Encode(v); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return nil
}

func readState(path string) (core.GarageState, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.GarageState{}, err
	}
	defer f.Close()

	var state core.GarageState
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return core.GarageState{}, fmt.Errorf("failed to open gzip export: %w", err)
		}
		defer gz.Close()
		if err := json.NewDecoder(gz).Decode(&state); err != nil {
			return core.GarageState{}, fmt.Errorf("failed to decode state: %w", err)
		}
		return state, nil
	}
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return core.GarageState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return state, nil
}
