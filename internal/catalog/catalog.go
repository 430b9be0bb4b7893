// Package catalog holds the read-only reference data: vehicle templates and
// the parts inventory, indexed for the lookups the store and UI layers do
// constantly.
package catalog

import (
	"sort"
	"sync"

	"github.com/torres-mse/garage/pkg/core"
)

// Service caches vehicles and parts with id and category indexes. Lookups
// are hot; everything is indexed at load time.
type Service struct {
	m          sync.Mutex
	vehicles   map[string]core.Vehicle
	parts      map[string]core.Part
	byCategory map[core.Category][]core.Part
}

// NewService creates an empty Service.
func NewService() *Service {
	return &Service{
		vehicles:   make(map[string]core.Vehicle),
		parts:      make(map[string]core.Part),
		byCategory: make(map[core.Category][]core.Part),
	}
}

// Load replaces the catalog contents and rebuilds the indexes.
func (s *Service) Load(vehicles []core.Vehicle, parts []core.Part) {
	s.m.Lock()
	defer s.m.Unlock()

	s.vehicles = make(map[string]core.Vehicle, len(vehicles))
	for _, v := range vehicles {
		s.vehicles[v.ID] = v
	}

	s.parts = make(map[string]core.Part, len(parts))
	s.byCategory = make(map[core.Category][]core.Part)
	for _, p := range parts {
		s.parts[p.ID] = p
		s.byCategory[p.Category] = append(s.byCategory[p.Category], p)
	}
}

// Vehicle returns a vehicle template by id.
func (s *Service) Vehicle(id string) (core.Vehicle, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	v, ok := s.vehicles[id]
	return v, ok
}

// Part returns a part by id.
func (s *Service) Part(id string) (core.Part, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.parts[id]
	return p, ok
}

// Vehicles returns all vehicle templates sorted by id.
func (s *Service) Vehicles() []core.Vehicle {
	s.m.Lock()
	defer s.m.Unlock()

	out := make([]core.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Parts returns all parts sorted by id.
func (s *Service) Parts() []core.Part {
	s.m.Lock()
	defer s.m.Unlock()

	out := make([]core.Part, 0, len(s.parts))
	for _, p := range s.parts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PartsByCategory returns the parts in a category, load order preserved.
func (s *Service) PartsByCategory(cat core.Category) []core.Part {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]core.Part(nil), s.byCategory[cat]...)
}

// Counts returns the number of vehicles and parts loaded.
func (s *Service) Counts() (vehicles, parts int) {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.vehicles), len(s.parts)
}
