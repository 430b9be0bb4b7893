// Package compat decides whether a catalog part fits a vehicle. The checks
// are pure: they read the part's rules and the vehicle's specs and installed
// parts, and never mutate either.
package compat

import (
	"fmt"
	"strings"

	"github.com/torres-mse/garage/pkg/core"
)

// Result is the outcome of a compatibility check. Warnings are advisory and
// never block an install.
type Result struct {
	Compatible bool
	Reason     string
	Warnings   []string
}

// Resolver checks parts against vehicles.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Check evaluates part against vehicle. Constraint axes are evaluated in a
// fixed order and the first failing axis short-circuits: mount type,
// drivetrain, engine layout, engine bay size, bolt pattern, required parts,
// conflicting parts. An empty list on any axis is a wildcard.
func (r *Resolver) Check(part core.Part, vehicle core.Vehicle) Result {
	rules := part.Compatibility
	specs := vehicle.BaseSpecs

	if len(rules.MountTypes) > 0 && !contains(rules.MountTypes, specs.Engine.Type) {
		return Result{
			Compatible: false,
			Reason: fmt.Sprintf("mount type: part fits %s engines, vehicle has %s",
				join(rules.MountTypes, ", "), specs.Engine.Type),
		}
	}

	if len(rules.Drivetrains) > 0 && !contains(rules.Drivetrains, specs.Drivetrain) {
		return Result{
			Compatible: false,
			Reason: fmt.Sprintf("drivetrain: part requires %s, vehicle is %s",
				join(rules.Drivetrains, " or "), specs.Drivetrain),
		}
	}

	if len(rules.EngineLayouts) > 0 && !contains(rules.EngineLayouts, specs.EngineLayout) {
		return Result{
			Compatible: false,
			Reason: fmt.Sprintf("engine layout: part requires %s, vehicle has %s",
				join(rules.EngineLayouts, " or "), specs.EngineLayout),
		}
	}

	if rules.MinEngineBaySize > 0 && specs.EngineBaySize < rules.MinEngineBaySize {
		return Result{
			Compatible: false,
			Reason: fmt.Sprintf("engine bay size: part needs %.1fL, vehicle has %.1fL",
				rules.MinEngineBaySize, specs.EngineBaySize),
		}
	}

	if len(rules.BoltPatterns) > 0 && !contains(rules.BoltPatterns, specs.BoltPattern) {
		return Result{
			Compatible: false,
			Reason: fmt.Sprintf("bolt pattern: part requires %s, vehicle is %s",
				join(rules.BoltPatterns, " or "), specs.BoltPattern),
		}
	}

	if len(rules.RequiredParts) > 0 {
		missing := missingRequired(rules.RequiredParts, vehicle.InstalledParts)
		if len(missing) > 0 {
			return Result{
				Compatible: false,
				Reason: fmt.Sprintf("required parts: needs %s installed first",
					strings.Join(missing, ", ")),
			}
		}
	}

	if len(rules.ConflictingParts) > 0 {
		conflicts := conflictingInstalled(rules.ConflictingParts, vehicle.InstalledParts)
		if len(conflicts) > 0 {
			return Result{
				Compatible: false,
				Reason:     fmt.Sprintf("conflicting parts: incompatible with %s", strings.Join(conflicts, ", ")),
			}
		}
	}

	return Result{
		Compatible: true,
		Warnings:   collectWarnings(part, vehicle),
	}
}

// FilterCompatible returns the subset of parts that pass Check for vehicle,
// preserving order.
func (r *Resolver) FilterCompatible(parts []core.Part, vehicle core.Vehicle) []core.Part {
	out := make([]core.Part, 0, len(parts))
	for _, p := range parts {
		if r.Check(p, vehicle).Compatible {
			out = append(out, p)
		}
	}
	return out
}

// DependentParts returns the installed parts whose rules require partID.
// Removing partID would strand them.
func (r *Resolver) DependentParts(partID string, vehicle core.Vehicle) []core.Part {
	var deps []core.Part
	for _, ip := range vehicle.InstalledParts {
		for _, req := range ip.Part.Compatibility.RequiredParts {
			if req == partID {
				deps = append(deps, ip.Part)
				break
			}
		}
	}
	return deps
}

func collectWarnings(part core.Part, vehicle core.Vehicle) []string {
	var warnings []string
	specs := vehicle.BaseSpecs

	if part.Compatibility.MaxWeight > 0 {
		total := vehicle.CurrentMetrics.Weight + part.Weight
		if total > part.Compatibility.MaxWeight {
			warnings = append(warnings, fmt.Sprintf(
				"total weight %.0fkg exceeds the recommended limit of %.0fkg",
				total, part.Compatibility.MaxWeight))
		}
	}

	switch part.Category {
	case core.CategoryTurbo:
		if hasCategory(vehicle.InstalledParts, core.CategorySupercharger) {
			warnings = append(warnings, "a supercharger is already installed; running both systems is uncommon and can hurt reliability")
		}
	case core.CategorySupercharger:
		if hasCategory(vehicle.InstalledParts, core.CategoryTurbo) {
			warnings = append(warnings, "a turbo is already installed; running both systems is uncommon and can hurt reliability")
		}
	}

	if (part.Category == core.CategoryTurbo || part.Category == core.CategorySupercharger) &&
		specs.Engine.NaturallyAspirated {
		warnings = append(warnings, "this engine is naturally aspirated from the factory; forced induction needs supporting reinforcement")
	}

	return warnings
}

func hasCategory(installed []core.InstalledPart, cat core.Category) bool {
	for _, ip := range installed {
		if ip.Part.Category == cat {
			return true
		}
	}
	return false
}

func missingRequired(required []string, installed []core.InstalledPart) []string {
	ids := make(map[string]bool, len(installed))
	for _, ip := range installed {
		ids[ip.Part.ID] = true
	}
	var missing []string
	for _, req := range required {
		if !ids[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

// conflictingInstalled returns the names of installed parts that appear in
// the conflict list, falling back to the id when the name is empty.
func conflictingInstalled(conflicting []string, installed []core.InstalledPart) []string {
	set := make(map[string]bool, len(conflicting))
	for _, id := range conflicting {
		set[id] = true
	}
	var names []string
	for _, ip := range installed {
		if set[ip.Part.ID] {
			if ip.Part.Name != "" {
				names = append(names, ip.Part.Name)
			} else {
				names = append(names, ip.Part.ID)
			}
		}
	}
	return names
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func join[T ~string](list []T, sep string) string {
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = string(item)
	}
	return strings.Join(parts, sep)
}
