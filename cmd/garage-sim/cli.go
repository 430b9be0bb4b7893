package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/torres-mse/garage/internal/dispatcher"
	"github.com/torres-mse/garage/internal/garage"
	"github.com/torres-mse/garage/internal/influx"
	"github.com/torres-mse/garage/internal/model"
	"github.com/torres-mse/garage/internal/physics"
	"github.com/torres-mse/garage/internal/storage"
	"github.com/torres-mse/garage/internal/util"
	"github.com/torres-mse/garage/pkg/core"
)

const helpText = `Commands:
  vehicles                     list catalog vehicles
  select <vehicle-id>          select a vehicle (clears installed parts)
  vehicle                      show the current vehicle
  parts [category]             list catalog parts, optionally by category
  check <part-id>              check part compatibility without installing
  install <part-id>            buy and install a part
  uninstall <part-id>          remove a part and refund its price
  tune <part-id> [boost=<bar>] [rev=<rpm>] [drive=<ratio>]
  reset-tune <part-id>         clear tuning on a part
  metrics                      show the current performance profile
  rating                       show 1-5 star ratings per axis
  balance                      show the credit balance
  save <name>                  save the current build
  builds                       list saved builds
  load <build-id>              load a saved build
  delete-build <build-id>      delete a saved build
  export                       show the last exported state file
  status                       show the persist/monitor status
  help                         this text
  quit                         flush and exit`

// registerHandlers binds every CLI verb to the dispatcher.
func registerHandlers(d *dispatcher.Router, a *app) {
	d.Handle("help", func(dispatcher.Command) (any, error) {
		return helpText, nil
	})

	d.Handle("vehicles", func(dispatcher.Command) (any, error) {
		var b strings.Builder
		for _, v := range a.Catalog.Vehicles() {
			fmt.Fprintf(&b, "%-14s %d %s %s  %s  %.0fhp  %s\n",
				v.ID, v.Year, v.Manufacturer, v.Name,
				v.BaseSpecs.Drivetrain, v.BaseSpecs.Engine.BaseHorsepower,
				util.FormatMoney(v.BasePrice))
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})

	d.HandleWith("select", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: select <vehicle-id>")
		}
		v, ok := a.Catalog.Vehicle(e.Args[0])
		if !ok {
			return nil, fmt.Errorf("unknown vehicle: %s", e.Args[0])
		}
		metrics := a.Store.SelectVehicle(v)
		a.writeBuildPoint(v.ID, 0, metrics)
		return fmt.Sprintf("Selected %s %s\n%s", v.Manufacturer, v.Name, formatMetrics(metrics)), nil
	}, dispatcher.Binding{Trace: true})

	d.Handle("vehicle", func(dispatcher.Command) (any, error) {
		v, ok := a.Store.CurrentVehicle()
		if !ok {
			return nil, fmt.Errorf("no vehicle selected")
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s %s (%d)\n", v.ID, v.Manufacturer, v.Name, v.Year)
		if len(v.InstalledParts) == 0 {
			b.WriteString("No parts installed")
			return b.String(), nil
		}
		b.WriteString("Installed parts:\n")
		for _, ip := range v.InstalledParts {
			fmt.Fprintf(&b, "  %-24s %-12s %s", ip.Part.ID, ip.Part.Category, util.FormatMoney(ip.Part.Price))
			if ip.Tuning != nil {
				fmt.Fprintf(&b, "  (tuned)")
			}
			b.WriteByte('\n')
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})

	d.Handle("parts", func(e dispatcher.Command) (any, error) {
		parts := a.Catalog.Parts()
		if len(e.Args) > 0 {
			cat := core.Category(e.Args[0])
			if !cat.Valid() {
				return nil, fmt.Errorf("unknown category: %s", e.Args[0])
			}
			parts = a.Catalog.PartsByCategory(cat)
		}
		var b strings.Builder
		for _, p := range parts {
			fmt.Fprintf(&b, "%-28s %-12s %-20s %s\n", p.ID, p.Category, p.Name, util.FormatMoney(p.Price))
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})

	d.Handle("check", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: check <part-id>")
		}
		part, ok := a.Catalog.Part(e.Args[0])
		if !ok {
			return nil, fmt.Errorf("unknown part: %s", e.Args[0])
		}
		result, err := a.Store.CheckCompatibility(part)
		if err != nil {
			return nil, err
		}
		if !result.Compatible {
			return fmt.Sprintf("Incompatible: %s", result.Reason), nil
		}
		out := "Compatible"
		for _, w := range result.Warnings {
			out += "\n  warning: " + w
		}
		return out, nil
	})

	d.HandleWith("install", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: install <part-id>")
		}
		part, ok := a.Catalog.Part(e.Args[0])
		if !ok {
			return nil, fmt.Errorf("unknown part: %s", e.Args[0])
		}
		result, err := a.Store.InstallPart(part)
		if err != nil {
			a.recordLedger("reject", part.ID, part.Price, a.Store.Balance(), err.Error())
			return nil, err
		}
		if result.AlreadyInstalled {
			return fmt.Sprintf("%s is already installed", part.ID), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Installed %s for %s", part.ID, util.FormatMoney(part.Price))
		a.recordLedger("spend", part.ID, part.Price, a.Store.Balance(), "install")
		a.writeEconomyPoint("spend", part.ID, part.Price)
		if result.Replaced != nil {
			fmt.Fprintf(&b, "\nReplaced %s, refunded %s", result.Replaced.ID, util.FormatMoney(result.Replaced.Price))
			a.recordLedger("earn", result.Replaced.ID, result.Replaced.Price, a.Store.Balance(), "replacement refund")
			a.writeEconomyPoint("earn", result.Replaced.ID, result.Replaced.Price)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "\nwarning: %s", w)
		}
		fmt.Fprintf(&b, "\n%s", formatMetrics(result.Metrics))
		a.writeCurrentBuildPoint(result.Metrics)
		return b.String(), nil
	}, dispatcher.Binding{Trace: true})

	d.HandleWith("uninstall", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: uninstall <part-id>")
		}
		part, _ := a.Catalog.Part(e.Args[0])
		metrics, err := a.Store.UninstallPart(e.Args[0])
		if err != nil {
			return nil, err
		}
		if part.ID != "" {
			a.recordLedger("earn", part.ID, part.Price, a.Store.Balance(), "uninstall refund")
			a.writeEconomyPoint("earn", part.ID, part.Price)
		}
		a.writeCurrentBuildPoint(metrics)
		return fmt.Sprintf("Uninstalled %s\n%s", e.Args[0], formatMetrics(metrics)), nil
	}, dispatcher.Binding{Trace: true})

	d.Handle("tune", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 2 {
			return nil, fmt.Errorf("usage: tune <part-id> [boost=<bar>] [rev=<rpm>] [drive=<ratio>]")
		}
		settings, err := parseTuning(e.Args[1:])
		if err != nil {
			return nil, err
		}
		metrics, err := a.Store.TunePart(e.Args[0], settings)
		if err != nil {
			return nil, err
		}
		a.writeCurrentBuildPoint(metrics)
		return fmt.Sprintf("Tuned %s\n%s", e.Args[0], formatMetrics(metrics)), nil
	})

	d.Handle("reset-tune", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: reset-tune <part-id>")
		}
		metrics, err := a.Store.ResetTuning(e.Args[0])
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("Reset tuning on %s\n%s", e.Args[0], formatMetrics(metrics)), nil
	})

	d.Handle("metrics", func(dispatcher.Command) (any, error) {
		metrics, err := a.Store.Metrics()
		if err != nil {
			return nil, err
		}
		return formatMetrics(metrics), nil
	})

	d.Handle("rating", func(dispatcher.Command) (any, error) {
		metrics, err := a.Store.Metrics()
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for _, cat := range []physics.RatingCategory{
			physics.RatingPower, physics.RatingSpeed,
			physics.RatingHandling, physics.RatingEfficiency,
		} {
			fmt.Fprintf(&b, "%-12s %s\n", cat, strings.Repeat("*", physics.Rating(metrics, cat)))
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})

	d.Handle("balance", func(dispatcher.Command) (any, error) {
		out := fmt.Sprintf("Balance: %s", util.FormatMoney(a.Ledger.Balance()))
		if a.Ledger.Unlimited() {
			out += " (unlimited)"
		}
		out += fmt.Sprintf("\nSpent: %s, earned: %s",
			util.FormatMoney(a.Ledger.TotalSpent()),
			util.FormatMoney(a.Ledger.TotalEarned()))
		return out, nil
	})

	d.HandleWith("save", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: save <name>")
		}
		build, err := a.Store.SaveBuild(strings.Join(e.Args, " "))
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("Saved build %s (%q)", build.ID, build.Name), nil
	}, dispatcher.Binding{Trace: true})

	d.Handle("builds", func(dispatcher.Command) (any, error) {
		builds := a.Store.ListBuilds()
		if len(builds) == 0 {
			return "No saved builds", nil
		}
		var b strings.Builder
		for _, sb := range builds {
			fmt.Fprintf(&b, "%-28s %-20q %-14s %d parts  %s\n",
				sb.ID, sb.Name, sb.VehicleID, len(sb.Parts),
				sb.SavedAt.Format(time.RFC3339))
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})

	d.HandleWith("load", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: load <build-id>")
		}
		metrics, err := a.Store.LoadBuild(e.Args[0])
		if err != nil {
			return nil, err
		}
		a.writeCurrentBuildPoint(metrics)
		return fmt.Sprintf("Loaded build %s\n%s", e.Args[0], formatMetrics(metrics)), nil
	}, dispatcher.Binding{Trace: true})

	d.Handle("delete-build", func(e dispatcher.Command) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: delete-build <build-id>")
		}
		a.Store.DeleteBuild(e.Args[0])
		return fmt.Sprintf("Deleted build %s", e.Args[0]), nil
	})

	d.Handle("export", func(dispatcher.Command) (any, error) {
		exportable, ok := a.Backend.(storage.Exportable)
		if !ok {
			return nil, fmt.Errorf("the configured backend does not export state files")
		}
		path := exportable.GetExportedFilePath()
		if path == "" {
			return "Nothing exported yet", nil
		}
		return fmt.Sprintf("Last export: %s", path), nil
	})

	d.Handle("status", func(dispatcher.Command) (any, error) {
		status := a.Monitor.CurrentStatus()
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return nil, err
		}
		return string(out), nil
	})
}

// runREPL reads commands from stdin until quit or EOF.
func runREPL(d *dispatcher.Router, a *app) {
	fmt.Println(`garage-sim ready, type "help" for commands`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := util.SplitArgs(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		command := strings.ToLower(fields[0])
		if command == "quit" || command == "exit" {
			return
		}

		result, err := d.Run(dispatcher.Command{
			Verb:     command,
			Args:     fields[1:],
			IssuedAt: time.Now().UTC(),
		})
		if err != nil {
			if se, ok := garage.AsStoreError(err); ok {
				fmt.Printf("rejected (%s): %s\n", se.Kind, se.Reason)
			} else {
				fmt.Printf("error: %v\n", err)
			}
			continue
		}
		if s, ok := result.(string); ok && s != "" {
			fmt.Println(s)
		}
	}
}

func parseTuning(args []string) (core.TuningSettings, error) {
	var settings core.TuningSettings
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return settings, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch key {
		case "boost":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return settings, fmt.Errorf("bad boost value %q", value)
			}
			settings.BoostTarget = v
		case "rev":
			v, err := strconv.Atoi(value)
			if err != nil {
				return settings, fmt.Errorf("bad rev value %q", value)
			}
			settings.RevLimiter = v
		case "drive":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return settings, fmt.Errorf("bad drive value %q", value)
			}
			settings.FinalDrive = v
		default:
			return settings, fmt.Errorf("unknown tuning knob %q", key)
		}
	}
	return settings, nil
}

func formatMetrics(m core.PerformanceMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %.1f hp / %.1f Nm, %.0f kg (%.1f hp/t)\n",
		m.Horsepower, m.Torque, m.Weight, m.PowerToWeight())
	fmt.Fprintf(&b, "  0-100 %.2fs, 0-60 %.2fs, 1/4 mile %.2fs, top %.0f km/h\n",
		m.ZeroToHundred, m.ZeroToSixty, m.QuarterMile, m.TopSpeed)
	fmt.Fprintf(&b, "  braking 100-0 %.1f m, lateral %.2f g, Cd %.3f\n",
		m.BrakingDistance, m.LateralG, m.DragCoefficient)
	fmt.Fprintf(&b, "  fuel %.1f L/100km, efficiency %.0f/100",
		m.FuelConsumption, m.Efficiency)
	return b.String()
}

// recordLedger appends a row to the ledger table when the backend has one.
func (a *app) recordLedger(kind, partID string, amount, balance float64, note string) {
	recorder, ok := a.Backend.(interface {
		RecordLedgerEntry(entry model.LedgerEntry) error
	})
	if !ok {
		return
	}
	err := recorder.RecordLedgerEntry(model.LedgerEntry{
		Time:         time.Now().UTC(),
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balance,
		PartID:       partID,
		Note:         note,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("Failed to record ledger entry")
	}
}

func (a *app) writeEconomyPoint(kind, partID string, amount float64) {
	if a.Influx == nil {
		return
	}
	point := influx.EconomyPoint(kind, partID, amount, a.Store.Balance())
	if err := a.Influx.WritePoint(context.Background(), influx.BucketEconomyEvents, point); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to write economy point")
	}
}

func (a *app) writeCurrentBuildPoint(m core.PerformanceMetrics) {
	v, ok := a.Store.CurrentVehicle()
	if !ok {
		return
	}
	a.writeBuildPoint(v.ID, len(v.InstalledParts), m)
}

func (a *app) writeBuildPoint(vehicleID string, partCount int, m core.PerformanceMetrics) {
	if a.Influx == nil {
		return
	}
	point := influx.BuildMetricsPoint(vehicleID, partCount, m)
	if err := a.Influx.WritePoint(context.Background(), influx.BucketBuildPerformance, point); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to write build metrics point")
	}
}
