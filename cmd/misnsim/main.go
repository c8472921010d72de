// misnsim exercises the mission core outside the game engine: it loads a
// mission catalog and star chart, registers a synthetic script module for
// every template, then simulates a series of landings, accepting offers and
// ticking deadlines, and reports what happened.
package main

import (
	"context"
	"flag"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/halcyon-engine/missions/internal/cargo"
	"github.com/halcyon-engine/missions/internal/catalog"
	"github.com/halcyon-engine/missions/internal/config"
	"github.com/halcyon-engine/missions/internal/journal/factory"
	"github.com/halcyon-engine/missions/internal/logging"
	"github.com/halcyon-engine/missions/internal/metrics"
	"github.com/halcyon-engine/missions/internal/mission"
	"github.com/halcyon-engine/missions/internal/player"
	"github.com/halcyon-engine/missions/internal/scripting"
	"github.com/halcyon-engine/missions/internal/starmap"
	"github.com/halcyon-engine/missions/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type simInventory struct{}

func (simInventory) HasCargo(cargo.ID) bool { return true }

func main() {
	configDir := flag.String("config", ".", "directory containing missions.cfg.json")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for availability rolls")
	visits := flag.Int("visits", 100, "number of landings to simulate")
	faction := flag.String("faction", "Empire", "faction of the visited planet")
	planet := flag.String("planet", "Earth", "visited planet")
	system := flag.String("system", "Sol", "visited system")
	flag.Parse()

	cfgErr := config.Load(*configDir)

	sessionStart := time.Now().UTC()
	logsDir := config.GetString("logsDir")
	_ = os.MkdirAll(logsDir, 0755)

	var logWriter io.Writer
	if f, err := os.Create(logging.LogFilePath(logsDir, "misnsim", sessionStart)); err == nil {
		logWriter = f
		defer f.Close()
	}

	log := logging.Setup(logWriter, config.GetString("logLevel"))
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("No config file found, using defaults")
	}

	store, err := catalog.Load(config.GetString("catalog.path"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load mission catalog")
	}

	chart, err := starmap.Load(config.GetString("starmap.path"))
	if err != nil {
		log.Warn().Err(err).Msg("No star chart, route reporting disabled")
		chart = nil
	}

	backend, err := factory.NewBackend(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create journal backend")
	}
	if err := backend.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize journal backend")
	}
	defer backend.Close()

	completed := player.NewCompletedLog()
	if names, err := backend.CompletedNames(); err == nil {
		completed.Seed(names)
	}

	var influx *metrics.Manager
	if viper.GetBool("influx.enabled") {
		influx = metrics.NewManager(log, logging.LogFilePath(logsDir, "influx_backup", sessionStart))
		if err := influx.Connect(); err != nil {
			log.Warn().Err(err).Msg("InfluxDB unavailable, statistics disabled")
			influx = nil
		}
	}

	// the sim modules report finishes through the table built below
	var table *mission.Table
	registry := scripting.NewRegistry()
	registerSimModules(registry, store, log, func(template string) {
		writeLifecycle(influx, log, template, "finished", table.Len())
	})

	bridge, err := scripting.NewBridge(registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create script bridge")
	}

	table, err = mission.NewTable(mission.Dependencies{
		Catalog:   store,
		Bridge:    bridge,
		Linker:    cargo.New(simInventory{}, log),
		Completed: completed,
		UI:        ui.NewMemory(),
		Journal:   backend,
		Logger:    log,
		Rand:      rand.New(rand.NewSource(*seed)),
		Cond:      func(string) (bool, error) { return true, nil },
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create mission table")
	}

	visit := mission.Visit{
		Loc:     catalog.LocBar,
		Faction: *faction,
		Planet:  *planet,
		System:  *system,
	}

	var offered, accepted, rejected int
	for i := 0; i < *visits; i++ {
		offers := table.GenerateOffers(visit)
		offered += len(offers)
		for _, c := range offers {
			if _, err := table.Accept(c); err != nil {
				rejected++
				log.Debug().Err(err).Str("template", c.Template().Name).Msg("Offer not accepted")
				continue
			}
			accepted++
			writeOfferStats(influx, log, c.Template().Name, visit)
			writeLifecycle(influx, log, c.Template().Name, "accepted", table.Len())
		}
		table.Run("land", *faction, *planet)
		table.Tick(1.0)
	}

	log.Info().
		Int("visits", *visits).
		Int("offered", offered).
		Int("accepted", accepted).
		Int("rejected", rejected).
		Int("stillActive", table.Len()).
		Int("completed", completed.Len()).
		Int64("seed", *seed).
		Msg("Simulation finished")

	reportRoute(chart, visit.System, log)
}

// registerSimModules installs a synthetic script module for every module name
// the catalog references: each mission titles itself, sets a deadline, and
// succeeds when the deadline fires, reporting the finish through finished.
func registerSimModules(registry *scripting.Registry, store *catalog.Store, log zerolog.Logger, finished func(template string)) {
	hooks := map[string]scripting.HookFunc{
		"create": func(ctx *scripting.Context, _ ...any) (any, error) {
			c := ctx.Owner.(*mission.Controller)
			c.SetTitle(c.Name())
			c.SetDesc("Simulated delivery")
			return nil, c.SetTimer(0, 5.0, "onDeadline")
		},
		"onDeadline": func(ctx *scripting.Context, _ ...any) (any, error) {
			c := ctx.Owner.(*mission.Controller)
			finished(c.Name())
			return nil, c.Finish(mission.OutcomeSuccess)
		},
	}

	for _, tmpl := range store.All() {
		if registry.Has(tmpl.Module) {
			continue
		}
		if err := registry.Register(tmpl.Module, hooks); err != nil {
			log.Error().Err(err).Str("module", tmpl.Module).Msg("Failed to register sim module")
		}
	}
}

func writeOfferStats(influx *metrics.Manager, log zerolog.Logger, template string, v mission.Visit) {
	if influx == nil {
		return
	}
	point := metrics.OfferRollPoint(template, v.Loc.String(), true)
	if err := influx.WritePoint(context.Background(), "offer_stats", point); err != nil {
		log.Debug().Err(err).Msg("Failed to write offer stats")
	}
}

func writeLifecycle(influx *metrics.Manager, log zerolog.Logger, template, phase string, active int) {
	if influx == nil {
		return
	}
	point := metrics.LifecyclePoint(template, phase, active)
	if err := influx.WritePoint(context.Background(), "mission_lifecycle", point); err != nil {
		log.Debug().Err(err).Msg("Failed to write lifecycle stats")
	}
}

// reportRoute logs the jump route from the visited system to the farthest
// named system, a smoke test of the star chart.
func reportRoute(chart *starmap.Chart, from string, log zerolog.Logger) {
	if chart == nil || !chart.Has(from) {
		return
	}
	var farthest string
	var best float64
	for _, name := range chart.Names() {
		if name == from {
			continue
		}
		d, err := chart.Distance(from, name)
		if err == nil && d > best {
			best = d
			farthest = name
		}
	}
	if farthest == "" {
		return
	}
	path, err := chart.JumpPath(from, farthest)
	if err != nil {
		log.Warn().Err(err).Str("from", from).Str("to", farthest).Msg("No jump route")
		return
	}
	log.Info().Str("from", from).Str("to", farthest).
		Float64("distance", best).Strs("route", path).
		Msg("Longest route from visited system")
}
