package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/swarmsim/server/internal/config"
	"github.com/swarmsim/server/internal/core/event"
	coresys "github.com/swarmsim/server/internal/core/system"
	"github.com/swarmsim/server/internal/data"
	"github.com/swarmsim/server/internal/persist"
	"github.com/swarmsim/server/internal/render"
	"github.com/swarmsim/server/internal/scripting"
	"github.com/swarmsim/server/internal/spawn"
	"github.com/swarmsim/server/internal/swarm"
	"github.com/swarmsim/server/internal/system"
	"github.com/swarmsim/server/internal/vmath"
	"github.com/swarmsim/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/width"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             swarmsim  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      checkpoint swarm · tick simulator    \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscenario:\033[0m %s \033[90m(seed: %d)\033[0m\n\n", name, seed)
}

// displayWidth counts terminal columns, two for East Asian wide and fullwidth runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func printSection(title string) {
	lineLen := max(3, 46-displayWidth(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printValue(label, value string) {
	dotsLen := max(3, 42-displayWidth(label)-displayWidth(value))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printStat(label string, count int) {
	printValue(label, fmt.Sprintf("%d", count))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/swarmsim.toml"
	if p := os.Getenv("SWARM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// One sampler drives every random draw, in a fixed order: waypoints, spawn, then respawns.
	sampler := spawn.NewSampler(cfg.Simulation.Seed)
	printBanner(cfg.Simulation.Name, sampler.Seed())

	// 3. Scenario
	printSection("scenario")

	var pool *data.WaypointTable
	if cfg.Waypoints.File != "" {
		pool, err = data.LoadWaypointTable(cfg.Waypoints.File)
		if err != nil {
			return fmt.Errorf("load waypoints: %w", err)
		}
		printOK(fmt.Sprintf("waypoints loaded from %s", cfg.Waypoints.File))
	} else {
		pool = data.NewWaypointTable(sampler.Points(cfg.Waypoints.Count, cfg.Arena.Waypoint))
	}
	printStat("waypoints", pool.Count())

	initial := sampler.Points(cfg.Simulation.Entities, cfg.Arena.Spawn)
	printStat("entities", len(initial))
	printValue("speed", fmt.Sprintf("%g u/s", cfg.Simulation.Speed))
	printValue("tick", cfg.Simulation.TickRate.String())

	agent := world.NewAgent(cfg.Agent.Start, world.RespawnMode(cfg.Agent.Respawn), cfg.Arena.Respawn, sampler)

	engine, err := scripting.NewEngine(cfg.Agent.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	var stepper system.AgentStepper
	if engine.HasAgentStep() {
		stepper = engine
		printOK("agent script loaded")
	} else {
		printOK("no agent script, agent stays put")
	}

	// 4. Core
	sim, err := swarm.New(swarm.Config{
		Speed:     cfg.Simulation.Speed,
		BatchSize: cfg.Simulation.BatchSize,
		Workers:   cfg.Simulation.Workers,
	}, initial, pool, agent)
	if err != nil {
		return fmt.Errorf("swarm: %w", err)
	}
	defer sim.Close()
	printStat("initial fallbacks", sim.Current().FallbackCount)
	fmt.Println()

	// 5. Systems
	bus := event.NewBus()
	event.Subscribe(bus, func(ev event.AgentRespawned) {
		log.Info("agent respawned",
			zap.Uint64("tick", ev.Tick),
			zap.Any("from", ev.From),
			zap.Any("to", ev.To),
		)
	})

	runner := coresys.NewRunner()
	runner.Register(system.NewAgentSystem(agent, stepper, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	swarmSys := system.NewSwarmSystem(sim, bus, agent, cfg.Simulation.DeltaSeconds(), system.ArrivalConfig{
		ResetOnArrive: cfg.Agent.ResetOnArrive,
		ResetDistance: cfg.Agent.ResetDistance,
	}, log)
	runner.Register(swarmSys)

	// 6. Optional run recording
	var (
		runRepo  *persist.RunRepo
		recorder *system.RecordSystem
		runID    int64
	)
	if cfg.Database.Enabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		digest, err := persist.ScenarioDigest(cfg, sampler.Seed())
		if err != nil {
			return err
		}
		runRepo = persist.NewRunRepo(db)
		runID, err = runRepo.Create(ctx, persist.RunInfo{
			Name:      cfg.Simulation.Name,
			Digest:    digest,
			Seed:      sampler.Seed(),
			Entities:  sim.Len(),
			Waypoints: sim.WaypointCount(),
			Speed:     cfg.Simulation.Speed,
		}, pool.Waypoints())
		if err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		printStat("run id", int(runID))
		printValue("digest", digest[:16])
		fmt.Println()

		recorder = system.NewRecordSystem(persist.NewSnapshotRepo(db), swarmSys, runID,
			cfg.Database.SnapshotInterval, cfg.Database.FlushInterval, log)
		runner.Register(recorder)
	}

	// 7. Ready
	printSection("ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Simulation.TickRate))
	if cfg.Simulation.MaxTicks > 0 {
		printReady(fmt.Sprintf("stopping after %d ticks", cfg.Simulation.MaxTicks))
	}
	fmt.Println()

	// 8. Optional viewer, last so the banner stays readable until the screen takes over
	var quit <-chan struct{}
	closeView := func() {}
	if cfg.View.Enabled {
		arena := vmath.Union(cfg.Arena.Spawn, cfg.Arena.Waypoint, cfg.Arena.Respawn)
		term, err := render.OpenTerminal(arena, log)
		if err != nil {
			return fmt.Errorf("viewer: %w", err)
		}
		var once sync.Once
		closeView = func() { once.Do(term.Close) }
		defer closeView()
		term.Start()
		quit = term.Done()
		runner.Register(system.NewViewSystem(swarmSys, pool, term, cfg.View.FrameEvery))
	}

	// 9. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	start := time.Now()
	var loopErr error
loop:
	for {
		select {
		case <-ticker.C:
			if err := runner.Tick(cfg.Simulation.TickRate); err != nil {
				loopErr = fmt.Errorf("tick %d: %w", runner.Ticks()+1, err)
				break loop
			}
			if cfg.Simulation.MaxTicks > 0 && runner.Ticks() >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", runner.Ticks()))
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		case <-quit:
			log.Info("viewer closed")
			break loop
		}
	}
	closeView()

	// 10. Shutdown
	if recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := recorder.Flush(ctx); err != nil {
			log.Error("final snapshot flush failed", zap.Int("rows", recorder.Pending()), zap.Error(err))
		}
		if err := runRepo.Finish(ctx, runID, sim.TickCount()); err != nil {
			log.Error("finish run failed", zap.Int64("run", runID), zap.Error(err))
		}
		log.Info("run recorded",
			zap.Int64("run", runID),
			zap.Int64("rows", recorder.Written()),
			zap.Int64("dropped", recorder.Dropped()),
		)
	}

	final := swarmSys.Frame()
	log.Info("simulation stopped",
		zap.Uint64("ticks", sim.TickCount()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("on_fallback", final.FallbackCount),
		zap.Int("arrivals", swarmSys.Arrivals()),
	)
	return loopErr
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
