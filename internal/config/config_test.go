package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/swarmsim/server/internal/vmath"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarmsim.toml")
	body := `
[simulation]
entities = 250
speed = 3.5
tick_rate = "16ms"
workers = 2
seed = 42

[arena.spawn]
min = { x = -1, y = 0, z = -1 }
max = { x = 1, y = 0, z = 1 }

[waypoints]
count = 0

[agent]
start = { x = 4, y = 0, z = -4 }
reset_on_arrive = true
respawn = "initial"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Entities != 250 || cfg.Simulation.Speed != 3.5 {
		t.Errorf("simulation = %+v", cfg.Simulation)
	}
	if cfg.Simulation.TickRate != 16*time.Millisecond {
		t.Errorf("tick_rate = %s, want 16ms", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.BatchSize != 64 {
		t.Errorf("batch_size default lost: %d", cfg.Simulation.BatchSize)
	}
	if cfg.Arena.Spawn.Max != (vmath.Vec3{X: 1, Z: 1}) {
		t.Errorf("arena.spawn.max = %v", cfg.Arena.Spawn.Max)
	}
	if cfg.Arena.Waypoint.Max != (vmath.Vec3{X: 10, Y: 1, Z: 10}) {
		t.Errorf("arena.waypoint default lost: %v", cfg.Arena.Waypoint)
	}
	if cfg.Waypoints.Count != 0 {
		t.Errorf("waypoints.count = %d, want 0", cfg.Waypoints.Count)
	}
	if !cfg.Agent.ResetOnArrive || cfg.Agent.Respawn != "initial" || cfg.Agent.Start != (vmath.Vec3{X: 4, Z: -4}) {
		t.Errorf("agent = %+v", cfg.Agent)
	}
	if cfg.Simulation.StartTime == 0 {
		t.Errorf("StartTime not stamped")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative entities", func(c *Config) { c.Simulation.Entities = -1 }, "simulation.entities"},
		{"negative speed", func(c *Config) { c.Simulation.Speed = -2 }, "simulation.speed"},
		{"zero tick", func(c *Config) { c.Simulation.TickRate = 0 }, "tick_rate"},
		{"zero batch", func(c *Config) { c.Simulation.BatchSize = 0 }, "batch_size"},
		{"inverted arena", func(c *Config) { c.Arena.Spawn.Min.X = 50 }, "arena.spawn"},
		{"bad respawn", func(c *Config) { c.Agent.Respawn = "teleport" }, "agent.respawn"},
		{"db without dsn", func(c *Config) { c.Database.Enabled = true; c.Database.DSN = "" }, "database.dsn"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("got %v, want error mentioning %q", err, tc.want)
			}
		})
	}
}

func TestDeltaSeconds(t *testing.T) {
	s := SimulationConfig{TickRate: 250 * time.Millisecond}
	if s.DeltaSeconds() != 0.25 {
		t.Fatalf("DeltaSeconds = %v, want 0.25", s.DeltaSeconds())
	}
}
