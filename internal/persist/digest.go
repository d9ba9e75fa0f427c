package persist

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/swarmsim/server/internal/config"
	"golang.org/x/crypto/blake2b"
)

// scenario is the part of the config that decides what a run does. Logging, database and
// viewer settings don't change the outcome and are left out.
type scenario struct {
	Seed       int64                   `toml:"seed"`
	Simulation config.SimulationConfig `toml:"simulation"`
	Arena      config.ArenaConfig      `toml:"arena"`
	Waypoints  config.WaypointsConfig  `toml:"waypoints"`
	Agent      config.AgentConfig      `toml:"agent"`
}

// ScenarioDigest fingerprints the outcome-relevant config plus the effective seed, so runs that
// should be identical share a digest.
func ScenarioDigest(cfg *config.Config, seed int64) (string, error) {
	sc := scenario{
		Seed:       seed,
		Simulation: cfg.Simulation,
		Arena:      cfg.Arena,
		Waypoints:  cfg.Waypoints,
		Agent:      cfg.Agent,
	}
	sc.Simulation.Seed = seed
	sc.Simulation.StartTime = 0
	sc.Simulation.MaxTicks = 0
	sc.Simulation.Name = ""
	sc.Simulation.BatchSize = 0 // batching and worker count don't change results
	sc.Simulation.Workers = 0

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(sc); err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	sum := blake2b.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
