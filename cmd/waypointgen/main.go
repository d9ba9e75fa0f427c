// waypointgen places random checkpoints inside the configured waypoint area and writes them
// as a waypoint_list.yaml, so a scenario can be pinned to a fixed pool.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/swarmsim/server/internal/config"
	"github.com/swarmsim/server/internal/data"
	"github.com/swarmsim/server/internal/spawn"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: waypointgen <swarmsim.toml> <output.yaml> [count]")
		os.Exit(1)
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	count := cfg.Waypoints.Count
	if len(os.Args) > 3 {
		count, err = strconv.Atoi(os.Args[3])
		if err != nil || count < 0 {
			fmt.Fprintf(os.Stderr, "bad count %q\n", os.Args[3])
			os.Exit(1)
		}
	}

	// Same seed, same first draws as the simulator's own placement.
	sampler := spawn.NewSampler(cfg.Simulation.Seed)
	points := sampler.Points(count, cfg.Arena.Waypoint)

	entries := make([]data.WaypointEntry, len(points))
	for i, p := range points {
		entries[i] = data.WaypointEntry{X: p.X, Y: p.Y, Z: p.Z, Note: fmt.Sprintf("checkpoint %d", i+1)}
	}
	body, err := data.MarshalWaypoints(entries)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := os.Create(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "# Waypoint list, generated with seed %d (%d entries)\n", sampler.Seed(), len(entries))
	if _, err := out.Write(body); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d waypoint entries to %s\n", len(entries), os.Args[2])
}
