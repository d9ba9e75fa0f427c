package data

import (
	"fmt"
	"os"

	"github.com/swarmsim/server/internal/vmath"
	"gopkg.in/yaml.v3"
)

// WaypointEntry is one checkpoint in waypoint_list.yaml.
type WaypointEntry struct {
	X    float32 `yaml:"x"`
	Y    float32 `yaml:"y"`
	Z    float32 `yaml:"z"`
	Note string  `yaml:"note,omitempty"`
}

// WaypointTable is a fixed, ordered checkpoint pool. Order matters: it breaks distance ties.
type WaypointTable struct {
	entries []WaypointEntry
	points  []vmath.Vec3
}

// LoadWaypointTable loads a waypoint list yaml.
func LoadWaypointTable(path string) (*WaypointTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read waypoint list: %w", err)
	}
	return ParseWaypointTable(raw)
}

// ParseWaypointTable decodes a yaml sequence of {x, y, z, note} entries.
func ParseWaypointTable(raw []byte) (*WaypointTable, error) {
	var entries []WaypointEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse waypoint list: %w", err)
	}
	points := make([]vmath.Vec3, len(entries))
	for i, e := range entries {
		p := vmath.Vec3{X: e.X, Y: e.Y, Z: e.Z}
		if !vmath.Finite(p) {
			return nil, fmt.Errorf("waypoint %d: non-finite position %v", i, p)
		}
		points[i] = p
	}
	return &WaypointTable{entries: entries, points: points}, nil
}

// NewWaypointTable wraps already-placed points, e.g. from the random sampler.
func NewWaypointTable(points []vmath.Vec3) *WaypointTable {
	t := &WaypointTable{
		entries: make([]WaypointEntry, len(points)),
		points:  append([]vmath.Vec3(nil), points...),
	}
	for i, p := range points {
		t.entries[i] = WaypointEntry{X: p.X, Y: p.Y, Z: p.Z}
	}
	return t
}

// Waypoints returns the pool in file order. Callers must not modify it.
func (t *WaypointTable) Waypoints() []vmath.Vec3 {
	return t.points
}

// Entries returns the raw entries, notes included.
func (t *WaypointTable) Entries() []WaypointEntry {
	return t.entries
}

// Count returns the total number of waypoints loaded.
func (t *WaypointTable) Count() int {
	return len(t.points)
}

// MarshalWaypoints encodes entries back to the waypoint list format.
func MarshalWaypoints(entries []WaypointEntry) ([]byte, error) {
	out, err := yaml.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode waypoint list: %w", err)
	}
	return out, nil
}
