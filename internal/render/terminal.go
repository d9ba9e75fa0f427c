// Package render draws the swarm top-down (X right, Z up) in a terminal.
package render

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/swarmsim/server/internal/swarm"
	"github.com/swarmsim/server/internal/vmath"
	"go.uber.org/zap"
)

const (
	glyphEntity   = '*'
	glyphWaypoint = '+'
	glyphHeld     = 'o'
	glyphAgent    = '@'
)

var (
	styleFree     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeld     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePooled   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFallback = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleAgent    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// Terminal renders frames to a tcell screen. The last row is a status line.
type Terminal struct {
	screen tcell.Screen
	arena  vmath.Bounds
	log    *zap.Logger

	quit     chan struct{}
	quitOnce sync.Once
}

// OpenTerminal takes over the controlling terminal.
func OpenTerminal(arena vmath.Bounds, log *zap.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewTerminal(screen, arena, log), nil
}

// NewTerminal wraps an initialised screen.
func NewTerminal(screen tcell.Screen, arena vmath.Bounds, log *zap.Logger) *Terminal {
	screen.HideCursor()
	return &Terminal{
		screen: screen,
		arena:  arena,
		log:    log,
		quit:   make(chan struct{}),
	}
}

// Start polls input in the background. Esc, Ctrl-C or q close Done.
func (t *Terminal) Start() {
	go t.pollLoop()
}

// Done is closed once the user asks to quit.
func (t *Terminal) Done() <-chan struct{} { return t.quit }

func (t *Terminal) pollLoop() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return // screen finalised
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				t.log.Debug("viewer quit requested")
				t.quitOnce.Do(func() { close(t.quit) })
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Draw renders waypoints, entities, the agent and a status line, in that order, so later
// layers win when they share a cell.
func (t *Terminal) Draw(f swarm.Frame, waypoints []vmath.Vec3) {
	t.screen.Clear()

	held := make([]bool, len(waypoints))
	for _, c := range f.Claims {
		if c >= 0 && int(c) < len(held) {
			held[c] = true
		}
	}
	for i, w := range waypoints {
		if x, y, ok := t.Project(w); ok {
			if held[i] {
				t.screen.SetContent(x, y, glyphHeld, nil, styleHeld)
			} else {
				t.screen.SetContent(x, y, glyphWaypoint, nil, styleFree)
			}
		}
	}
	for i, p := range f.Positions {
		x, y, ok := t.Project(p)
		if !ok {
			continue
		}
		style := stylePooled
		if i < len(f.Claims) && f.OnFallback(i) {
			style = styleFallback
		}
		t.screen.SetContent(x, y, glyphEntity, nil, style)
	}
	if x, y, ok := t.Project(f.Fallback); ok {
		t.screen.SetContent(x, y, glyphAgent, nil, styleAgent)
	}

	_, h := t.screen.Size()
	status := fmt.Sprintf(" tick %d  entities %d  on fallback %d  agent (%.1f, %.1f)  q to quit ",
		f.Tick, len(f.Positions), f.FallbackCount, f.Fallback.X, f.Fallback.Z)
	t.drawText(0, h-1, status, styleStatus)

	t.screen.Show()
}

// Project maps an arena point onto the drawable area above the status line.
func (t *Terminal) Project(p vmath.Vec3) (int, int, bool) {
	w, h := t.screen.Size()
	rows := h - 1
	if w <= 0 || rows <= 0 {
		return 0, 0, false
	}
	if !t.arena.Contains(vmath.Vec3{X: p.X, Y: t.arena.Min.Y, Z: p.Z}) {
		return 0, 0, false
	}
	x := scale(p.X, t.arena.Min.X, t.arena.Max.X, w)
	y := rows - 1 - scale(p.Z, t.arena.Min.Z, t.arena.Max.Z, rows)
	return x, y, true
}

// scale maps v in [lo, hi] onto 0..cells-1; a degenerate range maps to the middle cell.
func scale(v, lo, hi float32, cells int) int {
	if hi <= lo {
		return cells / 2
	}
	c := int((v-lo)/(hi-lo)*float32(cells-1) + 0.5)
	return max(0, min(cells-1, c))
}

func (t *Terminal) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
