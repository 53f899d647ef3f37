package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drape/renderer"
)

// selectionState tracks an in-progress rectangle drag.
type selectionState struct {
	active         bool
	startX, startY float32
	curX, curY     float32
}

// rect returns the drag rectangle with normalized corners.
func (s *selectionState) rect() rl.Rectangle {
	x0, x1 := s.startX, s.curX
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := s.startY, s.curY
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return rl.NewRectangle(x0, y0, x1-x0, y1-y0)
}

// handleSelectionInput runs the left-drag rectangle selection. Drags that
// start over the controls panel are ignored so sliders stay usable.
func (g *Game) handleSelectionInput() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.panel.MouseOver() {
		g.selection = selectionState{active: true, startX: mouse.X, startY: mouse.Y, curX: mouse.X, curY: mouse.Y}
		return
	}
	if !g.selection.active {
		return
	}

	g.selection.curX = mouse.X
	g.selection.curY = mouse.Y

	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.selectInRect(g.selection.rect())
		g.selection.active = false
	}
}

// selectInRect replaces the selection with every particle whose screen
// projection falls inside the rectangle. A tiny rectangle acts as a click
// and picks at most the nearest particle.
func (g *Game) selectInRect(r rl.Rectangle) {
	cam := g.rlCamera()
	clear(g.selected)

	if r.Width < 3 && r.Height < 3 {
		g.pickNearest(r.X+r.Width/2, r.Y+r.Height/2, cam)
		return
	}

	for i, p := range g.ps.XCur {
		sp := rl.GetWorldToScreen(renderer.Vec3(p), cam)
		if sp.X >= r.X && sp.X <= r.X+r.Width && sp.Y >= r.Y && sp.Y <= r.Y+r.Height {
			g.selected[i] = true
		}
	}
}

// pickNearest selects the single particle closest to the click point, within
// a small pixel radius.
func (g *Game) pickNearest(x, y float32, cam rl.Camera3D) {
	const maxDist = float32(12)
	best := -1
	bestDist := maxDist * maxDist

	for i, p := range g.ps.XCur {
		sp := rl.GetWorldToScreen(renderer.Vec3(p), cam)
		dx := sp.X - x
		dy := sp.Y - y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best >= 0 {
		g.selected[best] = true
	}
}

// togglePinnedSelection flips the pinned state of every selected particle.
func (g *Game) togglePinnedSelection() {
	for i := range g.selected {
		g.ps.TogglePinned(i)
	}
}

func (g *Game) clearSelection() {
	clear(g.selected)
}
