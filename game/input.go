package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.controls.Paused = !g.controls.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.controls.ResetClicked = true
	}
	if rl.IsKeyPressed(rl.KeyW) {
		g.controls.WindEnabled = !g.controls.WindEnabled
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.togglePinnedSelection()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.clearSelection()
	}

	g.handleCameraInput()
	g.handleSelectionInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
}

// handleCameraInput processes orbit, pan, and zoom controls.
func (g *Game) handleCameraInput() {
	if g.cam == nil {
		return
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.cam.Orbit(delta.X*0.005, delta.Y*0.005)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		delta := rl.GetMouseDelta()
		panScale := g.cam.Distance * 0.0015
		g.cam.Pan(-delta.X*panScale, delta.Y*panScale)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 - wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset(g.sceneCenter, g.sceneRadius*2.5)
	}
}
