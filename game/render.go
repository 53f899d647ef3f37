package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drape/renderer"
	"github.com/pthm-cable/drape/telemetry"
	"github.com/pthm-cable/drape/ui"
)

var surfaceColor = rl.NewColor(70, 120, 200, 255)
var wireColor = rl.NewColor(200, 200, 210, 160)

// rlCamera converts the orbit camera into raylib's camera struct.
func (g *Game) rlCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   renderer.Vec3(g.cam.Position()),
		Target:     renderer.Vec3(g.cam.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the scene, overlays, and UI for one frame. When a simulation
// step opened a perf frame this turn, rendering is timed as its final phase.
func (g *Game) Draw() {
	if g.frameOpen {
		g.perf.StartPhase(telemetry.PhaseRender)
	}
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(24, 26, 32, 255))

	rl.BeginMode3D(g.rlCamera())
	renderer.DrawGround()
	if g.controls.ShowSurface {
		renderer.DrawSurface(g.eval.Samples(), g.eval.Indices(), surfaceColor)
	}
	if g.controls.ShowWireframe {
		renderer.DrawWireframe(g.ps.XCur, g.ps.Edges, wireColor)
	}
	if g.controls.ShowParticles {
		renderer.DrawParticles(g.ps.XCur, g.ps.Fixed, g.selected)
	}
	rl.EndMode3D()

	g.drawSelectionRect()

	g.hud.Draw(g.hudData())
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"Space pause | R reset | W wind | drag select | P pin | C clear | RMB orbit | wheel zoom | Tab panel")
	g.panel.Draw(&g.controls)

	rl.EndDrawing()
	g.endPerfFrame()
}

func (g *Game) drawSelectionRect() {
	if !g.selection.active {
		return
	}
	r := g.selection.rect()
	rl.DrawRectangleRec(r, rl.NewColor(120, 170, 255, 40))
	rl.DrawRectangleLinesEx(r, 1, rl.NewColor(120, 170, 255, 200))
}

func (g *Game) hudData() ui.HUDData {
	return ui.HUDData{
		Title:        "Drape",
		Frame:        g.Frame(),
		FPS:          rl.GetFPS(),
		Paused:       g.controls.Paused,
		Particles:    g.ps.NumParticles(),
		Edges:        g.ps.NumEdges(),
		Samples:      len(g.eval.Samples()),
		Pinned:       g.pinnedCount(),
		Topology:     g.cfg.Surface.Topology,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	}
}
