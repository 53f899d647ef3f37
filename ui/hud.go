package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Frame        int
	FPS          int32
	Paused       bool
	Particles    int
	Edges        int
	Samples      int
	Pinned       int
	Topology     string
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the heads-up display.
type HUD struct {
	theme Theme
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{theme: DefaultTheme()}
}

// Draw renders the HUD along the top edge.
func (h *HUD) Draw(data HUDData) {
	x := data.ScreenWidth - 310
	rl.DrawText(data.Title, x, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Edges: %d | Pinned: %d", data.Particles, data.Edges, data.Pinned),
		x, 35, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Samples: %d | Topology: %s", data.Samples, data.Topology),
		x, 53, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | FPS: %d", data.Frame, data.FPS),
		x, 71, 14, rl.LightGray,
	)

	status := "Running"
	color := rl.Green
	if data.Paused {
		status = "PAUSED"
		color = rl.Yellow
	}
	rl.DrawText(status, x, 89, 14, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
