package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// SimControls is the mutable state the controls panel edits. The game reads
// it every frame and feeds the values into the next Step.
type SimControls struct {
	Paused       bool
	ResetClicked bool // one-shot, cleared by the game after handling

	Stiffness    float32
	Substeps     int
	WindEnabled  bool
	WindStrength float32

	ShowSurface   bool
	ShowWireframe bool
	ShowParticles bool
}

// ControlsPanel renders the left-side simulation controls.
type ControlsPanel struct {
	theme   Theme
	x, y    int32
	width   int32
	visible bool
}

// NewControlsPanel creates a controls panel anchored at (x, y).
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		theme:   DefaultTheme(),
		x:       x,
		y:       y,
		width:   width,
		visible: true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// MouseOver reports whether the cursor is inside the panel, so the game can
// suppress selection drags that start on top of it.
func (c *ControlsPanel) MouseOver() bool {
	if !c.visible {
		return false
	}
	m := rl.GetMousePosition()
	return m.X >= float32(c.x) && m.X <= float32(c.x+c.width) &&
		m.Y >= float32(c.y) && m.Y <= float32(c.y+panelHeight)
}

const panelHeight = 330

// Draw renders the panel and applies slider/button edits to s.
func (c *ControlsPanel) Draw(s *SimControls) {
	if !c.visible {
		return
	}

	t := c.theme
	pad := t.Padding
	x := c.x + pad
	w := float32(c.width - 2*pad)
	y := c.y + pad

	t.DrawPanel(c.x, c.y, c.width, panelHeight)

	rl.DrawText("Simulation", x, y, t.HeaderFontSize, t.SectionHeader)
	y += t.LineHeight + 6

	label := "Pause"
	if s.Paused {
		label = "Start"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: w/2 - 4, Height: 24}, label) {
		s.Paused = !s.Paused
	}
	if gui.Button(rl.Rectangle{X: float32(x) + w/2 + 4, Y: float32(y), Width: w/2 - 4, Height: 24}, "Reset") {
		s.ResetClicked = true
	}
	y += 34

	rl.DrawText("Stretch stiffness", x, y, t.FontSize, t.LabelColor)
	y += t.LineHeight
	s.Stiffness = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: w - 60, Height: 18},
		"", "", s.Stiffness, 1e4, 1e6,
	)
	rl.DrawText(fmt.Sprintf("%.0e", s.Stiffness), x+int32(w)-52, y+2, t.FontSize, t.ValueColor)
	y += 28

	rl.DrawText("Substeps", x, y, t.FontSize, t.LabelColor)
	y += t.LineHeight
	substeps := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: w - 60, Height: 18},
		"", "", float32(s.Substeps), 1, 40,
	)
	s.Substeps = int(substeps + 0.5)
	if s.Substeps < 1 {
		s.Substeps = 1
	}
	rl.DrawText(fmt.Sprintf("%d", s.Substeps), x+int32(w)-52, y+2, t.FontSize, t.ValueColor)
	y += 28

	rl.DrawText("Wind", x, y, t.HeaderFontSize, t.SectionHeader)
	y += t.LineHeight + 2
	s.WindEnabled = gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
		"Enabled", s.WindEnabled,
	)
	y += 24

	rl.DrawText("Strength", x, y, t.FontSize, t.LabelColor)
	y += t.LineHeight
	s.WindStrength = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: w - 60, Height: 18},
		"", "", s.WindStrength, 0, 20,
	)
	rl.DrawText(fmt.Sprintf("%.1f", s.WindStrength), x+int32(w)-52, y+2, t.FontSize, t.ValueColor)
	y += 28

	rl.DrawText("Display", x, y, t.HeaderFontSize, t.SectionHeader)
	y += t.LineHeight + 2
	s.ShowSurface = gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
		"Surface", s.ShowSurface,
	)
	y += 22
	s.ShowWireframe = gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
		"Wireframe", s.ShowWireframe,
	)
	y += 22
	s.ShowParticles = gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
		"Particles", s.ShowParticles,
	)
}
