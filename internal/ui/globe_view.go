package ui

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/engine"
)

const (
	rotateStep  = math.Pi / 36 // 5° per key press
	dragPerCell = math.Pi / 90
	zoomIn      = 0.9
	zoomOut     = 1 / zoomIn
)

// Frame is the most recently rendered picture.
type Frame interface {
	Encode() string
}

// GlobeViewModel shows the rendered globe and turns keys and mouse input
// into orbit camera moves.
type GlobeViewModel struct {
	width  int
	height int

	viewport *engine.Viewport
	orbit    *camera.Orbit
	frame    Frame

	// Last pointer position while dragging
	dragging     bool
	dragX, dragY int
}

// NewGlobeViewModel creates the globe view. Any argument may be nil.
func NewGlobeViewModel(viewport *engine.Viewport, orbit *camera.Orbit, frame Frame) GlobeViewModel {
	return GlobeViewModel{viewport: viewport, orbit: orbit, frame: frame}
}

// SetSize updates the area in cells. Each cell holds two pixels stacked
// vertically, so the render surface is width x 2*height pixels.
func (m GlobeViewModel) SetSize(width, height int) GlobeViewModel {
	m.width = width
	m.height = height
	if m.viewport != nil {
		m.viewport.OnResize(width, height*2)
	}
	return m
}

// Update handles messages.
func (m GlobeViewModel) Update(msg tea.Msg) (GlobeViewModel, tea.Cmd) {
	if m.orbit == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.orbit.Rotate(-rotateStep, 0)
		case "right", "l":
			m.orbit.Rotate(rotateStep, 0)
		case "up", "k":
			m.orbit.Rotate(0, -rotateStep)
		case "down", "j":
			m.orbit.Rotate(0, rotateStep)
		case "+", "=":
			m.orbit.Zoom(zoomIn)
		case "-", "_":
			m.orbit.Zoom(zoomOut)
		case "r":
			m.orbit.Reset()
		}

	case tea.MouseMsg:
		m = m.handleMouse(msg)
	}

	return m, nil
}

func (m GlobeViewModel) handleMouse(msg tea.MouseMsg) GlobeViewModel {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.orbit.Zoom(zoomIn)
	case msg.Button == tea.MouseButtonWheelDown:
		m.orbit.Zoom(zoomOut)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.dragX, msg.Y-m.dragY
		// Dragging right spins the globe right, so the camera goes left
		m.orbit.Rotate(-float64(dx)*dragPerCell, -float64(dy)*dragPerCell*2)
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
	return m
}

// View returns the last rendered frame.
func (m GlobeViewModel) View() string {
	if m.frame == nil {
		return ""
	}
	return m.frame.Encode()
}
