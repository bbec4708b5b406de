// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-globe/internal/astro"
	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/engine"
	"github.com/litescript/ls-globe/internal/logging"
	"github.com/litescript/ls-globe/internal/scene"
	"github.com/litescript/ls-globe/internal/version"
)

// Rows taken by the title and the footer around the globe.
const chromeRows = 2

// Smallest globe area worth drawing, in cells.
const (
	minCols = 16
	minRows = 6
)

// AnimTickMsg triggers one animation cycle.
type AnimTickMsg time.Time

// TextureStatus reports background texture loading progress.
type TextureStatus interface {
	Stats() (loaded, failed, pending int)
}

// Options wires the model to the animation.
type Options struct {
	Driver   *engine.Driver
	Viewport *engine.Viewport
	Orbit    *camera.Orbit
	Frame    Frame
	Scene    *scene.Scene
	Textures TextureStatus // optional
	FPS      int
	Log      *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	driver   *engine.Driver
	scene    *scene.Scene
	textures TextureStatus
	log      *logging.Logger
	fps      int

	width    int
	height   int
	ready    bool
	animTick int
	err      error

	globe GlobeViewModel
}

// New creates the root UI model.
func New(opts Options) Model {
	fps := opts.FPS
	if fps < 1 {
		fps = 30
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return Model{
		driver:   opts.Driver,
		scene:    opts.Scene,
		textures: opts.Textures,
		log:      log,
		fps:      fps,
		globe:    NewGlobeViewModel(opts.Viewport, opts.Orbit, opts.Frame),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return animTickCmd(m.fps)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.globe, cmd = m.globe.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.globe = m.globe.SetSize(msg.Width, msg.Height-chromeRows)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd(m.fps))
		m.animTick++
		// Step and render here so View only has to encode a finished frame
		if m.driver != nil {
			if err := m.driver.Cycle(); err != nil {
				if m.err == nil {
					m.log.Error("render failed: %v", err)
				}
				m.err = err
			} else {
				m.err = nil
			}
		}

	default:
		var cmd tea.Cmd
		m.globe, cmd = m.globe.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < minCols || m.height-chromeRows < minRows {
		return m.renderTooSmall()
	}
	return m.renderTitle() + "\n" + m.globe.View() + "\n" + m.renderFooter()
}

func (m Model) renderTooSmall() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return muted.Render(fmt.Sprintf("Terminal too small (%dx%d, need %dx%d)",
		m.width, m.height, minCols, minRows+chromeRows))
}

var (
	titleFrom = mustHex("#3B82F6")
	titleTo   = mustHex("#EC4899")
)

func (m Model) renderTitle() string {
	title := fmt.Sprintf("  ls-globe v%s", version.Version)
	runes := []rune(title)

	var b strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(max(len(runes)-1, 1))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(t)))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor blends the title colors in HCL space, t in [0,1].
func gradientColor(t float64) string {
	return titleFrom.BlendHcl(titleTo, t).Clamped().Hex()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	var status string
	if m.err != nil {
		status = errorStyle.Render("ERROR: " + m.err.Error())
	} else {
		status = dimStyle.Render(m.hud())
	}

	if tex := m.textureStatus(); tex != "" {
		status += "  " + accentStyle.Render(tex)
	}

	help := dimStyle.Render("←↑↓→ rotate | +/-: zoom | r: reset | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// hud summarises the animation state.
func (m Model) hud() string {
	var frames uint64
	if m.driver != nil {
		frames = m.driver.Frames()
	}

	yaw := 0.0
	if m.scene != nil && m.scene.Planet != nil {
		if l := m.scene.Planet.Layer(scene.RoleSurface); l != nil {
			yaw = astro.RadToDeg(astro.WrapAngle(l.Yaw))
		}
	}
	return fmt.Sprintf("yaw %5.1f° · %d frames · %d fps", yaw, frames, m.fps)
}

func (m Model) textureStatus() string {
	if m.textures == nil {
		return ""
	}
	loaded, failed, pending := m.textures.Stats()
	switch {
	case pending > 0:
		spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		return fmt.Sprintf("%s textures %d/%d", spinner, loaded, loaded+failed+pending)
	case failed > 0:
		return fmt.Sprintf("textures %d/%d (%d missing)", loaded, loaded+failed, failed)
	default:
		return ""
	}
}

func animTickCmd(fps int) tea.Cmd {
	interval := time.Duration(math.Round(float64(time.Second) / float64(fps)))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
