package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tensim/internal/constraints"
	"github.com/san-kum/tensim/internal/energy"
	"github.com/san-kum/tensim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 300
	frameRate       = 30
	maxStepsPerTick = 5000
	rotateStep      = 0.1
)

type TickMsg time.Time

// Builder returns a simulator over a freshly built system. Reset calls it
// again to restore the initial state.
type Builder func() (*sim.Simulator, error)

// Model is the Bubble Tea live view of one structure.
type Model struct {
	title          string
	build          Builder
	constraintOpts []constraints.Option

	sim           *sim.Simulator
	enforcer      *constraints.Enforcer
	analyzer      *energy.Analyzer
	constraintsOn bool

	running      bool
	stepsPerTick int
	baseSteps    int
	energy       energy.Distribution
	history      []float64
	err          error

	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   styles
	keys     keyMap
	help     help.Model
	showHelp bool
}

// NewModel builds the first simulator and sizes the step rate so one
// second of simulated time passes per second of wall time.
func NewModel(title string, build Builder, constraintOpts []constraints.Option, constraintsOn bool) (Model, error) {
	m := Model{
		title:          title,
		build:          build,
		constraintOpts: constraintOpts,
		constraintsOn:  constraintsOn,
		running:        true,
		canvas:         NewCanvas(canvasWidth, canvasHeight),
		camera:         NewCamera(),
		theme:          Themes[0],
		keys:           defaultKeys,
		help:           help.New(),
		history:        make([]float64, 0, historyCapacity),
	}
	m.styles = newStyles(m.theme)

	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	m.camera.Fit(m.sim.System())
	if m.sim.System().Dimension() == 3 {
		m.camera.RotateX(-math.Pi / 3)
	}

	steps := int(math.Round(1 / (frameRate * m.sim.Dt())))
	m.baseSteps = max(1, min(steps, maxStepsPerTick))
	m.stepsPerTick = m.baseSteps
	return m, nil
}

func (m *Model) rebuild() error {
	s, err := m.build()
	if err != nil {
		return err
	}
	m.sim = s
	m.enforcer = constraints.New(s.System(), m.constraintOpts...)
	m.applyConstraints()
	m.analyzer = energy.New(s.System())
	m.energy = m.analyzer.Distribution()
	m.history = m.history[:0]
	m.err = nil
	return nil
}

func (m *Model) applyConstraints() {
	if m.constraintsOn {
		m.sim.SetEnforcer(m.enforcer)
	} else {
		m.sim.SetEnforcer(nil)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running
		case key.Matches(msg, m.keys.Reset):
			if err := m.rebuild(); err != nil {
				m.err = err
			}
			m.stepsPerTick = m.baseSteps
		case key.Matches(msg, m.keys.Constraints):
			m.constraintsOn = !m.constraintsOn
			m.applyConstraints()
		case key.Matches(msg, m.keys.Left):
			m.camera.RotateY(-rotateStep)
		case key.Matches(msg, m.keys.Right):
			m.camera.RotateY(rotateStep)
		case key.Matches(msg, m.keys.Up):
			m.camera.RotateX(-rotateStep)
		case key.Matches(msg, m.keys.Down):
			m.camera.RotateX(rotateStep)
		case key.Matches(msg, m.keys.Roll):
			m.camera.RotateZ(rotateStep)
		case key.Matches(msg, m.keys.ZoomIn):
			m.camera.ZoomIn()
		case key.Matches(msg, m.keys.ZoomOut):
			m.camera.ZoomOut()
		case key.Matches(msg, m.keys.Faster):
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case key.Matches(msg, m.keys.Slower):
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case key.Matches(msg, m.keys.Theme):
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one tick's worth of steps and stops on a non-finite state.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.sim.Step()
	}
	for _, n := range m.sim.System().Nodes() {
		if !n.Position.IsValid() || !n.Velocity.IsValid() {
			m.err = sim.SimError{Time: m.sim.Time(), Message: fmt.Sprintf("node %d: invalid state (NaN/Inf)", n.ID)}
			m.running = false
			return
		}
	}

	m.energy = m.analyzer.Distribution()
	m.history = append(m.history, m.energy.Total)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) Time() float64             { return m.sim.Time() }
func (m Model) Running() bool             { return m.running }
func (m Model) ConstraintsOn() bool       { return m.constraintsOn }
func (m Model) StepsPerTick() int         { return m.stepsPerTick }
func (m Model) Simulator() *sim.Simulator { return m.sim }

func (m Model) View() string {
	m.canvas.Clear()
	Render3D(m.canvas, StructureWireframe(m.sim.System()), m.camera)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(m.styles.alert.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(m.styles.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(m.styles.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("total energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3fs", m.sim.Time()))
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerTick))
	row("Kinetic", fmt.Sprintf("%.4g J", m.energy.Kinetic))
	row("Gravitational", fmt.Sprintf("%.4g J", m.energy.Gravitational))
	row("Elastic", fmt.Sprintf("%.4g J", m.energy.Elastic))
	row("Total", fmt.Sprintf("%.4g J", m.energy.Total))

	sys := m.sim.System()
	row("Elements", fmt.Sprintf("%d cables, %d struts", len(sys.Cables()), len(sys.Struts())))
	if m.constraintsOn {
		stable := "no"
		if m.enforcer.IsStable() {
			stable = "yes"
		}
		row("Constraints", "on, stable: "+stable)
	} else {
		row("Constraints", "off")
	}

	s.WriteString("\n" + m.help.View(m.keys))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.stats.Render(s.String()))
}
