package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/control"
	"github.com/san-kum/fdmsim/internal/input"
	"github.com/san-kum/fdmsim/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600

	stickStep = 0.02
	minZoom   = 0.25
	maxZoom   = 8
)

type TickMsg time.Time

// Model steps a simulation session in real time and renders it.
type Model struct {
	sim      *sim.Simulator
	cfg      *config.Config
	session  *sim.Session
	manual   *control.Manual
	airframe airframe
	canvas   *Canvas
	theme    Theme
	styles   styles
	history  []sim.Record
	track    []sim.Record
	frame    time.Duration
	zoom     float64
	running  bool
	showHelp bool
	err      error
}

// NewModel starts a session of cfg on s.
func NewModel(s *sim.Simulator, cfg *config.Config) (Model, error) {
	m := Model{
		sim:    s,
		cfg:    cfg,
		canvas: NewCanvas(width, height),
		theme:  ThemeCockpit,
		styles: newStyles(ThemeCockpit),
		frame:  time.Duration(cfg.Dt * float64(time.Second)),
		zoom:   1,
	}
	if err := m.restart(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) restart() error {
	// stick positions left over from manual flying; Start rewrites configured inputs
	for _, ch := range []string{input.Collective, input.CyclicLat, input.CyclicLon, input.Pedals} {
		m.sim.Inputs().Set(ch, 0)
	}
	session, err := m.sim.Start(m.cfg)
	if err != nil {
		return err
	}
	m.session = session
	m.manual = control.NewManual(m.sim.Inputs())
	m.airframe = airframeOf(session.Vehicle())
	m.history = append(m.history[:0], session.Record())
	m.track = m.track[:0]
	m.running = true
	m.err = nil
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys and advances one external step per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.restart(); err != nil {
				m.err = err
			}
		case "a":
			m.session.SetManual(!m.session.Manual())
		case "w":
			m.nudge(input.Collective, stickStep)
		case "s":
			m.nudge(input.Collective, -stickStep)
		case "left":
			m.nudge(input.CyclicLat, -stickStep)
		case "right":
			m.nudge(input.CyclicLat, stickStep)
		case "up":
			m.nudge(input.CyclicLon, stickStep)
		case "down":
			m.nudge(input.CyclicLon, -stickStep)
		case "z":
			m.nudge(input.Pedals, -stickStep)
		case "x":
			m.nudge(input.Pedals, stickStep)
		case "c":
			m.manual.Center()
		case "+", "=":
			m.zoom = math.Min(maxZoom, m.zoom*1.25)
		case "-", "_":
			m.zoom = math.Max(minZoom, m.zoom/1.25)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// nudge moves a control. Touching the controls hands them to the pilot.
func (m *Model) nudge(channel string, delta float64) {
	if !m.session.Manual() {
		m.session.SetManual(true)
		m.manual = control.NewManual(m.sim.Inputs())
	}
	m.manual.Nudge(channel, delta)
}

func (m *Model) step() {
	rec, err := m.session.Step()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.history = append(m.history, rec)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.track = append(m.track, rec)
	if len(m.track) > trackCapacity {
		m.track = m.track[1:]
	}
}

func (m Model) last() sim.Record {
	return m.history[len(m.history)-1]
}

func (m Model) View() string {
	rec := m.last()
	st := m.styles

	m.canvas.Clear()
	drawAircraft(m.canvas, m.airframe, rec, m.track, m.zoom)
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.session.Vehicle().Name())) + "\n")
	s.WriteString(m.status() + "\n\n")

	if alt := m.altitudes(); len(alt) > 1 {
		chart := asciigraph.Plot(alt, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("Altitude [m]"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	deg := 180 / math.Pi
	row("Time", fmt.Sprintf("%.1fs", rec.Time))
	row("Altitude", fmt.Sprintf("%.1f m", rec.Altitude))
	row("Position", fmt.Sprintf("N %.1f  E %.1f", rec.North, rec.East))
	row("Attitude", fmt.Sprintf("φ %.1f° θ %.1f° ψ %.0f°", rec.Roll*deg, rec.Pitch*deg, math.Mod(rec.Yaw*deg+360, 360)))
	row("Velocity", fmt.Sprintf("u %.1f v %.1f w %.1f", rec.U, rec.V, rec.W))
	row("Mass", fmt.Sprintf("%.0f kg", rec.Mass))

	rpm := rec.MainOmega * 60 / (2 * math.Pi)
	nominal := m.nominalOmega()
	row("Rotor", st.progressBar(rec.MainOmega/nominal, 16)+fmt.Sprintf(" %.0f rpm", rpm))

	s.WriteString("\n" + st.label.Render("CONTROLS") + "\n")
	row("Collective", st.progressBar(rec.Collective, 16)+fmt.Sprintf(" %.2f", rec.Collective))
	row("Cyclic lat", stickBar(rec.CyclicLat, 16))
	row("Cyclic lon", stickBar(rec.CyclicLon, 16))
	row("Pedals", stickBar(rec.Pedals, 16))

	s.WriteString(st.help.Render(separator(36) + "\nSP:Pause R:Restart A:Autopilot Q:Quit\nW/S:Coll ←→↑↓:Cyclic Z/X:Pedals ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart the run          ║
║  A        - Autopilot / manual       ║
║  W / S    - Collective up / down     ║
║  Arrows   - Cyclic                   ║
║  Z / X    - Pedals left / right      ║
║  C        - Center cyclic and pedals ║
║  + / -    - Zoom                     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func (m Model) status() string {
	st := m.styles
	switch {
	case m.err != nil:
		return st.failed.Render("INVALID: " + m.err.Error())
	case !m.running:
		return st.paused.Render("PAUSED")
	case m.session.Manual() || !m.session.Autopilot().Enabled():
		return st.running.Render("MANUAL")
	default:
		return st.running.Render(fmt.Sprintf("AUTOPILOT  hold %.0f m", m.cfg.Autopilot.Target))
	}
}

func (m Model) altitudes() []float64 {
	alt := make([]float64, len(m.history))
	for i, r := range m.history {
		alt[i] = r.Altitude
	}
	return alt
}

func (m Model) nominalOmega() float64 {
	if m.airframe.nominalOmega > 0 {
		return m.airframe.nominalOmega
	}
	return 1
}

// Run opens the live view full screen until the user quits.
func Run(s *sim.Simulator, cfg *config.Config) error {
	m, err := NewModel(s, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
