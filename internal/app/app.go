package app

import (
	"errors"
	"time"

	"compass.klederson.com/internal/config"
	"compass.klederson.com/internal/heading"
	"compass.klederson.com/internal/sensor"
	"compass.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	stabilizer *heading.Stabilizer
	matrixEx   heading.MatrixExtractor
	vectorEx   *heading.VectorExtractor
	source     sensor.Source
	history    *HeadingRing
}

// Model is the root Bubble Tea model for the compass.
type Model struct {
	width  int
	height int

	sensing  bool
	demoMode bool
	variant  config.Variant
	source   string // "iio" or "ble"
	device   string // device name filter, may be empty

	// Stabilizer output; display is the last emitted update and stays
	// valid while sub-threshold samples produce nothing new.
	display     heading.DisplayUpdate
	haveDisplay bool
	rawHeading  float64
	haveRaw     bool

	// needle is the renderer-side eased rotation angle; it chases
	// display.Rotation a fraction per frame for cosmetic animation.
	needle float64

	samples  int
	emits    int
	rejected int
	lastErr  error

	shared *shared
}

// New creates a new Model. alpha and threshold tune the stabilizer; variant
// decides which extractor the session feeds.
func New(demoMode bool, source, device string, variant config.Variant, alpha, threshold float64) Model {
	return Model{
		sensing:  true,
		demoMode: demoMode,
		variant:  variant,
		source:   source,
		device:   device,
		shared: &shared{
			stabilizer: heading.NewStabilizer(alpha, threshold),
			vectorEx:   heading.NewVectorExtractor(),
			history:    NewHeadingRing(config.HistorySize),
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.haveDisplay {
			m.needle += (m.display.Rotation - m.needle) * config.NeedleEasing
		}
		return m, tickCmd()

	case sensor.MatrixSampleMsg:
		if !m.sensing || m.variant != config.VariantMatrix {
			return m, nil
		}
		raw, err := m.shared.matrixEx.Extract(msg.M)
		if err != nil {
			m.rejected++
			return m, nil
		}
		m.apply(raw)
		return m, nil

	case sensor.VectorSampleMsg:
		if !m.sensing || m.variant != config.VariantDualVector {
			return m, nil
		}
		var raw float64
		var err error
		if msg.Kind == sensor.VectorGravity {
			raw, err = m.shared.vectorEx.OfferGravity(msg.V)
		} else {
			raw, err = m.shared.vectorEx.OfferMagnetic(msg.V)
		}
		switch {
		case err == nil:
			m.apply(raw)
		case errors.Is(err, heading.ErrAwaitingPair):
			// Half a pair; nothing to do yet.
		default:
			m.rejected++
		}
		return m, nil

	case sensor.SourceErrorMsg:
		m.lastErr = msg.Err
		return m, nil
	}

	return m, nil
}

// apply feeds one raw heading through the stabilizer.
func (m *Model) apply(raw float64) {
	m.samples++
	m.rawHeading = raw
	m.haveRaw = true

	up, ok := m.shared.stabilizer.Update(raw)
	if !ok {
		return
	}
	m.emits++
	if !m.haveDisplay {
		// First emission of the session: place the needle directly instead
		// of unwinding from wherever the last session left it.
		m.needle = up.Rotation
	}
	m.display = up
	m.haveDisplay = true
	m.shared.history.Push(up.Heading)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.shared.source != nil {
			m.shared.source.Stop()
		}
		return m, tea.Quit

	case "s", "S":
		if !m.sensing {
			m.resetSession()
			m.sensing = true
		}

	case "p", "P":
		m.sensing = false

	case "r", "R":
		m.resetSession()
	}

	return m, nil
}

// resetSession clears every piece of per-session state: stabilizer, buffered
// sensor vectors, display, and history. Samples arriving after this are a
// fresh session; a partial reset would smooth against stale headings.
func (m *Model) resetSession() {
	m.shared.stabilizer.Reset()
	m.shared.vectorEx.Reset()
	m.shared.history.Clear()
	m.display = heading.DisplayUpdate{}
	m.haveDisplay = false
	m.haveRaw = false
	m.samples = 0
	m.emits = 0
	m.rejected = 0
	m.lastErr = nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing compass..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	dialW := m.width * 3 / 5
	if dialW < 30 {
		dialW = 30
	}
	readoutW := m.width - dialW
	if readoutW < 24 {
		readoutW = 24
		dialW = m.width - readoutW
	}

	sourceLabel := m.source
	if m.demoMode {
		sourceLabel = "demo"
	}
	if m.device != "" {
		sourceLabel += ":" + m.device
	}
	menuBar := ui.RenderMenuBar(m.width, sourceLabel, m.sensing)

	innerW := dialW - 4
	innerH := bodyH - 2
	if innerW < 9 {
		innerW = 9
	}
	if innerH < 5 {
		innerH = 5
	}
	dial := ui.RenderDial(innerW, innerH, m.needle, m.haveDisplay)
	dialPanel := ui.RenderDialPanel(dialW, bodyH, dial)

	readout := ui.RenderReadout(readoutW, bodyH, ui.ReadoutState{
		Seeded:   m.haveDisplay,
		Heading:  m.display.Heading,
		Raw:      m.rawHeading,
		HaveRaw:  m.haveRaw,
		Rotation: m.display.Rotation,
		Samples:  m.samples,
		Emits:    m.emits,
		Rejected: m.rejected,
		History:  m.shared.history.Values(),
		Err:      m.lastErr,
	})

	statusBar := ui.RenderStatusBar(m.width, m.sensing, string(m.variant), m.samples, m.emits, m.display.Heading, m.haveDisplay)

	return ui.ComposeLayout(menuBar, dialPanel, readout, statusBar, m.width)
}

// StartSource initializes and starts the sensor source. Must be called
// before p.Run().
func (m *Model) StartSource(p *tea.Program) error {
	if m.demoMode {
		m.shared.source = sensor.NewMockSource(m.variant)
		return m.shared.source.Start(p)
	}

	switch m.source {
	case "ble":
		m.shared.source = sensor.NewBLESource(m.device)
	default:
		m.shared.source = sensor.NewIIOSource(m.device)
	}
	return m.shared.source.Start(p)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
