// Package ui simulates the device in a terminal: frames are drawn with
// braille characters and the keyboard stands in for the five buttons.
package ui

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/pimonitor/internal/input"
)

// holdMargin is added to the reset timeout for a simulated long press.
const holdMargin = 250 * time.Millisecond

// Messages
type (
	frameMsg   string
	releaseMsg struct{}
)

// Model renders the latest frame and turns keys into button events.
type Model struct {
	frame   string
	status  string
	hold    time.Duration
	holding bool
	emit    func(...input.Event)
	now     func() time.Time
	help    help.Model
}

func newModel(hold time.Duration, emit func(...input.Event)) *Model {
	return &Model{
		frame: Braille(image.NewGray(image.Rect(0, 0, 128, 64))),
		hold:  hold,
		emit:  emit,
		now:   time.Now,
		help:  help.New(),
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = string(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case releaseMsg:
		m.holding = false
		m.status = "reset released"
		m.emit(m.event(input.Reset, input.Released))
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Next):
		m.press(input.Next)
	case key.Matches(msg, keys.Previous):
		m.press(input.Previous)
	case key.Matches(msg, keys.Up):
		m.press(input.Up)
	case key.Matches(msg, keys.Down):
		m.press(input.Down)
	case key.Matches(msg, keys.Reset):
		if m.holding {
			return nil
		}
		m.status = "reset"
		m.emit(m.event(input.Reset, input.Pressed), m.event(input.Reset, input.Released))
	case key.Matches(msg, keys.HoldReset):
		if m.holding {
			return nil
		}
		m.holding = true
		m.status = "holding reset"
		m.emit(m.event(input.Reset, input.Pressed))
		return tea.Tick(m.hold, func(time.Time) tea.Msg { return releaseMsg{} })
	}
	return nil
}

func (m *Model) press(ch input.Channel) {
	m.status = ch.String()
	m.emit(m.event(ch, input.Pressed))
}

func (m *Model) event(ch input.Channel, l input.Level) input.Event {
	return input.Event{Channel: ch, Level: l, Time: m.now()}
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	screenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Background(lipgloss.Color("0"))
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

func (m *Model) View() string {
	header := titleStyle.Render("pimonitor") + "  " + subtleStyle.Render(m.status)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		cardStyle.Render(screenStyle.Render(m.frame)),
		m.help.View(keys),
	)
}

// Simulator is both the display driver and the button source of a
// terminal session.
type Simulator struct {
	prog   *tea.Program
	events chan input.Event
	done   chan struct{}
	once   sync.Once
}

// NewSimulator creates a simulator. resetTimeout should match the
// monitor's, so a held reset outlasts it.
func NewSimulator(resetTimeout time.Duration, opts ...tea.ProgramOption) *Simulator {
	s := &Simulator{
		events: make(chan input.Event, 64),
		done:   make(chan struct{}),
	}
	s.prog = tea.NewProgram(newModel(resetTimeout+holdMargin, s.send), opts...)
	return s
}

// send queues events without blocking the UI loop. Presses are dropped
// while the queue is full.
func (s *Simulator) send(evs ...input.Event) {
	for _, ev := range evs {
		select {
		case s.events <- ev:
		default:
		}
	}
}

func (s *Simulator) Events() <-chan input.Event { return s.events }

func (s *Simulator) Flush(img *image.Gray) error {
	s.prog.Send(frameMsg(Braille(img)))
	return nil
}

// Close stops the program.
func (s *Simulator) Close() error {
	s.once.Do(func() { close(s.done) })
	s.prog.Quit()
	return nil
}

// Run blocks until the user quits or ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			s.prog.Quit()
		case <-s.done:
		}
	}()
	_, err := s.prog.Run()
	s.once.Do(func() { close(s.done) })
	return err
}
