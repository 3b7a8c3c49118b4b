package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/pimonitor/internal/input"
)

func TestBraille_Geometry(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 128, 64))
	out := Braille(img)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 16)
	for _, l := range lines {
		assert.Equal(t, 64, len([]rune(l)))
		assert.Equal(t, strings.Repeat("⠀", 64), l)
	}
}

func TestBraille_DotBits(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	on := color.Gray{Y: 0xff}
	img.SetGray(0, 0, on)
	img.SetGray(1, 3, on)
	img.SetGray(2, 1, color.Gray{Y: 0x40})

	assert.Equal(t, string([]rune{'⠀' + 0x01 + 0x80, '⠀'}), Braille(img))
}

func TestBraille_FullCell(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	assert.Equal(t, "⣿", Braille(img))
}

type recorder struct{ events []input.Event }

func (r *recorder) emit(evs ...input.Event) { r.events = append(r.events, evs...) }

func newTestModel() (*Model, *recorder) {
	rec := &recorder{}
	m := newModel(3*time.Second, rec.emit)
	at := time.Unix(1000, 0)
	m.now = func() time.Time { return at }
	return m, rec
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_KeyMapping(t *testing.T) {
	tests := []struct {
		key  string
		want input.Channel
	}{
		{"n", input.Next},
		{"right", input.Next},
		{"p", input.Previous},
		{"left", input.Previous},
		{"up", input.Up},
		{"k", input.Up},
		{"down", input.Down},
		{"j", input.Down},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, rec := newTestModel()
			_, cmd := m.Update(keyMsg(tt.key))
			assert.Nil(t, cmd)
			require.Len(t, rec.events, 1)
			assert.Equal(t, tt.want, rec.events[0].Channel)
			assert.Equal(t, input.Pressed, rec.events[0].Level)
		})
	}
}

func TestModel_ShortReset(t *testing.T) {
	m, rec := newTestModel()
	m.Update(keyMsg("r"))

	require.Len(t, rec.events, 2)
	assert.Equal(t, input.Event{Channel: input.Reset, Level: input.Pressed, Time: time.Unix(1000, 0)}, rec.events[0])
	assert.Equal(t, input.Released, rec.events[1].Level)
}

func TestModel_HeldReset(t *testing.T) {
	m, rec := newTestModel()
	_, cmd := m.Update(keyMsg("R"))
	require.NotNil(t, cmd)
	require.Len(t, rec.events, 1)
	assert.Equal(t, input.Pressed, rec.events[0].Level)

	// Repeats while held are ignored.
	m.Update(keyMsg("R"))
	m.Update(keyMsg("r"))
	assert.Len(t, rec.events, 1)

	m.Update(releaseMsg{})
	require.Len(t, rec.events, 2)
	assert.Equal(t, input.Reset, rec.events[1].Channel)
	assert.Equal(t, input.Released, rec.events[1].Level)
	assert.False(t, m.holding)
}

func TestModel_QuitAndFrame(t *testing.T) {
	m, rec := newTestModel()

	m.Update(frameMsg("⣿"))
	assert.Contains(t, m.View(), "⣿")

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, rec.events)
}

func TestSimulator_SendDoesNotBlock(t *testing.T) {
	s := NewSimulator(time.Second)
	for i := 0; i < 100; i++ {
		s.send(input.Event{Channel: input.Next, Level: input.Pressed})
	}
	assert.Len(t, s.events, cap(s.events))
}
