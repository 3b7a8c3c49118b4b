// Package input turns button edges into navigation events.
package input

import "time"

// Channel is a logical button.
type Channel int

const (
	Next Channel = iota
	Previous
	Up
	Down
	Reset
)

var channelNames = [...]string{"next", "previous", "up", "down", "reset"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// Channels lists every channel in pin-configuration order.
var Channels = []Channel{Next, Previous, Up, Down, Reset}

// Level is the button state sampled at the edge.
type Level int

const (
	Released Level = iota
	Pressed
)

func (l Level) String() string {
	if l == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is one debounced-or-not button edge.
type Event struct {
	Channel Channel
	Level   Level
	Time    time.Time
}

// Source delivers button events until it is closed or its context ends.
type Source interface {
	Events() <-chan Event
}
