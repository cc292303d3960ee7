package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-ritmo/debug"
	"go-ritmo/sequencer"
)

// DefaultChannel is the GM percussion channel (1-based)
const DefaultChannel = 10

// DefaultGate is how long a note is held before note off
const DefaultGate = 80 * time.Millisecond

// Note is a kit entry standing in for a decoded sample
type Note struct {
	Key    string
	Number uint8
}

func (n Note) Name() string { return n.Key }

// Output plays pattern beats as MIDI notes. It is both the sample bank
// (kit lookups) and the sink (note on, delayed note off).
type Output struct {
	send     func(gomidi.Message) error
	channel  uint8 // 0-based
	velocity uint8
	gate     time.Duration
	kit      Kit
}

// NewOutput wraps a send function; channel is 1-16
func NewOutput(send func(gomidi.Message) error, channel int, kit Kit) *Output {
	if channel < 1 || channel > 16 {
		channel = DefaultChannel
	}
	return &Output{
		send:     send,
		channel:  uint8(channel - 1),
		velocity: 100,
		gate:     DefaultGate,
		kit:      kit,
	}
}

// OpenOutput opens the first output port whose name contains portName
func OpenOutput(portName string, channel int, kitName string) (*Output, error) {
	port, err := FindOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open port %s: %w", port.String(), err)
	}
	debug.Log("midi", "output %s ch=%d kit=%s", port.String(), channel, kitName)
	return NewOutput(send, channel, GetKit(kitName)), nil
}

// SetVelocity sets the note on velocity (1-127)
func (o *Output) SetVelocity(v uint8) {
	if v < 1 {
		v = 1
	}
	if v > 127 {
		v = 127
	}
	o.velocity = v
}

// Lookup implements sequencer.SampleBank through the kit
func (o *Output) Lookup(key string) (sequencer.Sample, bool) {
	n, ok := o.kit.Notes[key]
	if !ok {
		return nil, false
	}
	return Note{Key: key, Number: n}, true
}

// Play implements sequencer.Sink. The note off is sent from a goroutine.
func (o *Output) Play(s sequencer.Sample) {
	n, ok := s.(Note)
	if !ok {
		return
	}
	if err := o.send(gomidi.NoteOn(o.channel, n.Number, o.velocity)); err != nil {
		debug.Log("midi", "note on %d: %v", n.Number, err)
		return
	}
	go func(ch, note uint8) {
		time.Sleep(o.gate)
		if err := o.send(gomidi.NoteOff(ch, note)); err != nil {
			debug.Log("midi", "note off %d: %v", note, err)
		}
	}(o.channel, n.Number)
}
