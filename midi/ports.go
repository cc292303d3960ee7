package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ErrTimeout is returned when the MIDI system does not answer
var ErrTimeout = errors.New("timed out listing MIDI ports")

// portTimeout guards against a hung CoreMIDI
const portTimeout = 3 * time.Second

// OutPorts lists output ports, giving up after a few seconds
func OutPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(portTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrTimeout
	}
}

// OutPortNames returns the names of all output ports
func OutPortNames() ([]string, error) {
	outs, err := OutPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// FindOutPort returns the first output whose name contains nameFragment
// (case-insensitive). An empty fragment picks the first port.
func FindOutPort(nameFragment string) (drivers.Out, error) {
	outs, err := OutPorts()
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("no MIDI outputs available")
	}

	i := MatchPort(portNames(outs), nameFragment)
	if i < 0 {
		return nil, fmt.Errorf("no MIDI output contains %q", nameFragment)
	}
	return outs[i], nil
}

// MatchPort returns the index of the first name containing fragment, or -1
func MatchPort(names []string, fragment string) int {
	if len(names) == 0 {
		return -1
	}
	if fragment == "" {
		return 0
	}
	lower := strings.ToLower(fragment)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return i
		}
	}
	return -1
}

func portNames(outs []drivers.Out) []string {
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// Close shuts the MIDI driver down
func Close() {
	gomidi.CloseDriver()
}
