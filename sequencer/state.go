package sequencer

import (
	"math"
	"sync"
)

// Transport limits
const (
	MinTempo     = 40
	MaxTempo     = 300
	DefaultTempo = 80

	MinSwing = 0.8
	MaxSwing = 1.5
	NoSwing  = 1.0

	// MaxActive is how many patterns can play together
	MaxActive = 3
)

// State is the transport state cell. The Transport writes it, every armed
// pattern reads it when its timer fires, so tempo and swing changes land on
// the next beat without re-arming.
type State struct {
	mu      sync.RWMutex
	tempo   int
	swing   float64
	playing bool
}

// NewState creates a stopped state at the default tempo with no swing
func NewState() *State {
	return &State{
		tempo: DefaultTempo,
		swing: NoSwing,
	}
}

func (s *State) Tempo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tempo
}

func (s *State) Swing() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.swing
}

func (s *State) Playing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

// SetTempo stores the clamped tempo and returns it
func (s *State) SetTempo(bpm int) int {
	bpm = ClampTempo(bpm)
	s.mu.Lock()
	s.tempo = bpm
	s.mu.Unlock()
	return bpm
}

// SetSwing stores the clamped swing ratio and returns it
func (s *State) SetSwing(ratio float64) float64 {
	ratio = ClampSwing(ratio)
	s.mu.Lock()
	s.swing = ratio
	s.mu.Unlock()
	return ratio
}

func (s *State) setPlaying(playing bool) {
	s.mu.Lock()
	s.playing = playing
	s.mu.Unlock()
}

// ClampTempo limits bpm to [MinTempo, MaxTempo]
func ClampTempo(bpm int) int {
	if bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	return bpm
}

// ClampSwing limits ratio to [MinSwing, MaxSwing]; NaN means no swing
func ClampSwing(ratio float64) float64 {
	if math.IsNaN(ratio) {
		return NoSwing
	}
	if ratio < MinSwing {
		ratio = MinSwing
	}
	if ratio > MaxSwing {
		ratio = MaxSwing
	}
	return ratio
}
