package audio

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"go-ritmo/debug"
	"go-ritmo/sequencer"
)

// maxVoices caps simultaneous players; extra hits are dropped
const maxVoices = 32

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// only one ebiten audio context may exist per process
func sharedContext(sampleRate int) *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

// voice is the part of *audio.Player the speaker uses
type voice interface {
	Play()
	IsPlaying() bool
	SetVolume(float64)
	Close() error
}

// Speaker plays bank samples on the default audio device
type Speaker struct {
	newVoice func(pcm []byte) voice

	mu      sync.Mutex
	volume  float64
	players map[voice]struct{}
}

// NewSpeaker opens the audio device at sampleRate
func NewSpeaker(sampleRate int) *Speaker {
	ctx := sharedContext(sampleRate)
	return newSpeaker(func(pcm []byte) voice {
		return ctx.NewPlayerFromBytes(pcm)
	})
}

func newSpeaker(newVoice func(pcm []byte) voice) *Speaker {
	return &Speaker{
		newVoice: newVoice,
		volume:   1,
		players:  make(map[voice]struct{}),
	}
}

// SetVolume sets the level (0-1) for sounds started afterwards
func (s *Speaker) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

// Play implements sequencer.Sink. It starts the sound and returns.
func (s *Speaker) Play(smp sequencer.Sample) {
	sample, ok := smp.(*Sample)
	if !ok || len(sample.pcm) == 0 {
		return
	}

	p := s.newVoice(sample.pcm)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reapLocked()
	if len(s.players) >= maxVoices {
		debug.Log("audio", "voice limit reached, dropping %s", sample.name)
		p.Close()
		return
	}
	p.SetVolume(s.volume)
	// started under the lock so a concurrent reap never sees it idle
	p.Play()
	s.players[p] = struct{}{}
}

// Voices is the number of players not yet reaped
func (s *Speaker) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// reapLocked closes players that finished. Caller holds s.mu.
func (s *Speaker) reapLocked() {
	for p := range s.players {
		if !p.IsPlaying() {
			p.Close()
			delete(s.players, p)
		}
	}
}

// Close stops every sound still playing
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.players {
		p.Close()
		delete(s.players, p)
	}
}
