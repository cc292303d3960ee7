package sequencer

import (
	"sync"

	"go-ritmo/debug"
	"go-ritmo/rhythm"
)

// Sample is a decoded, playable sound
type Sample interface {
	Name() string
}

// SampleBank resolves sample keys such as "djembe_B" or "B"
type SampleBank interface {
	Lookup(key string) (Sample, bool)
}

// Sink plays a sample now. Play must not wait for the sound to finish.
type Sink interface {
	Play(s Sample)
}

// Beat describes one fired subdivision
type Beat struct {
	Pattern string
	Index   int
	Symbol  string
	Sample  Sample // nil when the beat is silent
}

// playhead is the per-pattern cursor and the single timer that owns its next beat
type playhead struct {
	pattern *rhythm.Pattern
	token   uint64 // identity of this arm; a stale timer carries an old token
	timer   Timer
	index   int // beat to trigger on the next fire
	current int // last triggered beat
}

// Scheduler runs one independent timer chain per armed pattern. Each chain
// fires its beat, re-reads tempo and swing from the State, and arms the next
// beat from inside the handler, so a pattern never has two pending timers.
type Scheduler struct {
	state *State
	clock Clock
	curve SwingCurve

	mu        sync.Mutex
	sink      Sink
	bank      SampleBank
	playheads map[string]*playhead
	nextToken uint64

	// Notify UI of beat ticks and control changes
	updates chan struct{}
}

// NewScheduler creates a scheduler reading the given state cell
func NewScheduler(state *State, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{
		state:     state,
		clock:     clock,
		curve:     ActiveSwingCurve,
		playheads: make(map[string]*playhead),
		updates:   make(chan struct{}, 1),
	}
}

// State returns the shared transport state cell
func (s *Scheduler) State() *State {
	return s.state
}

// SetAudio installs the playback sink and sample bank. Until both are set the
// scheduler is not ready and Arm does nothing.
func (s *Scheduler) SetAudio(sink Sink, bank SampleBank) {
	s.mu.Lock()
	s.sink = sink
	s.bank = bank
	s.mu.Unlock()
	debug.Log("sched", "audio set: ready=%v", sink != nil && bank != nil)
}

// Ready reports whether audio output and samples are available
func (s *Scheduler) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyLocked()
}

func (s *Scheduler) readyLocked() bool {
	return s.sink != nil && s.bank != nil
}

// Updates delivers a coalesced signal after every beat and control change
func (s *Scheduler) Updates() <-chan struct{} {
	return s.updates
}

func (s *Scheduler) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Arm triggers the pattern's beat at startIndex right away and schedules the
// rest of its chain. It is a no-op unless playback is on and audio is ready.
// Arming an already armed pattern replaces its chain.
func (s *Scheduler) Arm(p *rhythm.Pattern, startIndex int) {
	s.mu.Lock()
	playing, ready := s.state.Playing(), s.readyLocked()
	if !playing || !ready {
		s.mu.Unlock()
		debug.Log("sched", "arm %q skipped: playing=%v ready=%v", p.Name, playing, ready)
		return
	}

	if old, ok := s.playheads[p.Name]; ok {
		old.timer.Stop()
	}

	s.nextToken++
	n := rhythm.BeatCount(p)
	ph := &playhead{
		pattern: p,
		token:   s.nextToken,
		index:   ((startIndex % n) + n) % n,
	}
	s.playheads[p.Name] = ph
	beat, sink := s.triggerLocked(ph)
	s.mu.Unlock()

	debug.Log("sched", "armed %q at %d (token %d)", p.Name, beat.Index, ph.token)
	s.emit(beat, sink)
}

// Disarm cancels the pattern's pending timer and drops its playhead.
// Disarming a pattern that is not armed does nothing.
func (s *Scheduler) Disarm(name string) {
	s.mu.Lock()
	ph, ok := s.playheads[name]
	if ok {
		ph.timer.Stop()
		delete(s.playheads, name)
	}
	s.mu.Unlock()

	if ok {
		debug.Log("sched", "disarmed %q", name)
		s.notify()
	}
}

// DisarmAll cancels every chain
func (s *Scheduler) DisarmAll() {
	s.mu.Lock()
	for name, ph := range s.playheads {
		ph.timer.Stop()
		delete(s.playheads, name)
	}
	s.mu.Unlock()
	s.notify()
}

// Armed reports whether the pattern has a live chain
func (s *Scheduler) Armed(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.playheads[name]
	return ok
}

// ArmedCount is the number of live chains
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.playheads)
}

// Position returns the most recently triggered beat of an armed pattern
func (s *Scheduler) Position(name string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ph, ok := s.playheads[name]
	if !ok {
		return 0, false
	}
	return ph.current, true
}

// fire is the timer callback for one beat of one chain
func (s *Scheduler) fire(name string, token uint64) {
	s.mu.Lock()
	ph, ok := s.playheads[name]
	if !ok || ph.token != token || !s.state.Playing() {
		s.mu.Unlock()
		return
	}
	beat, sink := s.triggerLocked(ph)
	s.mu.Unlock()

	s.emit(beat, sink)
}

// triggerLocked publishes the playhead, resolves the sample, and arms the
// next beat. Caller holds s.mu.
func (s *Scheduler) triggerLocked(ph *playhead) (Beat, Sink) {
	p := ph.pattern
	idx := ph.index
	ph.current = idx

	beat := Beat{
		Pattern: p.Name,
		Index:   idx,
		Symbol:  p.SymbolAt(idx),
	}
	if beat.Symbol != rhythm.Silence {
		for _, key := range p.SampleKeys(beat.Symbol) {
			if sample, ok := s.bank.Lookup(key); ok {
				beat.Sample = sample
				break
			}
		}
	}

	delay := Interval(s.curve, s.state.Tempo(), s.state.Swing(), rhythm.SignatureNumber(p), idx)
	ph.index = (idx + 1) % rhythm.BeatCount(p)

	name, token := p.Name, ph.token
	ph.timer = s.clock.AfterFunc(delay, func() {
		s.fire(name, token)
	})

	return beat, s.sink
}

// emit runs outside the lock so a slow sink can't stall other chains
func (s *Scheduler) emit(beat Beat, sink Sink) {
	if beat.Sample != nil && sink != nil {
		sink.Play(beat.Sample)
	}
	debug.Sometimes("beat", "%s %d %s sample=%v", beat.Pattern, beat.Index, beat.Symbol, beat.Sample != nil)
	s.notify()
}
