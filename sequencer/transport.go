package sequencer

import (
	"sync"
	"time"

	"go-ritmo/debug"
	"go-ritmo/rhythm"
)

// Transport is the control surface used by the UI: play/stop, tempo, swing
// and the bounded set of active patterns. It owns the playing flag in the
// shared State; the Scheduler only reads it.
type Transport struct {
	sched *Scheduler
	state *State
	clock Clock

	mu        sync.Mutex
	active    []*rhythm.Pattern // activation order, unique by name
	capacity  int
	startedAt time.Time
}

// PatternState is one active pattern as the UI sees it
type PatternState struct {
	Pattern *rhythm.Pattern
	Index   int  // current beat, 0 when not armed
	Armed   bool // false for patterns activated after the last start
}

// Snapshot is everything the UI shows. Each field is current when read, but
// the fields are read one after another, so a beat may land between them.
type Snapshot struct {
	Playing  bool
	Tempo    int
	Swing    float64
	Elapsed  time.Duration
	Patterns []PatternState
}

// NewTransport creates a stopped transport driving sched
func NewTransport(sched *Scheduler) *Transport {
	return &Transport{
		sched:    sched,
		state:    sched.state,
		clock:    sched.clock,
		capacity: MaxActive,
	}
}

// Scheduler returns the scheduler this transport drives
func (t *Transport) Scheduler() *Scheduler {
	return t.sched
}

// Updates delivers a coalesced signal on beat ticks and control actions
func (t *Transport) Updates() <-chan struct{} {
	return t.sched.Updates()
}

func (t *Transport) Playing() bool { return t.state.Playing() }
func (t *Transport) Tempo() int { return t.state.Tempo() }
func (t *Transport) Swing() float64 { return t.state.Swing() }
func (t *Transport) Capacity() int { return t.capacity }

// SetTempo clamps and applies bpm; armed patterns pick it up on their next beat
func (t *Transport) SetTempo(bpm int) int {
	bpm = t.state.SetTempo(bpm)
	debug.Log("transport", "tempo %d", bpm)
	t.sched.notify()
	return bpm
}

// SetSwing clamps and applies the swing ratio with the same live effect as SetTempo
func (t *Transport) SetSwing(ratio float64) float64 {
	ratio = t.state.SetSwing(ratio)
	debug.Log("transport", "swing %.2f", ratio)
	t.sched.notify()
	return ratio
}

// AdoptTempoHint sets the tempo from the pattern's catalog hint when stopped
// and nothing else is active. Returns whether the tempo changed.
func (t *Transport) AdoptTempoHint(p *rhythm.Pattern) bool {
	t.mu.Lock()
	idle := len(t.active) == 0 || (len(t.active) == 1 && t.active[0].Name == p.Name)
	t.mu.Unlock()

	if !idle || t.state.Playing() || p.TempoHint <= 0 {
		return false
	}
	t.SetTempo(p.TempoHint)
	return true
}

// IsActive reports whether a pattern with this name is in the active set
func (t *Transport) IsActive(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.indexLocked(name) >= 0
}

// Active returns the active patterns in activation order
func (t *Transport) Active() []*rhythm.Pattern {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*rhythm.Pattern, len(t.active))
	copy(out, t.active)
	return out
}

func (t *Transport) indexLocked(name string) int {
	for i, p := range t.active {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// ToggleActivation removes the pattern from the active set (stopping only its
// chain) or adds it. Adding to a full set is ignored. Returns membership
// after the call.
func (t *Transport) ToggleActivation(p *rhythm.Pattern) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.sched.notify()

	if i := t.indexLocked(p.Name); i >= 0 {
		t.active = append(t.active[:i], t.active[i+1:]...)
		t.sched.Disarm(p.Name)
		if t.state.Playing() && t.sched.ArmedCount() == 0 {
			t.state.setPlaying(false)
			debug.Log("transport", "last chain removed, stopped")
		}
		debug.Log("transport", "deactivated %q", p.Name)
		return false
	}

	if len(t.active) >= t.capacity {
		debug.Log("transport", "activate %q rejected: %d/%d active", p.Name, len(t.active), t.capacity)
		return false
	}
	// Not armed until the next StartAll
	t.active = append(t.active, p)
	debug.Log("transport", "activated %q", p.Name)
	return true
}

// StartAll arms every active pattern from beat 0. Patterns already running
// keep their chain. Does nothing without active patterns or audio.
func (t *Transport) StartAll() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.active) == 0 || !t.sched.Ready() {
		debug.Log("transport", "start ignored: active=%d ready=%v", len(t.active), t.sched.Ready())
		return false
	}

	if !t.state.Playing() {
		t.startedAt = t.clock.Now()
	}
	t.state.setPlaying(true)
	for _, p := range t.active {
		if t.sched.Armed(p.Name) {
			continue
		}
		t.sched.Arm(p, 0)
	}

	if t.sched.ArmedCount() == 0 {
		t.state.setPlaying(false)
		return false
	}
	debug.Log("transport", "started %d patterns at %d bpm swing %.2f", len(t.active), t.state.Tempo(), t.state.Swing())
	return true
}

// StopAll clears the playing flag and cancels every chain. Playheads read 0 afterwards.
func (t *Transport) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.setPlaying(false)
	t.sched.DisarmAll()
	t.startedAt = time.Time{}
	debug.Log("transport", "stopped")
}

// Toggle stops when playing, starts otherwise
func (t *Transport) Toggle() {
	if t.state.Playing() {
		t.StopAll()
		return
	}
	t.StartAll()
}

// Elapsed is the time since playback started (0 when stopped)
func (t *Transport) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startedAt.IsZero() || !t.state.Playing() {
		return 0
	}
	return t.clock.Now().Sub(t.startedAt)
}

// Snapshot returns the current transport and playhead state
func (t *Transport) Snapshot() Snapshot {
	snap := Snapshot{
		Playing: t.state.Playing(),
		Tempo:   t.state.Tempo(),
		Swing:   t.state.Swing(),
		Elapsed: t.Elapsed(),
	}
	for _, p := range t.Active() {
		idx, armed := t.sched.Position(p.Name)
		snap.Patterns = append(snap.Patterns, PatternState{
			Pattern: p,
			Index:   idx,
			Armed:   armed,
		})
	}
	return snap
}
