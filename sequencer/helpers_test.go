package sequencer

import (
	"sync"
	"testing"

	"go-ritmo/rhythm"
)

type testSample string

func (s testSample) Name() string { return string(s) }

type testBank map[string]Sample

func (b testBank) Lookup(key string) (Sample, bool) {
	s, ok := b[key]
	return s, ok
}

func newBank(keys ...string) testBank {
	b := make(testBank)
	for _, k := range keys {
		b[k] = testSample(k)
	}
	return b
}

// recordingSink remembers every sample it was asked to play
type recordingSink struct {
	mu     sync.Mutex
	played []string
}

func (r *recordingSink) Play(s Sample) {
	r.mu.Lock()
	r.played = append(r.played, s.Name())
	r.mu.Unlock()
}

func (r *recordingSink) Played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.played))
	copy(out, r.played)
	return out
}

func (r *recordingSink) Count(name string) int {
	n := 0
	for _, p := range r.Played() {
		if p == name {
			n++
		}
	}
	return n
}

func pattern(t *testing.T, name, sig, instrument, beats string) *rhythm.Pattern {
	t.Helper()
	p, err := rhythm.NewPattern(name, sig, rhythm.SplitBeats(beats))
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	p.Instrument = instrument
	return p
}

// rig is a transport wired to a fake clock and a recording sink
type rig struct {
	clock     *fakeClock
	sink      *recordingSink
	sched     *Scheduler
	transport *Transport
}

func newRig(bank SampleBank) *rig {
	clock := newFakeClock()
	sink := &recordingSink{}
	sched := NewScheduler(NewState(), clock)
	sched.SetAudio(sink, bank)
	return &rig{
		clock:     clock,
		sink:      sink,
		sched:     sched,
		transport: NewTransport(sched),
	}
}
