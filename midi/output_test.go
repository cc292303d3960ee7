package midi

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-ritmo/debug"
	"go-ritmo/rhythm"
)

type captured struct {
	mu   sync.Mutex
	msgs []gomidi.Message
}

func (c *captured) send(m gomidi.Message) error {
	c.mu.Lock()
	c.msgs = append(c.msgs, m)
	c.mu.Unlock()
	return nil
}

func (c *captured) snapshot() []gomidi.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]gomidi.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func TestOutputLookup(t *testing.T) {
	o := NewOutput((&captured{}).send, 10, GetKit("gm"))
	s, ok := o.Lookup("djembe_B")
	if !ok {
		t.Fatal("djembe_B missing from gm kit")
	}
	if n := s.(Note); n.Number != 64 || n.Name() != "djembe_B" {
		t.Errorf("note = %+v", n)
	}
	if _, ok := o.Lookup("X"); ok {
		t.Error("ghost should not map to a note")
	}
}

func TestOutputPlaySendsNoteOnAndOff(t *testing.T) {
	c := &captured{}
	o := NewOutput(c.send, 10, GetKit("gm"))
	o.gate = time.Millisecond

	s, _ := o.Lookup("T")
	o.Play(s)

	deadline := time.Now().Add(time.Second)
	for len(c.snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	msgs := c.snapshot()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}

	var ch, key, vel uint8
	if !msgs[0].GetNoteOn(&ch, &key, &vel) || ch != 9 || key != 63 || vel != 100 {
		t.Errorf("first message = %v", msgs[0])
	}
	if !msgs[1].GetNoteOff(&ch, &key, &vel) || key != 63 {
		t.Errorf("second message = %v", msgs[1])
	}
}

func TestOutputIgnoresForeignSamples(t *testing.T) {
	c := &captured{}
	o := NewOutput(c.send, 10, GetKit("gm"))
	o.Play(foreign("x"))
	if len(c.snapshot()) != 0 {
		t.Error("played a non-kit sample")
	}
}

type foreign string

func (f foreign) Name() string { return string(f) }

func TestBadChannelFallsBack(t *testing.T) {
	o := NewOutput(nil, 42, GetKit("gm"))
	if o.channel != DefaultChannel-1 {
		t.Errorf("channel = %d", o.channel)
	}
}

func TestGetKitDefault(t *testing.T) {
	if GetKit("nope").Name != "General MIDI" {
		t.Error("unknown kit should fall back to gm")
	}
	names := KitNames()
	if len(names) != len(Kits) || names[0] != "bongo" {
		t.Errorf("names = %v", names)
	}
}

func TestMatchPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "USB Drum Module", "IAC Bus 1"}
	tests := []struct {
		frag string
		want int
	}{
		{"", 0},
		{"drum", 1},
		{"IAC", 2},
		{"blofeld", -1},
	}
	for _, tt := range tests {
		if got := MatchPort(names, tt.frag); got != tt.want {
			t.Errorf("MatchPort(%q) = %d, want %d", tt.frag, got, tt.want)
		}
	}
	if MatchPort(nil, "") != -1 {
		t.Error("empty list should not match")
	}
}

func TestSetVelocityClamps(t *testing.T) {
	c := &captured{}
	o := NewOutput(c.send, 10, GetKit("gm"))
	o.gate = time.Millisecond

	s, _ := o.Lookup("B")
	for _, tc := range []struct{ set, want uint8 }{{0, 1}, {64, 64}, {200, 127}} {
		o.SetVelocity(tc.set)
		o.Play(s)

		// note on is sent before Play returns; note offs may interleave
		var ch, key, vel uint8
		found := false
		msgs := c.snapshot()
		for i := len(msgs) - 1; i >= 0 && !found; i-- {
			found = msgs[i].GetNoteOn(&ch, &key, &vel)
		}
		if !found || vel != tc.want {
			t.Errorf("SetVelocity(%d): velocity %d, want %d", tc.set, vel, tc.want)
		}
	}
}

func TestNoteOffErrorIsLogged(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := debug.EnableAt(logPath); err != nil {
		t.Fatal(err)
	}
	defer debug.Disable()

	send := func(m gomidi.Message) error {
		var ch, key, vel uint8
		if m.GetNoteOff(&ch, &key, &vel) {
			return errors.New("port closed")
		}
		return nil
	}
	o := NewOutput(send, 10, GetKit("gm"))
	o.gate = time.Millisecond
	s, _ := o.Lookup("S")
	o.Play(s)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		data, _ := os.ReadFile(logPath)
		if strings.Contains(string(data), "note off 62: port closed") {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("note off error not logged")
}

func TestCatalogInstrumentsResolveInGMKit(t *testing.T) {
	cat, err := rhythm.LoadCatalog(filepath.Join("..", "rhythms.json"))
	if err != nil {
		t.Fatal(err)
	}
	o := NewOutput((&captured{}).send, 10, GetKit("gm"))
	for _, p := range cat.Patterns {
		for _, sym := range p.Beats() {
			if sym == rhythm.Silence {
				continue
			}
			key := p.SampleKeys(sym)[0]
			if _, ok := o.Lookup(key); !ok {
				t.Errorf("%s: no gm note for %q", p.Name, key)
			}
		}
	}
}
