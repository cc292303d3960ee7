package rhythm

import (
	"strings"
	"unicode"
)

// Note symbols used in pattern beat sequences
const (
	Ghost      = "X" // silent placeholder
	Bass       = "B"
	Tone       = "T"
	Slap       = "S"
	DoubleTone = "TT"
	DoubleSlap = "SS"
)

// Silence is the symbol that never triggers a sample
const Silence = Ghost

// NoteKind classifies a note symbol for display and playback dispatch
type NoteKind int

const (
	KindUnknown NoteKind = iota
	KindGhost
	KindBass
	KindTone
	KindSlap
	KindDoubleTone
	KindDoubleSlap
)

// KindOf maps a note symbol to its kind
func KindOf(symbol string) NoteKind {
	switch symbol {
	case Ghost:
		return KindGhost
	case Bass:
		return KindBass
	case Tone:
		return KindTone
	case Slap:
		return KindSlap
	case DoubleTone:
		return KindDoubleTone
	case DoubleSlap:
		return KindDoubleSlap
	}
	return KindUnknown
}

func (k NoteKind) String() string {
	switch k {
	case KindGhost:
		return "ghost"
	case KindBass:
		return "bass"
	case KindTone:
		return "tone"
	case KindSlap:
		return "slap"
	case KindDoubleTone:
		return "double-tone"
	case KindDoubleSlap:
		return "double-slap"
	}
	return "unknown"
}

// Pattern is an immutable rhythmic pattern. Build one with NewPattern or load
// it from a Catalog; fields are read-only after construction.
type Pattern struct {
	Name          string
	TempoHint     int // tempo suggested by the catalog, overridden by the live transport tempo
	TimeSignature string
	Instrument    string
	VocalPattern  string
	DisplayBeats  string // alternate notation shown instead of Beats when present
	Notes         string

	beats []string
}

// NewPattern builds a pattern from an already split beat sequence.
// Returns ErrEmptyBeats if beats is empty.
func NewPattern(name, timeSignature string, beats []string) (*Pattern, error) {
	if len(beats) == 0 {
		return nil, ErrEmptyBeats
	}
	b := make([]string, len(beats))
	copy(b, beats)
	return &Pattern{
		Name:          name,
		TimeSignature: timeSignature,
		beats:         b,
	}, nil
}

// SplitBeats splits a beat string on whitespace, commas, semicolons and bars
func SplitBeats(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '|'
	})
}

// Beats returns a copy of the beat sequence
func (p *Pattern) Beats() []string {
	b := make([]string, len(p.beats))
	copy(b, p.beats)
	return b
}

// Len is the number of symbols in the beat sequence (not the beat count)
func (p *Pattern) Len() int {
	return len(p.beats)
}

// SymbolAt returns the symbol for a beat index, tiling the sequence
func (p *Pattern) SymbolAt(index int) string {
	n := len(p.beats)
	i := index % n
	if i < 0 {
		i += n
	}
	return p.beats[i]
}

// Notation is the text shown for the pattern: DisplayBeats when set,
// otherwise the beats joined by spaces
func (p *Pattern) Notation() string {
	if p.DisplayBeats != "" {
		return p.DisplayBeats
	}
	return strings.Join(p.beats, " ")
}

// SampleKeys returns the sample bank keys to try for a symbol, most specific first
func (p *Pattern) SampleKeys(symbol string) []string {
	if p.Instrument == "" {
		return []string{symbol}
	}
	return []string{p.Instrument + "_" + symbol, symbol}
}
