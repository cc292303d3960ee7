package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-ritmo/rhythm"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Bass       rune // ● solid
	Tone       rune // ○ open
	Slap       rune // ◌ dashed
	DoubleTone rune // ◎
	DoubleSlap rune // ⊚
	Ghost      rune // · silent slot
	Unknown    rune // ?

	Line     rune // ─ staff line under empty slots
	Playhead rune // ▲ marker under the sounding beat
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Bass:       '●',
			Tone:       '○',
			Slap:       '◌',
			DoubleTone: '◎',
			DoubleSlap: '⊚',
			Ghost:      '·',
			Unknown:    '?',

			Line:     '─',
			Playhead: '▲',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG     = 0.0
	RoleMuted  = 0.3
	RoleFG     = 0.9
	RoleAccent = 0.7
	RoleActive = 1.0

	RoleBass = 0.5
	RoleTone = 0.85
	RoleSlap = 0.65
)

func (t *Theme) BG() lipgloss.Color     { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color     { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color  { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color { return t.Color(RoleActive) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// Note returns the glyph and color for a note symbol
func (t *Theme) Note(symbol string) (rune, RGB) {
	switch rhythm.KindOf(symbol) {
	case rhythm.KindBass:
		return t.Symbols.Bass, t.Palette.Lookup(RoleBass)
	case rhythm.KindTone:
		return t.Symbols.Tone, t.Palette.Lookup(RoleTone)
	case rhythm.KindSlap:
		return t.Symbols.Slap, t.Palette.Lookup(RoleSlap)
	case rhythm.KindDoubleTone:
		return t.Symbols.DoubleTone, t.Palette.Lookup(RoleTone)
	case rhythm.KindDoubleSlap:
		return t.Symbols.DoubleSlap, t.Palette.Lookup(RoleSlap)
	case rhythm.KindGhost:
		return t.Symbols.Ghost, t.Palette.Lookup(RoleMuted)
	}
	return t.Symbols.Unknown, t.Palette.Lookup(RoleMuted)
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
