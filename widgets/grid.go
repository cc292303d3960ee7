package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-ritmo/rhythm"
	"go-ritmo/theme"
)

// GridRow is one line of a rendered beat grid
type GridRow int

const (
	RowMeasure GridRow = iota
	RowTop
	RowMiddle
	RowBottom
	RowPlayhead
)

// BeatGrid renders one pattern as a staff: measure numbers, one row per
// placement (bass on top, tones in the middle, slaps at the bottom) and a
// playhead marker under the sounding beat.
type BeatGrid struct {
	Pattern *rhythm.Pattern
	Theme   *theme.Theme
	Current int  // sounding beat
	Armed   bool // draw the playhead
}

// Cells returns the plain (unstyled) glyphs for every row, one rune per beat
func (g BeatGrid) Cells() [5][]rune {
	n := rhythm.BeatCount(g.Pattern)
	sym := g.Theme.Symbols

	var rows [5][]rune
	for r := range rows {
		rows[r] = make([]rune, n)
		for i := range rows[r] {
			rows[r][i] = ' '
		}
	}

	for i := 0; i < n; i++ {
		if rhythm.IsMeasureStart(g.Pattern, i) {
			rows[RowMeasure][i] = '|'
		}

		note := g.Pattern.SymbolAt(i)
		glyph, _ := g.Theme.Note(note)
		for r := RowTop; r <= RowBottom; r++ {
			rows[r][i] = sym.Line
		}
		switch rhythm.VerticalPosition(note) {
		case rhythm.PlacementTop:
			rows[RowTop][i] = glyph
		case rhythm.PlacementMiddle:
			rows[RowMiddle][i] = glyph
		case rhythm.PlacementBottom:
			rows[RowBottom][i] = glyph
		}

		if g.Armed && i == g.Current {
			rows[RowPlayhead][i] = sym.Playhead
		}
	}
	return rows
}

// View renders the grid with theme colors
func (g BeatGrid) View() string {
	n := rhythm.BeatCount(g.Pattern)
	rows := g.Cells()
	line := lipgloss.NewStyle().Foreground(g.Theme.Muted())
	mark := lipgloss.NewStyle().Foreground(g.Theme.Accent())
	active := lipgloss.NewStyle().Foreground(g.Theme.Active()).Bold(true)

	var lines []string
	for r := RowMeasure; r <= RowPlayhead; r++ {
		var out strings.Builder
		for i := 0; i < n; i++ {
			c := rows[r][i]
			switch {
			case r == RowMeasure && c == '|':
				out.WriteString(mark.Render(fmt.Sprint(rhythm.MeasureNumber(g.Pattern, i))))
			case r == RowPlayhead:
				out.WriteString(active.Render(string(c)))
			case c == g.Theme.Symbols.Line:
				out.WriteString(line.Render(string(c)))
			case r >= RowTop && r <= RowBottom:
				_, rgb := g.Theme.Note(g.Pattern.SymbolAt(i))
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(rgb)))
				if g.Armed && i == g.Current {
					style = active
				}
				out.WriteString(style.Render(string(c)))
			default:
				out.WriteRune(c)
			}
			if i < n-1 {
				out.WriteString(" ")
			}
		}
		lines = append(lines, out.String())
	}
	return strings.Join(lines, "\n")
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
