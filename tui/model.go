package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"

	"go-ritmo/rhythm"
	"go-ritmo/sequencer"
	"go-ritmo/theme"
	"go-ritmo/widgets"
)

const (
	tempoStep = 5
	swingStep = 0.05
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

var keys = []widgets.KeyBinding{
	{Key: "j/k", Desc: "move"},
	{Key: "space", Desc: "activate"},
	{Key: "p", Desc: "play"},
	{Key: "+/-", Desc: "tempo"},
	{Key: "[/]", Desc: "swing"},
	{Key: "0", Desc: "straight"},
	{Key: "q", Desc: "quit"},
}

type Model struct {
	Transport *sequencer.Transport
	Catalog   *rhythm.Catalog
	Theme     *theme.Theme
	Output    string // backend description for the header

	cursor   int
	status   string
	quitting bool
}

type UpdateMsg struct{}

func NewModel(transport *sequencer.Transport, catalog *rhythm.Catalog, th *theme.Theme) Model {
	return Model{
		Transport: transport,
		Catalog:   catalog,
		Theme:     th,
	}
}

func ListenForUpdates(transport *sequencer.Transport) tea.Cmd {
	return func() tea.Msg {
		<-transport.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Transport)
}

// Cursor is the highlighted catalog row
func (m Model) Cursor() int { return m.cursor }

// Status is the last transient message (rejected actions etc.)
func (m Model) Status() string { return m.status }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Transport.StopAll()
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.Catalog.Patterns)-1 {
				m.cursor++
			}

		case " ", "enter":
			m.toggleSelected()

		case "p":
			m.Transport.Toggle()
			if !m.Transport.Playing() && len(m.Transport.Active()) == 0 {
				m.status = "select a pattern first"
			}

		case "+", "=":
			m.Transport.SetTempo(m.Transport.Tempo() + tempoStep)

		case "-", "_":
			m.Transport.SetTempo(m.Transport.Tempo() - tempoStep)

		case "]":
			m.Transport.SetSwing(m.Transport.Swing() + swingStep)

		case "[":
			m.Transport.SetSwing(m.Transport.Swing() - swingStep)

		case "0":
			m.Transport.SetSwing(sequencer.NoSwing)
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Transport)
	}

	return m, nil
}

func (m *Model) toggleSelected() {
	if len(m.Catalog.Patterns) == 0 {
		return
	}
	p := m.Catalog.Patterns[m.cursor]
	was := m.Transport.IsActive(p.Name)
	m.Transport.AdoptTempoHint(p)
	now := m.Transport.ToggleActivation(p)
	if !was && !now {
		m.status = fmt.Sprintf("at most %d patterns at once", m.Transport.Capacity())
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Transport.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.Active()).Bold(true)

	playState := "STOP"
	if snap.Playing {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("ritmo  %s  %3dbpm  swing %.2f  %s",
		playState, snap.Tempo, snap.Swing, formatElapsed(snap.Elapsed)))
	if m.Output != "" {
		header += dimStyle.Render("  " + m.Output)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	// Catalog list
	for i, p := range m.Catalog.Patterns {
		mark := "  "
		if m.Transport.IsActive(p.Name) {
			mark = "● "
		}
		line := fmt.Sprintf("%s%-20s %-5s", mark, p.Name, p.TimeSignature)
		if p.TempoHint > 0 {
			line += fmt.Sprintf(" %dbpm", p.TempoHint)
		}
		switch {
		case i == m.cursor:
			out.WriteString(selStyle.Render("> " + line))
		default:
			out.WriteString(fgStyle.Render("  " + line))
		}
		out.WriteString("\n")
	}

	// Grids for active patterns
	for _, ps := range snap.Patterns {
		out.WriteString("\n")
		title := fmt.Sprintf("%s (%s)", ps.Pattern.Name, ps.Pattern.TimeSignature)
		if ps.Pattern.VocalPattern != "" {
			title += "  " + ps.Pattern.VocalPattern
		}
		out.WriteString(headerStyle.Render(title))
		out.WriteString("\n")
		out.WriteString(fgStyle.Render(ps.Pattern.Notation()))
		out.WriteString("\n")
		if ps.Pattern.Notes != "" {
			out.WriteString(dimStyle.Render(ps.Pattern.Notes))
			out.WriteString("\n")
		}
		out.WriteString(widgets.BeatGrid{
			Pattern: ps.Pattern,
			Theme:   m.Theme,
			Current: ps.Index,
			Armed:   ps.Armed,
		}.View())
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyLine(keys)))
	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(fgStyle.Render(m.status))
	}

	return out.String()
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits)
}
