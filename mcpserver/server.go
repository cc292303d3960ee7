package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hako/durafmt"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"go-ritmo/rhythm"
	"go-ritmo/sequencer"
)

// Tools exposes the transport to an MCP client
type Tools struct {
	transport *sequencer.Transport
	catalog   *rhythm.Catalog
}

func NewTools(transport *sequencer.Transport, catalog *rhythm.Catalog) *Tools {
	return &Tools{transport: transport, catalog: catalog}
}

// PatternInfo is one catalog entry as reported by list-patterns
type PatternInfo struct {
	Name          string `json:"name"`
	TimeSignature string `json:"timeSignature"`
	Beats         int    `json:"beats"`
	Tempo         int    `json:"tempo,omitempty"`
	Active        bool   `json:"active"`
}

// Status is the transport state as reported by status
type Status struct {
	Playing  bool           `json:"playing"`
	Tempo    int            `json:"tempo"`
	Swing    float64        `json:"swing"`
	Elapsed  string         `json:"elapsed"`
	Patterns []PatternBeats `json:"patterns"`
}

type PatternBeats struct {
	Name  string `json:"name"`
	Beat  int    `json:"beat"`
	Armed bool   `json:"armed"`
}

// NewServer registers every tool on a fresh MCP server
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(
		"Ritmo MCP",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("ritmo_list-patterns",
		mcp.WithDescription("Lists the percussion patterns in the catalog and whether each is active."),
	), t.ListPatterns)

	s.AddTool(mcp.NewTool("ritmo_toggle-pattern",
		mcp.WithDescription("Activates or deactivates a pattern by name. At most three patterns can be active."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Pattern name as returned by ritmo_list-patterns.")),
	), t.TogglePattern)

	s.AddTool(mcp.NewTool("ritmo_start",
		mcp.WithDescription("Starts playback of every active pattern."),
	), t.Start)

	s.AddTool(mcp.NewTool("ritmo_stop",
		mcp.WithDescription("Stops playback."),
	), t.Stop)

	s.AddTool(mcp.NewTool("ritmo_set-tempo",
		mcp.WithDescription("Sets the tempo in beats per minute."),
		mcp.WithNumber("bpm", mcp.Required(), mcp.Description(fmt.Sprintf("Tempo (%d-%d).", sequencer.MinTempo, sequencer.MaxTempo))),
	), t.SetTempo)

	s.AddTool(mcp.NewTool("ritmo_set-swing",
		mcp.WithDescription("Sets the swing ratio applied to off-beats. 1.0 is straight."),
		mcp.WithNumber("ratio", mcp.Required(), mcp.Description(fmt.Sprintf("Swing ratio (%.1f-%.1f).", sequencer.MinSwing, sequencer.MaxSwing))),
	), t.SetSwing)

	s.AddTool(mcp.NewTool("ritmo_status",
		mcp.WithDescription("Reports play state, tempo, swing, elapsed time and the current beat of each active pattern."),
	), t.Status)

	return s
}

// Serve runs the MCP server on stdin/stdout until the client disconnects
func Serve(t *Tools) error {
	log.Println("Starting Ritmo MCP server...")
	return server.ServeStdio(NewServer(t))
}

func (t *Tools) ListPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling list patterns request.")

	infos := make([]PatternInfo, 0, len(t.catalog.Patterns))
	for _, p := range t.catalog.Patterns {
		infos = append(infos, PatternInfo{
			Name:          p.Name,
			TimeSignature: p.TimeSignature,
			Beats:         rhythm.BeatCount(p),
			Tempo:         p.TempoHint,
			Active:        t.transport.IsActive(p.Name),
		})
	}
	return jsonResult(infos)
}

func (t *Tools) TogglePattern(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Println("[mcp] Toggling pattern", name)

	p := t.catalog.Find(name)
	if p == nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown pattern %q", name)), nil
	}

	was := t.transport.IsActive(name)
	t.transport.AdoptTempoHint(p)
	if t.transport.ToggleActivation(p) {
		return mcp.NewToolResultText(fmt.Sprintf("%s activated.", name)), nil
	}
	if !was {
		return mcp.NewToolResultError(fmt.Sprintf("cannot activate %s: %d patterns already active", name, t.transport.Capacity())), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s deactivated.", name)), nil
}

func (t *Tools) Start(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Starting playback.")
	if !t.transport.StartAll() {
		if len(t.transport.Active()) == 0 {
			return mcp.NewToolResultError("no active patterns"), nil
		}
		return mcp.NewToolResultError("audio output is not ready"), nil
	}
	return mcp.NewToolResultText("Playing."), nil
}

func (t *Tools) Stop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Stopping playback.")
	t.transport.StopAll()
	return mcp.NewToolResultText("Stopped."), nil
}

func (t *Tools) SetTempo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bpm, err := request.RequireInt("bpm")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	got := t.transport.SetTempo(bpm)
	return mcp.NewToolResultText(fmt.Sprintf("Tempo %d bpm.", got)), nil
}

func (t *Tools) SetSwing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ratio, err := request.RequireFloat("ratio")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	got := t.transport.SetSwing(ratio)
	return mcp.NewToolResultText(fmt.Sprintf("Swing %.2f.", got)), nil
}

func (t *Tools) Status(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := t.transport.Snapshot()
	st := Status{
		Playing:  snap.Playing,
		Tempo:    snap.Tempo,
		Swing:    snap.Swing,
		Elapsed:  durafmt.Parse(snap.Elapsed.Truncate(time.Second)).String(),
		Patterns: []PatternBeats{},
	}
	for _, ps := range snap.Patterns {
		st.Patterns = append(st.Patterns, PatternBeats{
			Name:  ps.Pattern.Name,
			Beat:  ps.Index,
			Armed: ps.Armed,
		})
	}
	return jsonResult(st)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	asJson, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result to JSON: %v", err)
	}
	return mcp.NewToolResultText(string(asJson)), nil
}
