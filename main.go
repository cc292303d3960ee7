package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"go-ritmo/audio"
	"go-ritmo/config"
	"go-ritmo/debug"
	"go-ritmo/mcpserver"
	"go-ritmo/midi"
	"go-ritmo/rhythm"
	"go-ritmo/sequencer"
	"go-ritmo/theme"
	"go-ritmo/tui"
)

func main() {
	cfg, err := config.Load()
	keepConfig := err == nil
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
		cfg = config.DefaultConfig()
	}

	if cfg.Debug || os.Getenv("RITMO_DEBUG") == "1" {
		if err := debug.Enable(); err != nil {
			log.Printf("debug log: %v", err)
		}
		defer debug.Disable()
	}

	catalog, err := rhythm.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load patterns: %v", err)
	}
	for _, skipped := range catalog.Skipped {
		debug.Log("catalog", "skipped: %v", skipped)
	}

	state := sequencer.NewState()
	state.SetTempo(cfg.Tempo)
	state.SetSwing(cfg.Swing)
	sched := sequencer.NewScheduler(state, nil)
	transport := sequencer.NewTransport(sched)

	output, closer, err := openOutput(cfg, sched)
	if err != nil {
		// Keep going: the UI still shows patterns, start is a no-op until audio is ready
		log.Printf("audio: %v", err)
		output = "no audio"
	}
	defer closer()

	for _, p := range catalog.Patterns {
		if cfg.IsActive(p.Name) {
			transport.ToggleActivation(p)
		}
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "mcp":
			if err := mcpserver.Serve(mcpserver.NewTools(transport, catalog)); err != nil {
				log.Printf("Server error: %v", err)
			}
			transport.StopAll()
			return
		default:
			log.Fatalf("unknown command %q", os.Args[1])
		}
	}

	th := theme.New(theme.LoadOrDefault(cfg.Palette))
	m := tui.NewModel(transport, catalog, th)
	m.Output = output
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	transport.StopAll()
	if !keepConfig {
		// don't overwrite a file we couldn't parse
		return
	}
	cfg.Tempo = transport.Tempo()
	cfg.Swing = transport.Swing()
	cfg.Active = cfg.Active[:0]
	for _, p := range transport.Active() {
		cfg.Active = append(cfg.Active, p.Name)
	}
	if err := cfg.Save(); err != nil {
		log.Printf("save config: %v", err)
	}
}

// openOutput wires the configured backend into the scheduler and returns a
// header label plus a cleanup func (never nil)
func openOutput(cfg *config.Config, sched *sequencer.Scheduler) (string, func(), error) {
	switch cfg.Output {
	case config.OutputMIDI:
		out, err := midi.OpenOutput(cfg.MIDI.PortName, cfg.MIDI.Channel, cfg.MIDI.Kit)
		if err != nil {
			return "", midi.Close, err
		}
		if cfg.MIDI.Velocity > 0 {
			out.SetVelocity(uint8(cfg.MIDI.Velocity))
		}
		sched.SetAudio(out, out)
		return fmt.Sprintf("midi ch%d kit %s", cfg.MIDI.Channel, cfg.MIDI.Kit), midi.Close, nil

	default:
		bank, err := audio.LoadBank(cfg.SoundsDir, audio.SampleRate)
		if err != nil {
			debug.Log("audio", "load %s: %v", cfg.SoundsDir, err)
			if errors.Is(err, audio.ErrNoSamples) || bank == nil {
				return "", func() {}, err
			}
			// partial bank: some files failed, play what decoded
			log.Printf("samples: %v", err)
		}
		speaker := audio.NewSpeaker(audio.SampleRate)
		speaker.SetVolume(cfg.Volume)
		sched.SetAudio(speaker, bank)
		label := fmt.Sprintf("%d samples %s", bank.Len(), humanize.Bytes(uint64(bank.Size())))
		return label, speaker.Close, nil
	}
}
