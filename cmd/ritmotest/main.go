package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"go-ritmo/audio"
	"go-ritmo/config"
	"go-ritmo/midi"
	"go-ritmo/rhythm"
	"go-ritmo/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
		cfg = config.DefaultConfig()
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "kits":
		listKits()
	case "samples":
		listSamples(cfg.SoundsDir)
	case "patterns":
		listPatterns(cfg.CatalogPath)
	case "play":
		if len(os.Args) < 3 {
			usage()
			return
		}
		playKey(cfg, os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Ritmo Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list        - List MIDI output ports")
	fmt.Println("  kits        - List MIDI drum kits")
	fmt.Println("  samples     - Decode the sounds dir and list samples")
	fmt.Println("  patterns    - Load the catalog and list patterns")
	fmt.Println("  play <key>  - Play one sample key (e.g. djembe_B) on the configured output")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.OutPortNames()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, n := range names {
		fmt.Printf("  %d: %s\n", i, n)
	}
	midi.Close()
}

func listKits() {
	for _, name := range midi.KitNames() {
		kit := midi.GetKit(name)
		fmt.Printf("%s (%d notes)\n", name, len(kit.Notes))
	}
}

func listSamples(dir string) {
	start := time.Now()
	bank, err := audio.LoadBank(dir, audio.SampleRate)
	if err != nil {
		log.Printf("load: %v", err)
	}
	if bank == nil {
		return
	}
	for _, name := range bank.Names() {
		s, _ := bank.Get(name)
		fmt.Printf("  %-24s %8s  %v\n", name, humanize.Bytes(uint64(s.Size())), s.Duration().Round(time.Millisecond))
	}
	fmt.Printf("%d samples, %s, decoded in %v\n", bank.Len(), humanize.Bytes(uint64(bank.Size())), time.Since(start).Round(time.Millisecond))
}

func listPatterns(path string) {
	cat, err := rhythm.LoadCatalog(path)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	for _, p := range cat.Patterns {
		fmt.Printf("  %-20s %-5s %3d beats  %s\n", p.Name, p.TimeSignature, rhythm.BeatCount(p), p.VocalPattern)
	}
	for _, err := range cat.Skipped {
		fmt.Printf("  skipped: %v\n", err)
	}
}

func playKey(cfg *config.Config, key string) {
	var (
		bank sequencer.SampleBank
		sink sequencer.Sink
		wait = 500 * time.Millisecond
	)

	if cfg.Output == config.OutputMIDI {
		out, err := midi.OpenOutput(cfg.MIDI.PortName, cfg.MIDI.Channel, cfg.MIDI.Kit)
		if err != nil {
			log.Fatalf("midi: %v", err)
		}
		defer midi.Close()
		bank, sink = out, out
		wait = 2 * midi.DefaultGate
	} else {
		b, err := audio.LoadBank(cfg.SoundsDir, audio.SampleRate)
		if b == nil || b.Len() == 0 {
			log.Fatalf("samples: %v", err)
		}
		if s, ok := b.Get(key); ok {
			wait = s.Duration() + 100*time.Millisecond
		}
		speaker := audio.NewSpeaker(audio.SampleRate)
		defer speaker.Close()
		bank, sink = b, speaker
	}

	s, ok := bank.Lookup(key)
	if !ok {
		log.Fatalf("no sample for %q", key)
	}
	fmt.Printf("playing %s\n", s.Name())
	sink.Play(s)
	time.Sleep(wait)
}
