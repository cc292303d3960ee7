package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/remeh/sizedwaitgroup"

	"go-ritmo/debug"
	"go-ritmo/sequencer"
)

// SampleRate of decoded samples and of the speaker context
const SampleRate = 44100

// bytesPerFrame is 16-bit little endian stereo
const bytesPerFrame = 4

// ErrNoSamples is returned when a directory holds no decodable sample
var ErrNoSamples = errors.New("no samples found")

// Sample is decoded PCM ready for the speaker
type Sample struct {
	name string
	pcm  []byte
	rate int
}

// NewSample wraps raw 16-bit stereo PCM
func NewSample(name string, pcm []byte, sampleRate int) *Sample {
	return &Sample{name: name, pcm: pcm, rate: sampleRate}
}

func (s *Sample) Name() string { return s.name }

// Size is the PCM length in bytes
func (s *Sample) Size() int { return len(s.pcm) }

// Duration of the decoded sound
func (s *Sample) Duration() time.Duration {
	if s.rate == 0 {
		return 0
	}
	frames := len(s.pcm) / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(s.rate)
}

// Bank maps sample keys ("djembe_B", "cowbell_T") to decoded samples
type Bank struct {
	mu      sync.RWMutex
	samples map[string]*Sample
}

func NewBank() *Bank {
	return &Bank{samples: make(map[string]*Sample)}
}

// Add stores a sample under its name, replacing any previous one
func (b *Bank) Add(s *Sample) {
	b.mu.Lock()
	b.samples[s.name] = s
	b.mu.Unlock()
}

// Lookup implements sequencer.SampleBank. A missing key is silence.
func (b *Bank) Lookup(key string) (sequencer.Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.samples[key]
	if !ok {
		return nil, false
	}
	return s, true
}

// Get returns the concrete sample for a key
func (b *Bank) Get(key string) (*Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.samples[key]
	return s, ok
}

// Names lists sample keys sorted
func (b *Bank) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.samples))
	for name := range b.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Size is the total PCM bytes held
func (b *Bank) Size() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var n int64
	for _, s := range b.samples {
		n += int64(len(s.pcm))
	}
	return n
}

// Decode reads a wav or mp3 stream into PCM at sampleRate.
// ext selects the decoder (".wav" or ".mp3").
func Decode(name, ext string, r io.Reader, sampleRate int) (*Sample, error) {
	var stream io.Reader
	switch strings.ToLower(ext) {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, r)
		if err != nil {
			return nil, fmt.Errorf("decode wav %s: %w", name, err)
		}
		stream = s
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, r)
		if err != nil {
			return nil, fmt.Errorf("decode mp3 %s: %w", name, err)
		}
		stream = s
	default:
		return nil, fmt.Errorf("decode %s: unsupported format %q", name, ext)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return NewSample(name, pcm, sampleRate), nil
}

// SupportedExt reports whether a file extension has a decoder
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".wav", ".mp3":
		return true
	}
	return false
}

// LoadBank decodes every wav/mp3 file in dir, keyed by file name without
// extension. Files that fail to decode are skipped and reported in the
// returned error; the bank holds everything that did decode.
func LoadBank(dir string, sampleRate int) (*Bank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sounds dir: %w", err)
	}

	bank := NewBank()
	var (
		errMu sync.Mutex
		errs  []error
	)

	wg := sizedwaitgroup.New(runtime.NumCPU())
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !SupportedExt(ext) {
			continue
		}
		wg.Add()
		go func(fileName, ext string) {
			defer wg.Done()
			s, err := loadFile(filepath.Join(dir, fileName), ext, sampleRate)
			if err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
				return
			}
			bank.Add(s)
		}(e.Name(), ext)
	}
	wg.Wait()

	debug.Log("audio", "loaded %d samples from %s (%d failed)", bank.Len(), dir, len(errs))

	if bank.Len() == 0 {
		errs = append([]error{fmt.Errorf("%s: %w", dir, ErrNoSamples)}, errs...)
	}
	return bank, errors.Join(errs...)
}

func loadFile(path, ext string, sampleRate int) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Decode(name, ext, f, sampleRate)
}
