package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// wavBytes builds a 16-bit stereo PCM wav with the given number of frames
func wavBytes(frames, sampleRate int) []byte {
	data := make([]byte, frames*bytesPerFrame)
	for i := 0; i < frames; i++ {
		v := int16((i % 64) * 256)
		binary.LittleEndian.PutUint16(data[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(data[i*4+2:], uint16(v))
	}

	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }
	buf.WriteString("RIFF")
	w(uint32(36 + len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1)) // PCM
	w(uint16(2)) // channels
	w(uint32(sampleRate))
	w(uint32(sampleRate * bytesPerFrame))
	w(uint16(bytesPerFrame))
	w(uint16(16))
	buf.WriteString("data")
	w(uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func TestBankLookup(t *testing.T) {
	b := NewBank()
	b.Add(NewSample("djembe_B", make([]byte, 400), SampleRate))

	s, ok := b.Lookup("djembe_B")
	if !ok || s.Name() != "djembe_B" {
		t.Fatalf("Lookup = %v, %v", s, ok)
	}
	if _, ok := b.Lookup("djembe_Q"); ok {
		t.Error("missing key should not resolve")
	}
	if b.Len() != 1 || b.Size() != 400 {
		t.Errorf("Len=%d Size=%d", b.Len(), b.Size())
	}
}

func TestSampleDuration(t *testing.T) {
	s := NewSample("x", make([]byte, SampleRate*bytesPerFrame/2), SampleRate)
	if s.Duration() != 500*time.Millisecond {
		t.Errorf("Duration = %v, want 500ms", s.Duration())
	}
}

func TestDecodeWav(t *testing.T) {
	raw := wavBytes(1000, SampleRate)
	s, err := Decode("tone", ".wav", bytes.NewReader(raw), SampleRate)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Size() != 1000*bytesPerFrame {
		t.Errorf("Size = %d, want %d", s.Size(), 1000*bytesPerFrame)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	if _, err := Decode("x", ".ogg", bytes.NewReader(nil), SampleRate); err == nil {
		t.Error("expected error for .ogg")
	}
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("djembe_B.wav", wavBytes(100, SampleRate))
	write("djembe_T.wav", wavBytes(200, SampleRate))
	write("readme.txt", []byte("not audio"))
	write("broken.wav", []byte("RIFFjunk"))

	bank, err := LoadBank(dir, SampleRate)
	if err == nil {
		t.Error("expected an error for broken.wav")
	}
	names := bank.Names()
	if len(names) != 2 || names[0] != "djembe_B" || names[1] != "djembe_T" {
		t.Errorf("names = %v", names)
	}
}

func TestLoadBankEmpty(t *testing.T) {
	_, err := LoadBank(t.TempDir(), SampleRate)
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("err = %v, want ErrNoSamples", err)
	}
}

func TestLoadBankMissingDir(t *testing.T) {
	if _, err := LoadBank(filepath.Join(t.TempDir(), "nope"), SampleRate); err == nil {
		t.Error("expected error")
	}
}
