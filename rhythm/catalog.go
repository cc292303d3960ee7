package rhythm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyBeats is returned for a pattern with no beat symbols
var ErrEmptyBeats = errors.New("pattern has no beats")

// Record is a pattern as stored in rhythms.json
type Record struct {
	Name          string `json:"name"`
	Tempo         int    `json:"tempo"`
	TimeSignature string `json:"timeSignature"`
	Instrument    string `json:"instrument,omitempty"`
	VocalPattern  string `json:"vocal_pattern,omitempty"`
	Pattern4      string `json:"pattern4,omitempty"`
	Pattern       string `json:"pattern"`
	Notes         string `json:"notes,omitempty"`
	Hidden        bool   `json:"hidden,omitempty"`
}

type catalogFile struct {
	Rhythms []Record `json:"rhythms"`
}

// Catalog is the ordered list of visible patterns
type Catalog struct {
	Patterns []*Pattern

	// Skipped holds one error per record that could not become a pattern
	Skipped []error
}

// Build makes an immutable Pattern from the record
func (r Record) Build() (*Pattern, error) {
	p, err := NewPattern(r.Name, r.TimeSignature, SplitBeats(r.Pattern))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", r.Name, err)
	}
	p.TempoHint = r.Tempo
	p.Instrument = r.Instrument
	p.VocalPattern = r.VocalPattern
	p.DisplayBeats = r.Pattern4
	p.Notes = r.Notes
	return p, nil
}

// LoadCatalog reads a rhythms.json file
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ReadCatalog decodes a catalog. Hidden records are left out, records with
// duplicate names keep the first occurrence.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, err
	}

	c := &Catalog{}
	seen := make(map[string]bool)
	for _, rec := range file.Rhythms {
		if rec.Hidden {
			continue
		}
		if seen[rec.Name] {
			c.Skipped = append(c.Skipped, fmt.Errorf("pattern %q: duplicate name", rec.Name))
			continue
		}
		p, err := rec.Build()
		if err != nil {
			c.Skipped = append(c.Skipped, err)
			continue
		}
		seen[rec.Name] = true
		c.Patterns = append(c.Patterns, p)
	}
	return c, nil
}

// Find returns the pattern with the given name (nil if absent)
func (c *Catalog) Find(name string) *Pattern {
	for _, p := range c.Patterns {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Names lists pattern names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Patterns))
	for i, p := range c.Patterns {
		names[i] = p.Name
	}
	return names
}
