package midi

import "sort"

// Kit maps sample keys to MIDI notes. Keys follow the sample bank naming:
// "instrument_symbol" first, then the bare symbol as a fallback.
type Kit struct {
	Name  string
	Notes map[string]uint8
}

// Kits contains all available percussion mappings
var Kits = map[string]Kit{
	"gm": {
		Name: "General MIDI",
		Notes: map[string]uint8{
			"djembe_B":      64, // Low Conga
			"djembe_T":      63, // Open High Conga
			"djembe_S":      62, // Mute High Conga
			"djembe_TT":     63,
			"djembe_SS":     62,
			"bell_T":        56, // Cowbell
			"cowbell_T":     56,
			"cowbell-dry_T": 75, // Claves
			"B":             64,
			"T":             63,
			"S":             62,
			"TT":            63,
			"SS":            62,
		},
	},
	"bongo": {
		Name: "GM Bongos",
		Notes: map[string]uint8{
			"djembe_B": 61, // Low Bongo
			"djembe_T": 60, // High Bongo
			"djembe_S": 60,
			"bell_T":   80, // Mute Triangle
			"B":        61,
			"T":        60,
			"S":        60,
			"TT":       60,
			"SS":       60,
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: map[string]uint8{
			"djembe_B": 64, // Low Conga (LC)
			"djembe_T": 63, // High Conga (HC)
			"djembe_S": 37, // Rimshot (RS)
			"bell_T":   56, // Cowbell (CB)
			"B":        64,
			"T":        63,
			"S":        37,
			"TT":       63,
			"SS":       37,
		},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the list of available kit names
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}
