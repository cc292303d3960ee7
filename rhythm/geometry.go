package rhythm

// DefaultSignature is used for any time signature not in the table
const DefaultSignature = "4/4"

type geometry struct {
	beats     int // subdivisions per full cycle
	signature int // subdivisions per main beat
}

// beatCount is always a multiple of signature
var signatures = map[string]geometry{
	"2/4":  {beats: 8, signature: 4},
	"3/4":  {beats: 12, signature: 3},
	"4/4":  {beats: 16, signature: 4},
	"6/8":  {beats: 12, signature: 3},
	"12/8": {beats: 24, signature: 3},
}

func lookup(timeSignature string) geometry {
	if g, ok := signatures[timeSignature]; ok {
		return g
	}
	return signatures[DefaultSignature]
}

// BeatCount returns the number of subdivision slots in one cycle of the pattern
func BeatCount(p *Pattern) int {
	return lookup(p.TimeSignature).beats
}

// SignatureNumber returns the subdivisions per main beat of the pattern
func SignatureNumber(p *Pattern) int {
	return lookup(p.TimeSignature).signature
}

// KnownSignature reports whether the time signature has its own geometry
func KnownSignature(timeSignature string) bool {
	_, ok := signatures[timeSignature]
	return ok
}

// Signatures lists every supported time signature
func Signatures() []string {
	return []string{"2/4", "3/4", "4/4", "6/8", "12/8"}
}

// IsMeasureStart reports whether a beat index opens a main beat group
func IsMeasureStart(p *Pattern, index int) bool {
	return index%SignatureNumber(p) == 0
}

// MeasureNumber returns the 1-based main beat number for an index
func MeasureNumber(p *Pattern, index int) int {
	return index/SignatureNumber(p) + 1
}

// Placement is a display-only vertical position hint for a note
type Placement int

const (
	PlacementHidden Placement = iota
	PlacementTop
	PlacementMiddle
	PlacementBottom
)

func (p Placement) String() string {
	switch p {
	case PlacementTop:
		return "top"
	case PlacementMiddle:
		return "middle"
	case PlacementBottom:
		return "bottom"
	}
	return "hidden"
}

// VerticalPosition maps a note symbol to its display row
func VerticalPosition(symbol string) Placement {
	switch symbol {
	case Bass:
		return PlacementTop
	case Tone:
		return PlacementMiddle
	case Slap, DoubleSlap:
		return PlacementBottom
	}
	return PlacementHidden
}
