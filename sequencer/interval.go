package sequencer

import "time"

// SwingCurve selects how strongly the swing ratio stretches offbeats
type SwingCurve int

const (
	// SwingUndivided delays an offbeat by a full quarter note times (ratio-1)
	SwingUndivided SwingCurve = iota
	// SwingSoftened divides the undivided delay by swingSoftening
	SwingSoftened
)

const swingSoftening = 3

// ActiveSwingCurve is the curve the Scheduler uses. It is fixed at build time.
const ActiveSwingCurve = SwingSoftened

// msPerMinute is the numerator of every tempo formula
const msPerMinute = 60000.0

// BaseInterval is the unswung gap between two subdivisions
func BaseInterval(tempo, signature int) time.Duration {
	return millis(baseMillis(tempo, signature))
}

// SwingDelay is the extra (or, below 1.0, reduced) gap after an offbeat index
func SwingDelay(curve SwingCurve, tempo int, swing float64, index int) time.Duration {
	return millis(swingMillis(curve, tempo, swing, index))
}

// Interval is the delay between firing beat index and firing the next one
func Interval(curve SwingCurve, tempo int, swing float64, signature, index int) time.Duration {
	return millis(baseMillis(tempo, signature) + swingMillis(curve, tempo, swing, index))
}

func baseMillis(tempo, signature int) float64 {
	return msPerMinute / float64(tempo) / float64(signature)
}

func swingMillis(curve SwingCurve, tempo int, swing float64, index int) float64 {
	if index%2 == 0 {
		return 0
	}
	d := msPerMinute / float64(tempo) * (swing - 1)
	if curve == SwingSoftened {
		d /= swingSoftening
	}
	return d
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
