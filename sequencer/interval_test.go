package sequencer

import (
	"testing"
	"time"
)

func TestIntervalAlwaysPositive(t *testing.T) {
	for _, curve := range []SwingCurve{SwingUndivided, SwingSoftened} {
		for tempo := MinTempo; tempo <= MaxTempo; tempo++ {
			for swing := MinSwing; swing <= MaxSwing+1e-9; swing += 0.05 {
				for _, sig := range []int{3, 4} {
					for idx := 0; idx < 2; idx++ {
						if d := Interval(curve, tempo, swing, sig, idx); d <= 0 {
							t.Fatalf("curve=%d tempo=%d swing=%.2f sig=%d idx=%d: interval %v", curve, tempo, swing, sig, idx, d)
						}
					}
				}
			}
		}
	}
}

func TestIntervalNoSwingIsUniform(t *testing.T) {
	for _, curve := range []SwingCurve{SwingUndivided, SwingSoftened} {
		first := Interval(curve, 97, NoSwing, 4, 0)
		for idx := 1; idx < 16; idx++ {
			if d := Interval(curve, 97, NoSwing, 4, idx); d != first {
				t.Errorf("curve %d idx %d: %v != %v", curve, idx, d, first)
			}
		}
	}
}

func TestBaseInterval(t *testing.T) {
	tests := []struct {
		tempo, sig int
		want       time.Duration
	}{
		{80, 4, 187500 * time.Microsecond},
		{80, 3, 250 * time.Millisecond},
		{120, 4, 125 * time.Millisecond},
		{300, 4, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := BaseInterval(tt.tempo, tt.sig); got != tt.want {
			t.Errorf("BaseInterval(%d, %d) = %v, want %v", tt.tempo, tt.sig, got, tt.want)
		}
	}
}

func TestSwingDelayCurves(t *testing.T) {
	// 60000/120 * 0.5 = 250ms undivided
	if got := SwingDelay(SwingUndivided, 120, 1.5, 1); got != 250*time.Millisecond {
		t.Errorf("undivided = %v, want 250ms", got)
	}
	soft := SwingDelay(SwingSoftened, 120, 1.5, 1)
	if soft < 83*time.Millisecond || soft > 84*time.Millisecond {
		t.Errorf("softened = %v, want ~83.3ms", soft)
	}
	if got := SwingDelay(SwingUndivided, 120, 1.5, 2); got != 0 {
		t.Errorf("onbeat swing = %v, want 0", got)
	}
	if got := SwingDelay(SwingUndivided, 120, 0.8, 3); got >= 0 {
		t.Errorf("swing below 1 should shorten offbeats, got %v", got)
	}
	for _, curve := range []SwingCurve{SwingUndivided, SwingSoftened} {
		if got := SwingDelay(curve, 120, NoSwing, 1); got != 0 {
			t.Errorf("curve %d: no-swing delay = %v", curve, got)
		}
	}
}

func TestIntervalSumsBaseAndSwing(t *testing.T) {
	got := Interval(SwingUndivided, 120, 1.5, 4, 1)
	want := 125*time.Millisecond + 250*time.Millisecond
	if got != want {
		t.Errorf("Interval = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	if ClampTempo(10) != MinTempo || ClampTempo(1000) != MaxTempo || ClampTempo(100) != 100 {
		t.Error("ClampTempo out of range handling")
	}
	if ClampSwing(0.1) != MinSwing || ClampSwing(9) != MaxSwing || ClampSwing(1.2) != 1.2 {
		t.Error("ClampSwing out of range handling")
	}
}
