// Package led stands in for the three-LED post-boot indicator the
// original's boot() drives directly (spec Section 1, "Out of scope" —
// physical indicators; Section 4.5, "post-boot loop"). It exists so the
// boot sequence has somewhere to signal success without the dispatcher
// reaching into hardware directly.
package led

import (
	"context"
	"time"
)

// Indicator toggles a physical or simulated LED.
type Indicator interface {
	On()
	Off()
}

// NullIndicator discards all signals. Used when no physical indicator is
// wired, e.g. in tests and the simulated cmd/component binary.
type NullIndicator struct{}

// On implements Indicator.
func (NullIndicator) On() {}

// Off implements Indicator.
func (NullIndicator) Off() {}

// RunPostBootLoop cycles led1, led2, led3 on and off in sequence until
// ctx is canceled, mirroring the original's boot() idle loop (spec
// Section 4.5, the original's three-LED chase with 500ms steps).
func RunPostBootLoop(ctx context.Context, led1, led2, led3 Indicator, step time.Duration) {
	leds := [3]Indicator{led1, led2, led3}
	sequence := []struct {
		idx int
		on  bool
	}{
		{0, true}, {1, true}, {2, true},
		{0, false}, {1, false}, {2, false},
	}

	i := 0
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			step := sequence[i%len(sequence)]
			if step.on {
				leds[step.idx].On()
			} else {
				leds[step.idx].Off()
			}
			i++
		}
	}
}
