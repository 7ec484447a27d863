// Package perf wraps Linux hardware performance counters for whole-process
// measurement of spawned commands.
package perf

import "math/bits"

// Reading is one raw counter sample: the event count plus the time the
// counter was enabled and the time it was actually scheduled on the PMU.
// Times are in the kernel's native unit (nanoseconds).
type Reading struct {
	Count       uint64
	TimeEnabled uint64
	TimeRunning uint64
}

// Scale extrapolates a multiplexed counter reading to the full enabled
// window. When the kernel time-shares PMU slots, TimeRunning falls below
// TimeEnabled and the raw count only covers the scheduled fraction.
//
// The intermediate product is computed in 128 bits and the quotient is
// truncated to 64, so counts near the top of the range do not overflow.
// A reading with TimeRunning == 0 means the counter was never scheduled;
// there is no data to extrapolate from, so the scaled count is 0.
func Scale(r Reading) uint64 {
	if r.TimeRunning >= r.TimeEnabled {
		return r.Count
	}
	if r.TimeRunning == 0 {
		return 0
	}
	hi, lo := bits.Mul64(r.Count, r.TimeEnabled)
	quo, _ := bits.Div64(hi%r.TimeRunning, lo, r.TimeRunning)
	return quo
}
