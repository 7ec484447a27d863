// Package compare computes per-file relative differences between two
// recorded result sets.
package compare

import (
	"fmt"
	"math"
	"sort"

	"perfdiff/internal/store"
)

// Delta holds the percentage change of each metric for one file, computed
// as (compared - base) / base * 100 in double precision.
type Delta struct {
	File         string
	RefCycles    float64
	Instructions float64
	CPUTime      float64
}

// Verdict classifies a delta against the neutral threshold band.
type Verdict int

const (
	Neutral Verdict = iota
	Regression
	Improvement
)

// Diff intersects the two result sets and returns one Delta per file
// present in both. Files present on only one side are dropped silently;
// comparing against a baseline with extra or missing entries is routine,
// not an error. Rows are sorted by file key so output is reproducible
// regardless of map iteration or JSON ordering.
func Diff(base, compared store.ResultSet) []Delta {
	keys := make([]string, 0, len(base))
	for key := range base {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	deltas := make([]Delta, 0, len(keys))
	for _, key := range keys {
		comparedMeasure, ok := compared[key]
		if !ok {
			continue
		}
		baseMeasure := base[key]
		deltas = append(deltas, Delta{
			File:         key,
			RefCycles:    RelativeChange(baseMeasure.RefCycles, comparedMeasure.RefCycles),
			Instructions: RelativeChange(baseMeasure.Instructions, comparedMeasure.Instructions),
			CPUTime:      RelativeChange(baseMeasure.CPUTime, comparedMeasure.CPUTime),
		})
	}
	return deltas
}

// RelativeChange returns the percentage change from base to compared. A
// zero base yields +Inf, -Inf or NaN from the float division; callers
// render those through Format, which emits a sentinel instead of
// platform-dependent Inf/NaN text.
func RelativeChange(base, compared uint64) float64 {
	return (float64(compared) - float64(base)) / float64(base) * 100
}

// Classify buckets a delta: above +threshold is a regression, below
// -threshold an improvement, anything else (including non-finite values
// from a zero base) is neutral.
func Classify(diff, threshold float64) Verdict {
	if math.IsNaN(diff) || math.IsInf(diff, 0) {
		return Neutral
	}
	switch {
	case diff > threshold:
		return Regression
	case diff < -threshold:
		return Improvement
	default:
		return Neutral
	}
}

// Format renders a delta with explicit sign and one decimal place. Deltas
// over a zero base are not finite and come out as "n/a".
func Format(diff float64) string {
	if math.IsNaN(diff) || math.IsInf(diff, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", diff)
}
