// Package ui renders recording summaries and comparison reports as
// bordered terminal tables.
package ui

import (
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"perfdiff/internal/compare"
	"perfdiff/internal/store"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

// RenderSummary renders the per-file measurements of one recording run,
// sorted by file key.
func RenderSummary(results store.ResultSet) string {
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t := newTable("File", "Ref-cycles", "Instructions", "CPU Time (ms)")
	for _, key := range keys {
		meas := results[key]
		t.Row(key,
			strconv.FormatUint(meas.RefCycles, 10),
			strconv.FormatUint(meas.Instructions, 10),
			strconv.FormatUint(meas.CPUTime, 10))
	}
	return t.Render()
}

// RenderComparison renders the delta report. Deltas above +threshold are
// colored as regressions, below -threshold as improvements.
func RenderComparison(deltas []compare.Delta, threshold float64) string {
	t := newTable("File", "Ref-cycles", "Instructions", "CPU Time (ms)")
	for _, d := range deltas {
		t.Row(d.File,
			deltaCell(d.RefCycles, threshold),
			deltaCell(d.Instructions, threshold),
			deltaCell(d.CPUTime, threshold))
	}
	return t.Render()
}

func deltaCell(diff, threshold float64) string {
	text := compare.Format(diff)
	if !colorEnabled {
		return text
	}
	switch compare.Classify(diff, threshold) {
	case compare.Regression:
		return regressionStyle.Render(text)
	case compare.Improvement:
		return improvementStyle.Render(text)
	default:
		return text
	}
}
