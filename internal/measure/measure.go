// Package measure runs an external command once per input file under
// hardware counters and collects scaled measurements.
package measure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"perfdiff/internal/perf"
	"perfdiff/internal/store"
)

// execCommand allows mocking the spawned process in tests.
var execCommand = exec.Command

// Counters is the slice of the perf group the recording loop needs. The
// counters live for the whole run; Reset/Disable mark the per-file
// boundaries.
type Counters interface {
	Reset() error
	Disable() error
	RefCycles() (perf.Reading, error)
	Instructions() (perf.Reading, error)
	Close() error
}

// Record measures the command template once per input file and returns
// the result set keyed by file path.
//
// The template is split quote-aware; the first word is the executable,
// the rest are fixed leading arguments, and each input file is appended
// as the final argument of its run. Runs are strictly sequential since
// concurrent children would share the counters.
//
// A non-zero exit status from the measured command is recorded like a
// success (with a warning logged); failure to spawn at all, and any
// counter reset/disable/read error, aborts the whole run.
func Record(counters Counters, template string, inputs []string) (store.ResultSet, error) {
	words, err := shellquote.Split(template)
	if err != nil {
		return nil, fmt.Errorf("invalid command template %q: %w", template, err)
	}
	if len(words) == 0 {
		return nil, errors.New("empty command template")
	}

	results := make(store.ResultSet, len(inputs))
	for _, input := range inputs {
		args := append(append([]string(nil), words[1:]...), input)
		cmd := execCommand(words[0], args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		// Counters must be zeroed before the child starts; enable-on-exec
		// takes care of starting them at the right instant.
		if err := counters.Reset(); err != nil {
			return nil, err
		}

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, fmt.Errorf("run %q on %s: %w", template, input, err)
			}
			// The command ran and exited non-zero. The counters still hold a
			// valid measurement of whatever it did, so keep it.
			slog.Warn("measured command exited non-zero",
				"input", input, "exit_code", exitErr.ExitCode())
		}

		if err := counters.Disable(); err != nil {
			return nil, err
		}

		refCycles, err := counters.RefCycles()
		if err != nil {
			return nil, err
		}
		instructions, err := counters.Instructions()
		if err != nil {
			return nil, err
		}

		measure := store.Measure{
			RefCycles:    perf.Scale(refCycles),
			Instructions: perf.Scale(instructions),
			CPUTime:      refCycles.TimeEnabled,
		}
		results[input] = measure
		slog.Debug("measured input",
			"input", input,
			"ref_cycles", measure.RefCycles,
			"instructions", measure.Instructions,
			"cpu_time", measure.CPUTime)
	}
	return results, nil
}
