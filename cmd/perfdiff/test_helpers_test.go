package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"perfdiff/internal/perf"
	"perfdiff/internal/store"
)

// fakeCounters stands in for the perf group in command tests.
type fakeCounters struct {
	refCycles    perf.Reading
	instructions perf.Reading
	closed       bool
}

func (f *fakeCounters) Reset() error   { return nil }
func (f *fakeCounters) Disable() error { return nil }
func (f *fakeCounters) Close() error   { f.closed = true; return nil }

func (f *fakeCounters) RefCycles() (perf.Reading, error) {
	return f.refCycles, nil
}

func (f *fakeCounters) Instructions() (perf.Reading, error) {
	return f.instructions, nil
}

// mockHistoryStore records saved runs in memory.
type mockHistoryStore struct {
	runs    []store.Run
	saveErr error
}

func (m *mockHistoryStore) Close() error { return nil }

func (m *mockHistoryStore) SaveRun(run store.Run) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	run.ID = int64(len(m.runs) + 1)
	m.runs = append([]store.Run{run}, m.runs...)
	return nil
}

func (m *mockHistoryStore) RecentRuns(limit int) ([]store.Run, error) {
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}

// executeCommand executes a cobra command and returns its output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	// Mock exit
	oldExit := exit
	exit = func(code int) {
		if code != 0 {
			panic(fmt.Sprintf("exit-%d", code))
		}
	}
	defer func() { exit = oldExit }()
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok && strings.HasPrefix(s, "exit-") {
				// This is an expected exit, don't re-panic
				return
			}
			panic(r)
		}
	}()
	root.SetArgs(args)
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	root.SetIn(bytes.NewBufferString(""))
	err := root.Execute()
	return b.String(), err
}

// resetFlags resets all flags to their default values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
