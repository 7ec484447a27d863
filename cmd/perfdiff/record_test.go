package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfdiff/internal/measure"
	"perfdiff/internal/perf"
	"perfdiff/internal/store"
)

func withFakeCounters(t *testing.T, counters *fakeCounters) {
	t.Helper()
	orig := openCounters
	openCounters = func() (measure.Counters, error) {
		return counters, nil
	}
	t.Cleanup(func() { openCounters = orig })
}

func TestRecordCmdWritesArtifact(t *testing.T) {
	counters := &fakeCounters{
		refCycles:    perf.Reading{Count: 1000, TimeEnabled: 500, TimeRunning: 500},
		instructions: perf.Reading{Count: 2000, TimeEnabled: 500, TimeRunning: 500},
	}
	withFakeCounters(t, counters)

	output := filepath.Join(t.TempDir(), "base.json")
	stdout, err := executeCommand(rootCmd, "record", "true", output, "a.wat", "b.wat")
	require.NoError(t, err)

	assert.Contains(t, stdout, "a.wat")
	assert.Contains(t, stdout, "b.wat")
	assert.Contains(t, stdout, "1000")
	assert.True(t, counters.closed, "counters must be released after the run")

	results, err := store.ReadArtifact(output)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, uint64(1000), results["a.wat"].RefCycles)
	assert.Equal(t, uint64(2000), results["a.wat"].Instructions)
	assert.Equal(t, uint64(500), results["a.wat"].CPUTime)
}

func TestRecordCmdRefusesExistingOutput(t *testing.T) {
	counters := &fakeCounters{}
	withFakeCounters(t, counters)

	output := filepath.Join(t.TempDir(), "base.json")
	require.NoError(t, os.WriteFile(output, []byte("old baseline"), 0644))

	_, err := executeCommand(rootCmd, "record", "true", output, "a.wat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "old baseline", string(data))
}

func TestRecordCmdCounterOpenFailure(t *testing.T) {
	orig := openCounters
	openCounters = func() (measure.Counters, error) {
		return nil, assert.AnError
	}
	t.Cleanup(func() { openCounters = orig })

	output := filepath.Join(t.TempDir(), "base.json")
	_, err := executeCommand(rootCmd, "record", "true", output, "a.wat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open hardware counters")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no artifact may be written after a counter failure")
}

func TestRecordCmdSavesHistory(t *testing.T) {
	counters := &fakeCounters{
		refCycles:    perf.Reading{Count: 300, TimeEnabled: 10, TimeRunning: 10},
		instructions: perf.Reading{Count: 400, TimeEnabled: 10, TimeRunning: 10},
	}
	withFakeCounters(t, counters)

	mock := &mockHistoryStore{}
	origFactory := historyStoreFactory
	historyStoreFactory = func() (store.HistoryStore, error) {
		return mock, nil
	}
	t.Cleanup(func() { historyStoreFactory = origFactory })

	output := filepath.Join(t.TempDir(), "base.json")
	stdout, err := executeCommand(rootCmd, "record", "--history", "true", output, "a.wat", "b.wat")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run recorded in history")

	require.Len(t, mock.runs, 1)
	assert.Equal(t, output, mock.runs[0].Artifact)
	assert.Equal(t, "true", mock.runs[0].Command)
	assert.Equal(t, 2, mock.runs[0].Files)
	assert.Equal(t, int64(600), mock.runs[0].TotalRefCycles)
}

func TestRecordCmdRequiresArgs(t *testing.T) {
	_, err := executeCommand(rootCmd, "record", "true", "out.json")
	assert.Error(t, err)
}
