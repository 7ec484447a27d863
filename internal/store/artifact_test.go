package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.json")

	results := ResultSet{
		"bench/fib.wat": {RefCycles: 123456789, Instructions: 987654321, CPUTime: 42},
		"bench/sha.wat": {RefCycles: math.MaxUint64, Instructions: 0, CPUTime: 1},
	}

	require.NoError(t, WriteArtifact(path, results))

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, results, loaded)
}

func TestArtifactIsHumanReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteArtifact(path, ResultSet{
		"a.wat": {RefCycles: 1, Instructions: 2, CPUTime: 3},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"ref_cycles\": 1")
	assert.Contains(t, string(data), "\n  ")
}

func TestWriteArtifactRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.json")
	require.NoError(t, os.WriteFile(path, []byte("precious baseline"), 0644))

	err := WriteArtifact(path, ResultSet{"a.wat": {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// The prior contents must be untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "precious baseline", string(data))
}

func TestReadArtifactMissing(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadArtifactMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := ReadArtifact(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse artifact")
}
