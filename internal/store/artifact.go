// Package store persists recording results: the JSON artifact one run
// produces and the optional sqlite history of past runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Measure holds the scaled counter values for one input file.
type Measure struct {
	RefCycles    uint64 `json:"ref_cycles"`
	Instructions uint64 `json:"instructions"`
	CPUTime      uint64 `json:"cpu_time"`
}

// ResultSet maps an input file path to its measurement. One recording run
// produces exactly one ResultSet; once written it is never modified.
type ResultSet map[string]Measure

// WriteArtifact serializes a result set to path as pretty-printed JSON.
// Creation is exclusive: an existing file at path is an error, never an
// overwrite, so a prior baseline cannot be clobbered by a typo.
func WriteArtifact(path string, results ResultSet) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("output file %s already exists, refusing to overwrite", path)
		}
		return fmt.Errorf("create artifact: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		f.Close()
		return fmt.Errorf("encode results: %w", err)
	}
	data = append(data, '\n')

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return f.Close()
}

// ReadArtifact loads a previously written result set. Missing files and
// malformed JSON are both fatal for the caller.
func ReadArtifact(path string) (ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var results ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return results, nil
}
