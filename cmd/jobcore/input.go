package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/jobcore"
)

// readInput reads path, or stdin when path is "-".
func readInput(deps *Dependencies, path string) (string, error) {
	if path == "-" {
		if deps.Stdin == nil {
			return "", jobcore.Errorf(jobcore.EINVALID, "no stdin available")
		}
		b, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", jobcore.Errorf(jobcore.EINVALID, "cannot read %s: %v", path, err)
	}
	return string(b), nil
}

// readRecords decodes a JSON array of records or a single record.
func readRecords(deps *Dependencies, path string) ([]jobcore.JobRecord, error) {
	data, err := readInput(deps, path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rec jobcore.JobRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, jobcore.Errorf(jobcore.EINVALID, "malformed record in %s: %v", path, err)
		}
		return []jobcore.JobRecord{rec}, nil
	}
	var recs []jobcore.JobRecord
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, jobcore.Errorf(jobcore.EINVALID, "malformed records in %s: %v", path, err)
	}
	return recs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", jobcore.ErrorMessage(err))
	return err
}
