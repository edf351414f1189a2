package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rezonia/facturx/internal/builder"
)

// loadRecord reads a business-record JSON file into the builder's
// record shape.
func loadRecord(path string) (builder.Record, error) {
	var rec builder.Record

	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("failed to read invoice file: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to parse invoice file %s: %w", path, err)
	}
	return rec, nil
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
