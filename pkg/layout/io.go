package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal serializes a Result to pretty-printed JSON bytes.
func Marshal(r Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Result.
// A layout with no nodes is rejected: every valid computation emits at
// least the root's row.
func Unmarshal(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(r.Nodes) == 0 {
		return Result{}, fmt.Errorf("layout must contain nodes")
	}
	return r, nil
}

// WriteFile writes a Result to a JSON file.
func WriteFile(r Result, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Result from a JSON file.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
