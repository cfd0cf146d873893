package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ReadJSON decodes a nested labeled tree from r.
//
// The input must be a JSON object with a "text" field and an optional
// "children" array of the same shape:
//
//	{
//	  "text": "root",
//	  "children": [{"text": "leaf"}]
//	}
//
// A missing children field is equivalent to an empty one. ReadJSON does
// not close r.
func ReadJSON(r io.Reader) (Node, error) {
	var n Node
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return Node{}, fmt.Errorf("decode: %w", err)
	}
	return n, nil
}

// ReadTOML decodes a nested labeled tree from TOML data. Children are
// expressed as [[children]] array-of-tables blocks.
func ReadTOML(r io.Reader) (Node, error) {
	var n Node
	if _, err := toml.NewDecoder(r).Decode(&n); err != nil {
		return Node{}, fmt.Errorf("decode: %w", err)
	}
	return n, nil
}

// ReadFile reads a tree from a file, choosing the decoder by extension:
// .toml uses TOML, everything else is treated as JSON.
func ReadFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return Node{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadTOML(f)
	}
	return ReadJSON(f)
}

// WriteJSON encodes the tree as indented JSON to w.
// The output round-trips through [ReadJSON].
func WriteJSON(root Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the tree as JSON to a file created with 0644 permissions.
func WriteFile(root Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(root, f)
}
