package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Decode parses and validates a catalog document.
func Decode(raw []byte) (*Catalog, error) {
	if err := ValidateJSON(raw); err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads and validates the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// File is a Source that re-reads a JSON catalog from disk on every call, so
// a reload picks up edits made since the last one.
type File struct {
	Path string
}

var _ Source = File{}

// NewFile creates a File source for path.
func NewFile(path string) File {
	return File{Path: path}
}

func (f File) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := LoadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}

func (f File) Scenarios(ctx context.Context) ([]Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := LoadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return c.Scenarios, nil
}
