package queryir

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDescriptor reads and parses a query descriptor YAML file.
// Unknown fields are rejected to catch typos (e.g. "fetchplan:" vs
// "fetchPlan:").
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	return ParseDescriptor(data)
}

// ParseDescriptor parses a query descriptor from YAML bytes.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var desc Descriptor
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if desc.Table == "" {
		return nil, fmt.Errorf("invalid descriptor: table is required")
	}

	return &desc, nil
}
