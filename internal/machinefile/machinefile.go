// Package machinefile decodes and validates native/cross machine files
// a TOML document describing the binaries and properties of
// the machine a build targets. project()'s compiler-detection step
// consults Machine.Binaries before falling back to CC/CXX/AR.
package machinefile

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/pelletier/go-toml/v2"
)

// SystemTuple names one side of a cross file's host/target split.
type SystemTuple struct {
	System    string `toml:"system"`
	CPU       string `toml:"cpu"`
	CPUFamily string `toml:"cpu_family"`
	Endian    string `toml:"endian"`
}

// Machine is the parsed and validated contents of one native or cross
// machine file. Host and Target are nil for a native file.
type Machine struct {
	Binaries   map[string]string `toml:"binaries"`
	Properties map[string]any    `toml:"properties"`
	Host       *SystemTuple      `toml:"host_machine"`
	Target     *SystemTuple      `toml:"target_machine"`
}

// schema rejects machine files whose [binaries] table holds anything but
// strings, and whose host/target tuples are missing the "system" or
// "cpu_family" field required to classify the machine.
var schema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"binaries": {
			Type:                 "object",
			AdditionalProperties: &jsonschema.Schema{Type: "string"},
		},
		"properties": {Type: "object"},
		"host_machine": {
			Type:     "object",
			Required: []string{"system", "cpu_family"},
		},
		"target_machine": {
			Type:     "object",
			Required: []string{"system", "cpu_family"},
		},
	},
}

// Load decodes and validates a machine file's raw TOML bytes.
func Load(data []byte) (*Machine, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("machine file: invalid TOML: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("machine file: invalid schema: %w", err)
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("machine file: %w", err)
	}

	var m Machine
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("machine file: invalid TOML: %w", err)
	}
	return &m, nil
}

// Binary looks up one tool in the machine's [binaries] table.
func (m *Machine) Binary(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.Binaries[name]
	return v, ok
}
