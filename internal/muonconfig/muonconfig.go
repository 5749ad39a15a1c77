// Package muonconfig parses the KDL document the `auto` subcommand reads
// a list of build directories to configure or regenerate in
// one shot, each with its own option overrides, replayed through the same
// setup path as the CLI-flag form.
package muonconfig

import (
	"fmt"

	"github.com/sblinch/kdl-go"
)

// ConfigTarget is one `build "<dir>" { ... }` block, flattened from the
// raw KDL shape into the option map `setup` expects.
type ConfigTarget struct {
	Dir     string
	Options map[string]string
}

type document struct {
	Builds []buildBlock `kdl:"build"`
}

type buildBlock struct {
	Dir            string       `kdl:",arg"`
	Options        []optionNode `kdl:"option"`
	DefaultLibrary string       `kdl:"default-library"`
}

type optionNode struct {
	Name  string `kdl:",arg"`
	Value string `kdl:",arg"`
}

// Parse decodes a .muon-style KDL config script into one ConfigTarget per
// `build` block.
func Parse(data []byte) ([]ConfigTarget, error) {
	var doc document
	if err := kdl.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("auto config: invalid KDL: %w", err)
	}

	targets := make([]ConfigTarget, 0, len(doc.Builds))
	for _, b := range doc.Builds {
		if b.Dir == "" {
			return nil, fmt.Errorf("auto config: build block missing a directory argument")
		}
		opts := map[string]string{}
		for _, o := range b.Options {
			opts[o.Name] = o.Value
		}
		if b.DefaultLibrary != "" {
			opts["default_library"] = b.DefaultLibrary
		}
		targets = append(targets, ConfigTarget{Dir: b.Dir, Options: opts})
	}
	return targets, nil
}
