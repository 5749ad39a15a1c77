// Package cache owns the build-dir-relative mbs-private/ tree: the setup
// manifest that regeneration replays to re-run setup, the resolved option
// values get_option() was seeded from, and per-target scratch directories
// for generated headers and compiler depfiles.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const privateDir = "mbs-private"

// Store is a handle onto one build directory's private state.
type Store struct {
	buildRoot string
}

// New returns a Store rooted at buildRoot. It does not touch the
// filesystem; callers get mbs-private/ created lazily on first write.
func New(buildRoot string) *Store {
	return &Store{buildRoot: buildRoot}
}

func (s *Store) dir() string {
	return filepath.Join(s.buildRoot, privateDir)
}

// Setup is everything `setup` needs to replay itself for regeneration:
// the exact argv it was invoked with, the resolved source/build roots,
// and the machine file path if one was given.
type Setup struct {
	Argv        []string `json:"argv"`
	SourceRoot  string   `json:"source_root"`
	BuildRoot   string   `json:"build_root"`
	MachineFile string   `json:"machine_file,omitempty"`
}

func (s *Store) setupPath() string { return filepath.Join(s.dir(), "setup.json") }

// SaveSetup writes the setup manifest, creating mbs-private/ if needed.
func (s *Store) SaveSetup(setup Setup) error {
	return s.writeJSON(s.setupPath(), setup)
}

// LoadSetup reads back a previously saved setup manifest.
func (s *Store) LoadSetup() (Setup, error) {
	var setup Setup
	err := readJSON(s.setupPath(), &setup)
	return setup, err
}

func (s *Store) optionsPath() string { return filepath.Join(s.dir(), "options.json") }

// SaveOptions persists the resolved project option values, including
// feature_option tri-states, which are stored as their string form
// ("enabled"/"disabled"/"auto") alongside every other option kind.
func (s *Store) SaveOptions(opts map[string]string) error {
	return s.writeJSON(s.optionsPath(), opts)
}

// LoadOptions reads back a previously saved option set. A missing file
// is not an error: it means this build directory has never been configured.
func (s *Store) LoadOptions() (map[string]string, error) {
	opts := map[string]string{}
	if _, err := os.Stat(s.optionsPath()); os.IsNotExist(err) {
		return opts, nil
	}
	err := readJSON(s.optionsPath(), &opts)
	return opts, err
}

// ScratchDir returns (creating if necessary) the per-target private
// directory used for generated-include placement and compiler depfiles.
func (s *Store) ScratchDir(target string) (string, error) {
	dir := filepath.Join(s.dir(), "scratch", target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
