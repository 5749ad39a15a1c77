// Package security sandboxes install_data()/install_headers() destinations
// so `mbs install` never writes outside the configured install prefix.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathValidator confines install destinations to a prefix directory,
// resolving `..` segments lexically before the comparison so a crafted
// subdir can't walk an install out of the prefix. Symlinks are not
// resolved: a symlink under the prefix that points elsewhere is not
// detected.
type PathValidator struct {
	Prefix string
}

func NewPathValidator(prefix string) (*PathValidator, error) {
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return nil, fmt.Errorf("install prefix: %w", err)
	}
	return &PathValidator{Prefix: filepath.Clean(abs)}, nil
}

// Resolve joins subdir onto the prefix and rejects the result if it would
// land outside the prefix. subdir is always relative; an absolute subdir
// is itself a sign of a misconfigured install_dir and is rejected too.
func (v *PathValidator) Resolve(subdir string) (string, error) {
	if filepath.IsAbs(subdir) {
		return "", fmt.Errorf("install destination %q must be relative to the prefix", subdir)
	}
	joined := filepath.Join(v.Prefix, subdir)
	cleaned := filepath.Clean(joined)
	if cleaned != v.Prefix && !strings.HasPrefix(cleaned, v.Prefix+string(filepath.Separator)) {
		return "", fmt.Errorf("install destination %q escapes prefix %q", subdir, v.Prefix)
	}
	return cleaned, nil
}
