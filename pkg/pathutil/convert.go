// Package pathutil provides the pure path-manipulation contract the DSL
// evaluator and Ninja emitter build on: join/relativize/subpath-check over
// caller-supplied strings, independent of any particular filesystem state.
//
// Architecture Pattern:
// Every path that crosses into the object arena is stored absolute and
// normalised to forward slashes; user-facing output (Ninja files, error
// messages) renders paths relative to the source or build root. This
// package is the conversion layer between the two representations.
package pathutil

import (
	"strings"
)

const sep = "/"

// IsAbsolute reports whether p is rooted: a leading "/" on POSIX, or a
// drive-letter-colon-slash prefix ("C:/", "C:\\") on Windows-style input.
func IsAbsolute(p string) bool {
	if p == "" {
		return false
	}
	if p[0] == '/' || p[0] == '\\' {
		return true
	}
	if len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' && (p[2] == '/' || p[2] == '\\') {
		return true
	}
	return false
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Normalize rewrites backslashes to forward slashes and collapses
// duplicate separators, without resolving "." or "..".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Join concatenates a and b the way meson's path_join does: an absolute b
// (or an empty a) replaces a entirely; otherwise the two are joined on a
// single separator with duplicate separators collapsed.
func Join(a, b string) string {
	b = Normalize(b)
	if b == "" {
		return Normalize(a)
	}
	if IsAbsolute(b) || a == "" {
		return b
	}
	a = Normalize(a)
	if a == sep {
		return sep + b
	}
	return a + sep + b
}

// MakeAbsolute returns p unchanged if it is already absolute, else joins it
// onto cwd (the process working directory captured once at startup).
func MakeAbsolute(cwd, p string) string {
	if IsAbsolute(p) {
		return Normalize(p)
	}
	return Join(cwd, p)
}

// RelativeTo computes the path from base to p, both of which must be
// absolute. It finds the longest common separator-aligned prefix, emits
// ".." for each remaining base segment, then appends the remainder of p.
// If base and p share nothing but the root, p is returned unchanged.
func RelativeTo(base, p string) string {
	base = Normalize(base)
	p = Normalize(p)
	if !IsAbsolute(base) || !IsAbsolute(p) {
		return p
	}
	if base == p {
		return "."
	}

	baseParts := splitNonEmpty(base)
	pParts := splitNonEmpty(p)

	common := 0
	for common < len(baseParts) && common < len(pParts) && baseParts[common] == pParts[common] {
		common++
	}
	if common == 0 {
		return p
	}

	ups := len(baseParts) - common
	segs := make([]string, 0, ups+len(pParts)-common)
	for i := 0; i < ups; i++ {
		segs = append(segs, "..")
	}
	segs = append(segs, pParts[common:]...)
	if len(segs) == 0 {
		return "."
	}
	return strings.Join(segs, sep)
}

func splitNonEmpty(p string) []string {
	parts := strings.Split(p, sep)
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Dirname returns everything before the final separator, or "." when p has
// no separator and is non-empty, matching POSIX dirname semantics.
func Dirname(p string) string {
	p = Normalize(p)
	if p == "" {
		return "."
	}
	idx := strings.LastIndex(p, sep)
	if idx < 0 {
		return "."
	}
	if idx == 0 {
		return sep
	}
	return p[:idx]
}

// Basename returns everything after the final separator.
func Basename(p string) string {
	p = Normalize(p)
	if p == "" {
		return ""
	}
	idx := strings.LastIndex(p, sep)
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// IsSubpath reports whether sub is base itself or begins with base+"/".
func IsSubpath(base, sub string) bool {
	base = Normalize(base)
	sub = Normalize(sub)
	if base == sub {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	return strings.HasPrefix(sub, prefix)
}

// StemAndExt splits basename into its stem and extension (including the
// dot), used by generator output-template substitution (@BASENAME@ etc).
func StemAndExt(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}
