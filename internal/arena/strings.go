package arena

import (
	"github.com/cespare/xxhash/v2"
)

// StringSpan locates a byte range inside the pool's backing buffer.
// Mirrors the byte-offset/length reference pattern used for source-text
// substrings, except here the pool itself (not a source file) is the
// addressed buffer, and the pool only ever grows.
type StringSpan struct {
	Offset uint32
	Length uint32
	Hash   uint64
}

// StringPool is the monotonically growing byte pool backing KindString and
// KindFile objects. A once-pushed string is never overwritten; it may only
// be extended in place if it is still the tail of the buffer (used by
// string += string when the left side was the most recently pushed value).
type StringPool struct {
	buf    []byte
	intern map[uint64]Handle // hash -> handle, for short identifier-like strings
}

func newStringPool() *StringPool {
	return &StringPool{intern: make(map[uint64]Handle, 256)}
}

// Bytes returns the byte range a span addresses. The slice aliases the
// pool's backing array and must not be retained across a Push/Append call.
func (p *StringPool) Bytes(s StringSpan) []byte {
	return p.buf[s.Offset : s.Offset+s.Length]
}

// View returns the string a span addresses, allocating a copy.
func (p *StringPool) View(s StringSpan) string {
	return string(p.Bytes(s))
}

// push appends content to the tail of the pool and returns the new span.
func (p *StringPool) push(content string) StringSpan {
	off := uint32(len(p.buf))
	p.buf = append(p.buf, content...)
	return StringSpan{Offset: off, Length: uint32(len(content)), Hash: xxhash.Sum64String(content)}
}

// isTail reports whether span currently ends at the pool's tail, i.e. no
// other string has been pushed since it was created.
func (p *StringPool) isTail(s StringSpan) bool {
	return s.Offset+s.Length == uint32(len(p.buf))
}

// appendToTail extends span's content with more if span is still the pool
// tail; otherwise it copies span's content plus more to a fresh tail span.
// Returns the resulting span and whether the original span was reused.
func (p *StringPool) appendToTail(s StringSpan, more string) (StringSpan, bool) {
	if p.isTail(s) {
		p.buf = append(p.buf, more...)
		ns := StringSpan{Offset: s.Offset, Length: s.Length + uint32(len(more)), Hash: xxhash.Sum64(p.Bytes(StringSpan{Offset: s.Offset, Length: s.Length + uint32(len(more))}))}
		return ns, true
	}
	combined := make([]byte, 0, s.Length+uint32(len(more)))
	combined = append(combined, p.Bytes(s)...)
	combined = append(combined, more...)
	return p.push(string(combined)), false
}

// internKey is a cheap dedup key: hash plus length, tolerant of collisions
// because callers always fall back to content equality before trusting it.
func internKey(h uint64, n int) uint64 {
	return h ^ (uint64(n) * 1099511628211)
}
