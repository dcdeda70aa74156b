// Package prefilter provides fast candidate filtering for unanchored
// search using literal prefixes extracted from a compiled program.
//
// A prefilter quickly rejects input positions where no match can start:
// every match must begin with one of the extracted literals, so positions
// between literal occurrences need never be handed to the matcher. The
// builder selects a strategy from the literal sequence:
//   - a single one-byte literal: IndexByte scan
//   - a single literal: Index (substring) scan
//   - several literals: an Aho-Corasick automaton
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/miniregex/literal"
)

// Prefilter reports candidate positions for the matcher.
type Prefilter interface {
	// Find returns a position p in [start, len(haystack)] such that no
	// match starts in [start, p), or -1 when no match can start at or
	// after start. p is usually an occurrence of a literal, but is only
	// guaranteed to be a safe lower bound for the next match start.
	Find(haystack []byte, start int) int

	// IsComplete reports whether every literal is an entire match by
	// itself, in which case a literal occurrence proves a match without
	// running the matcher.
	IsComplete() bool

	// LiteralLen returns the literal length when IsComplete and all
	// literals have one length, 0 otherwise.
	LiteralLen() int
}

// Builder constructs the best prefilter for a literal sequence.
type Builder struct {
	seq *Seq
}

// Seq is re-exported to keep the builder signature readable.
type Seq = literal.Seq

// NewBuilder creates a builder over the extracted literals.
// seq may be nil.
func NewBuilder(seq *Seq) *Builder {
	return &Builder{seq: seq}
}

// Build returns a prefilter for the literals, or nil when none applies
// (no literals, or the automaton could not be built).
func (b *Builder) Build() Prefilter {
	if b.seq == nil || b.seq.IsEmpty() {
		return nil
	}

	if b.seq.Len() == 1 {
		lit := b.seq.Get(0)
		if lit.Len() == 1 {
			return &bytePrefilter{b: lit.Bytes[0], complete: lit.Complete}
		}
		return &memmemPrefilter{needle: lit.Bytes, complete: lit.Complete}
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < b.seq.Len(); i++ {
		builder.AddPattern(b.seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{
		auto:     auto,
		maxLen:   b.seq.MaxLen(),
		complete: b.seq.AllComplete(),
		litLen:   uniformLen(b.seq),
	}
}

func uniformLen(seq *Seq) int {
	n := seq.Get(0).Len()
	for i := 1; i < seq.Len(); i++ {
		if seq.Get(i).Len() != n {
			return 0
		}
	}
	return n
}

// bytePrefilter scans for a single byte.
type bytePrefilter struct {
	b        byte
	complete bool
}

func (p *bytePrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := bytes.IndexByte(haystack[start:], p.b)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *bytePrefilter) IsComplete() bool { return p.complete }
func (p *bytePrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// memmemPrefilter scans for a single substring.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// ahoCorasickPrefilter scans for any of several literals at once.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	maxLen   int
	complete bool
	litLen   int
}

// Find returns a safe lower bound for the next match start. The automaton
// reports the occurrence with the earliest end; an unreported occurrence
// starting earlier must end later, so its start is bounded below by
// end-maxLen. The clamp keeps the bound from moving backwards.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	pos := m.End - p.maxLen
	if pos < start {
		pos = start
	}
	if pos > m.Start {
		pos = m.Start
	}
	return pos
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return p.complete }
func (p *ahoCorasickPrefilter) LiteralLen() int {
	if p.complete {
		return p.litLen
	}
	return 0
}
