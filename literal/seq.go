// Package literal extracts the literal byte prefixes a compiled program
// forces on its matches.
//
// The primary use is prefilter construction for unanchored search: if
// every match must begin with one of a small set of literals, the engine
// can scan for those literals and only run the matcher at candidate
// positions.
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte sequence every match may begin with. Complete means
// the literal runs all the way to an accepting instruction, i.e. it is an
// entire match by itself, not just a required prefix.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// Seq is a set of alternative literals. A non-nil Seq produced by Extract
// is exhaustive: every match of the program starts with one of its
// literals.
type Seq struct {
	literals []Literal
}

// NewSeq returns an empty sequence.
func NewSeq() *Seq {
	return &Seq{}
}

// Push appends a literal to the sequence.
func (s *Seq) Push(l Literal) {
	s.literals = append(s.literals, l)
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	return len(s.literals)
}

// IsEmpty returns true if the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return len(s.literals) == 0
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// AllComplete reports whether every literal is a complete match.
func (s *Seq) AllComplete() bool {
	for _, l := range s.literals {
		if !l.Complete {
			return false
		}
	}
	return len(s.literals) > 0
}

// MaxLen returns the length of the longest literal.
func (s *Seq) MaxLen() int {
	maxLen := 0
	for _, l := range s.literals {
		if len(l.Bytes) > maxLen {
			maxLen = len(l.Bytes)
		}
	}
	return maxLen
}

// Minimize sorts the literals, removes duplicates, and removes any
// literal that has another literal of the sequence as a prefix. The
// shorter literal subsumes the longer one for candidate generation: every
// occurrence of the longer contains an occurrence of the shorter at the
// same position. Completeness of a kept literal is its own property and
// is unaffected by the literals it subsumes.
func (s *Seq) Minimize() {
	if len(s.literals) < 2 {
		return
	}
	sort.Slice(s.literals, func(i, j int) bool {
		return bytes.Compare(s.literals[i].Bytes, s.literals[j].Bytes) < 0
	})

	kept := s.literals[:1]
	for _, l := range s.literals[1:] {
		last := kept[len(kept)-1]
		if bytes.HasPrefix(l.Bytes, last.Bytes) {
			continue
		}
		kept = append(kept, l)
	}
	s.literals = kept
}
