// Package miniregex provides a small regular-expression engine.
//
// Patterns support ordinary characters, backslash escapes of the
// metacharacters, capturing groups, alternation, and the *, + and ?
// quantifiers. Matching is leftmost-first with greedy quantifiers, the
// semantics Perl-style engines use. One matcher pass runs in time bounded
// by input length times program size regardless of the pattern; Search
// runs one pass, or one pass per candidate position when a literal
// prefilter applies.
//
// Basic usage:
//
//	re, err := miniregex.Compile(`a(b)c`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anchored match at the start of the input
//	res := re.Match([]byte("abcd"))
//	res.Ready()  // true
//	res.Text(0)  // "abc"
//	res.Text(1)  // "b"
//
//	// Unanchored search for the leftmost occurrence
//	res = re.Search([]byte("xxabc"))
//	res.Text(0) // "abc"
//
// A compiled Regex is immutable and safe for concurrent use; every match
// call owns its own working state.
package miniregex

import (
	"fmt"

	"github.com/coregx/miniregex/literal"
	"github.com/coregx/miniregex/nfa"
	"github.com/coregx/miniregex/prefilter"
)

// Regex is a compiled regular expression: the pattern string tied to its
// instruction program, plus the derived artifacts search uses (the
// .*?-wrapped program clone and, when the pattern forces literal
// prefixes on its matches, a prefilter over those literals).
type Regex struct {
	pattern string
	prog    *nfa.Program
	search  *nfa.Program
	pf      prefilter.Prefilter
}

// CompileError wraps a pattern syntax error with the pattern it occurred
// in. Unwrap exposes the underlying *nfa.ParseError with its error code
// and character position.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("miniregex: cannot compile %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

type config struct {
	optimize  bool
	prefilter bool
}

// CompileOption adjusts compilation.
type CompileOption func(*config)

// WithoutOptimizer disables the goto-elimination pass, leaving the
// program exactly as the parser emitted it. Useful for debugging dumps.
func WithoutOptimizer() CompileOption {
	return func(c *config) { c.optimize = false }
}

// WithoutPrefilter disables literal extraction, forcing Search onto the
// wrapped-program simulation for every input.
func WithoutPrefilter() CompileOption {
	return func(c *config) { c.prefilter = false }
}

// Compile compiles a pattern.
func Compile(pattern string, opts ...CompileOption) (*Regex, error) {
	cfg := config{optimize: true, prefilter: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	prog, err := nfa.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	if cfg.optimize {
		nfa.OptimizeGotos(prog)
	}

	r := &Regex{
		pattern: pattern,
		prog:    prog,
		search:  prog.SearchProgram(),
	}
	if cfg.prefilter {
		if seq := literal.Extract(prog); seq != nil {
			r.pf = prefilter.NewBuilder(seq).Build()
		}
	}
	return r, nil
}

// MustCompile compiles a pattern and panics if it fails.
// Useful for patterns known to be valid at compile time.
func MustCompile(pattern string, opts ...CompileOption) *Regex {
	re, err := Compile(pattern, opts...)
	if err != nil {
		panic("miniregex: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// Pattern returns the source pattern.
func (r *Regex) Pattern() string {
	return r.pattern
}

// MarkCount returns the number of capturing groups, including the
// implicit whole-pattern group 0.
func (r *Regex) MarkCount() int {
	return r.prog.MarkCount()
}

// Program returns the compiled program. The program is shared and must
// not be mutated; clone it first if needed.
func (r *Regex) Program() *nfa.Program {
	return r.prog
}

// Match runs the pattern anchored at the start of b. The result is Ready
// iff an accepting path consumes a prefix of b; group 0 spans the match,
// groups 1..N the inner groups in left-paren order.
func (r *Regex) Match(b []byte) *nfa.MatchResults {
	return nfa.Match(r.prog, b)
}

// MatchString is Match over a string.
func (r *Regex) MatchString(s string) *nfa.MatchResults {
	return r.Match([]byte(s))
}

// Search finds the leftmost occurrence of the pattern in b. Group 0
// spans the located occurrence.
func (r *Regex) Search(b []byte) *nfa.MatchResults {
	if r.pf != nil {
		return r.searchWithPrefilter(b)
	}
	return nfa.Match(r.search, b)
}

// SearchString is Search over a string.
func (r *Regex) SearchString(s string) *nfa.MatchResults {
	return r.Search([]byte(s))
}

// searchWithPrefilter scans for literal candidates and verifies each with
// the anchored matcher. Positions the prefilter skips cannot start a
// match, so the first verified candidate is the leftmost occurrence.
func (r *Regex) searchWithPrefilter(b []byte) *nfa.MatchResults {
	pos := 0
	for pos <= len(b) {
		cand := r.pf.Find(b, pos)
		if cand < 0 {
			break
		}
		res := nfa.MatchAt(r.prog, b, cand)
		if res.Ready() {
			return res
		}
		pos = cand + 1
	}
	return nfa.NoMatch(r.prog, b)
}

// IsMatch reports whether the pattern occurs anywhere in b.
func (r *Regex) IsMatch(b []byte) bool {
	// A complete prefilter literal is an entire match: finding one proves
	// the answer without running the matcher.
	if r.pf != nil && r.pf.IsComplete() {
		return r.pf.Find(b, 0) >= 0
	}
	return r.Search(b).Ready()
}

// IsMatchString is IsMatch over a string.
func (r *Regex) IsMatchString(s string) bool {
	return r.IsMatch([]byte(s))
}

// Find returns the text of the leftmost occurrence in b, nil when there
// is none. The slice aliases b.
func (r *Regex) Find(b []byte) []byte {
	res := r.Search(b)
	if !res.Ready() {
		return nil
	}
	return res.Bytes(0)
}

// FindString returns the text of the leftmost occurrence in s, "" when
// there is none.
func (r *Regex) FindString(s string) string {
	return string(r.Find([]byte(s)))
}

// FindIndex returns the location of the leftmost occurrence in b as a
// two-element slice, nil when there is none.
func (r *Regex) FindIndex(b []byte) []int {
	res := r.Search(b)
	if !res.Ready() {
		return nil
	}
	g := res.Group(0)
	return []int{g.Begin, g.End}
}
