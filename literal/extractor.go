package literal

import "github.com/coregx/miniregex/nfa"

// Extraction limits. Prefilters want few, short needles; anything larger
// is unlikely to beat running the matcher directly.
const (
	maxLiterals   = 32
	maxLiteralLen = 8
)

// Extract walks the compiled program from its start instruction and
// returns the exhaustive set of literal prefixes of its matches, or nil
// when no usable set exists.
//
// Returns nil when:
//   - some path reaches an any-byte or an Accept before consuming a
//     literal byte (the program can match anywhere, nothing to scan for)
//   - the walk exceeds the literal count limit
//
// A literal is cut at maxLiteralLen and marked incomplete; a literal that
// reaches Accept is complete.
func Extract(prog *nfa.Program) *Seq {
	e := &extractor{prog: prog, seq: NewSeq()}
	if !e.walk(prog.StartID(), nil, make(map[int]struct{})) {
		return nil
	}
	e.seq.Minimize()
	if e.seq.IsEmpty() {
		return nil
	}
	return e.seq
}

type extractor struct {
	prog *nfa.Program
	seq  *Seq
}

// walk explores every path from pc, extending prefix. visited guards
// against epsilon cycles at the current prefix length; consuming a byte
// starts a fresh guard set, mirroring the matcher's per-position
// deduplication. Returns false when the path set cannot be covered by an
// exhaustive literal sequence.
func (e *extractor) walk(pc int, prefix []byte, visited map[int]struct{}) bool {
	if _, ok := visited[pc]; ok {
		// An epsilon cycle without progress. The path repeats a shorter
		// path's continuation, which is covered elsewhere.
		return true
	}
	visited[pc] = struct{}{}

	insn := e.prog.Inst(pc)
	switch insn.Op() {
	case nfa.OpMatchCharCategory:
		cc := insn.CharCategory()
		if cc.Kind() != nfa.CategoryOrdinary {
			// An any-byte: the prefix so far is all this path forces.
			return e.push(prefix, false)
		}
		next := append(append([]byte(nil), prefix...), cc.Ch())
		if len(next) >= maxLiteralLen {
			return e.push(next, false)
		}
		return e.walk(insn.Next(), next, make(map[int]struct{}))

	case nfa.OpAccept:
		return e.push(prefix, true)

	case nfa.OpGoto, nfa.OpAdvance, nfa.OpMarkGroupStart, nfa.OpMarkGroupEnd:
		return e.walk(insn.Next(), prefix, visited)

	case nfa.OpFork:
		// Both branches can begin a match, so both must be covered.
		return e.walk(insn.Next(), prefix, visited) &&
			e.walk(insn.Next2(), prefix, visited)

	default:
		return false
	}
}

func (e *extractor) push(prefix []byte, complete bool) bool {
	if len(prefix) == 0 {
		// A match can begin with anything (or nothing); a literal scan
		// cannot skip any position.
		return false
	}
	if e.seq.Len() >= maxLiterals {
		return false
	}
	e.seq.Push(Literal{Bytes: append([]byte(nil), prefix...), Complete: complete})
	return true
}
