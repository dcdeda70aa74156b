package nfa

import (
	"github.com/coregx/miniregex/internal/conv"
	"github.com/coregx/miniregex/internal/sparse"
)

// The matcher simulates the program breadth-first in program order over
// the input. At any point it holds a single closure: every program
// position reachable from the start via epsilon transitions given the
// prefix consumed so far, each paired with its own capture snapshot
// (capture writes happen on epsilon edges).
//
// Candidate discovery order within a closure is the priority order; a
// Fork walks its high-priority branch first, which is what makes matching
// leftmost-first and quantifiers greedy.

// capture implements copy-on-write capture slots. Slot 2g holds the start
// position of group g, slot 2g+1 the end position, -1 when unset. Threads
// share the underlying slots until one of them writes, so the Fork-time
// snapshot is cheap while each candidate still observes an independent
// history.
type capture struct {
	shared *sharedSlots
}

type sharedSlots struct {
	slots []int
	refs  int
}

// newCapture creates slots for the given number of groups, all unset.
func newCapture(groups int) capture {
	if groups == 0 {
		return capture{}
	}
	slots := make([]int, 2*groups)
	for i := range slots {
		slots[i] = -1
	}
	return capture{shared: &sharedSlots{slots: slots, refs: 1}}
}

// clone returns a reference to the same slots without copying.
func (c capture) clone() capture {
	if c.shared == nil {
		return capture{}
	}
	c.shared.refs++
	return capture{shared: c.shared}
}

// set writes one slot, copying first if the slots are shared.
func (c capture) set(slot, value int) capture {
	if c.shared == nil || slot < 0 || slot >= len(c.shared.slots) {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		slots := make([]int, len(c.shared.slots))
		copy(slots, c.shared.slots)
		slots[slot] = value
		return capture{shared: &sharedSlots{slots: slots, refs: 1}}
	}
	c.shared.slots[slot] = value
	return c
}

// setStart records the start of group g and marks it unmatched until the
// matching setEnd runs.
func (c capture) setStart(g, pos int) capture {
	c = c.set(2*g, pos)
	return c.set(2*g+1, -1)
}

// setEnd records the end of group g, completing the sub-match.
func (c capture) setEnd(g, pos int) capture {
	return c.set(2*g+1, pos)
}

// copySlots returns an independent copy of the slots.
func (c capture) copySlots() []int {
	if c.shared == nil {
		return nil
	}
	slots := make([]int, len(c.shared.slots))
	copy(slots, c.shared.slots)
	return slots
}

// candidate is an active simulation thread: a program index paired with a
// capture snapshot. Only MatchCharCategory and Accept instructions appear
// as candidates.
type candidate struct {
	pc   int
	caps capture
}

// closure is an epsilon closure under construction: the candidates in
// priority order plus the set of program indices already visited at the
// current input position.
type closure struct {
	candidates []candidate
	visited    *sparse.SparseSet
}

type matcher struct {
	prog  *Program
	input []byte
	pos   int

	cur  closure
	next closure

	// Slots of the best Accept seen so far. Each later Accept comes from
	// a surviving higher-priority thread and overwrites it.
	bestSlots []int
	ready     bool
}

// Match runs the program against the whole input, anchored at position 0.
// The result is Ready iff some prefix of the input is consumed by an
// accepting path from the start.
func Match(prog *Program, input []byte) *MatchResults {
	return MatchAt(prog, input, 0)
}

// MatchAt runs the program against input anchored at position at.
// Recorded group extents are absolute input positions.
func MatchAt(prog *Program, input []byte, at int) *MatchResults {
	m := &matcher{prog: prog, input: input, pos: at}

	capacity := conv.IntToUint32(prog.Len())
	m.cur.visited = sparse.NewSparseSet(capacity)
	m.next.visited = sparse.NewSparseSet(capacity)

	m.addToClosure(&m.cur, prog.StartID(), at, newCapture(prog.MarkCount()))
	for len(m.cur.candidates) > 0 {
		m.step()
	}
	return m.results()
}

// addToClosure recursively adds the epsilon closure of pc to c. Each
// program index is considered once per closure regardless of the capture
// that first reached it; this keeps the simulation polynomial and gives
// leftmost-first capture to the first reaching path. The dedup is also
// what terminates zero-progress loops: a thread cycling back to the same
// Advance at the same input position finds it already visited and dies.
func (m *matcher) addToClosure(c *closure, pc, pos int, caps capture) {
	if !c.visited.Insert(conv.IntToUint32(pc)) {
		return
	}

	insn := m.prog.Inst(pc)
	switch insn.op {
	case OpMatchCharCategory, OpAccept:
		c.candidates = append(c.candidates, candidate{pc: pc, caps: caps})

	case OpGoto, OpAdvance:
		m.addToClosure(c, insn.next, pos, caps)

	case OpFork:
		// High-priority branch first, on a snapshot; if both branches
		// later reach Accept, the earlier candidate wins.
		m.addToClosure(c, insn.next, pos, caps.clone())
		m.addToClosure(c, insn.next2, pos, caps)

	case OpMarkGroupStart:
		m.addToClosure(c, insn.next, pos, caps.setStart(insn.group, pos))

	case OpMarkGroupEnd:
		m.addToClosure(c, insn.next, pos, caps.setEnd(insn.group, pos))
	}
}

// step consumes one input position: it walks the current candidates in
// priority order, seeding the next closure from successful character
// matches, and records the first Accept it meets. Candidates below an
// Accept are pruned; they could only produce equal-or-worse matches.
// The input position advances exactly once per step whether or not any
// candidate matched.
func (m *matcher) step() {
	m.next.candidates = m.next.candidates[:0]
	m.next.visited.Clear()

loop:
	for i := range m.cur.candidates {
		cand := &m.cur.candidates[i]
		insn := m.prog.Inst(cand.pc)

		switch insn.op {
		case OpMatchCharCategory:
			if m.pos < len(m.input) && insn.cc.Matches(m.input[m.pos]) {
				m.addToClosure(&m.next, insn.next, m.pos+1, cand.caps)
			}

		case OpAccept:
			m.bestSlots = cand.caps.copySlots()
			m.ready = true
			break loop
		}
	}

	m.cur, m.next = m.next, m.cur
	m.pos++
}

// results converts the best capture slots into a MatchResults sized to
// the program's mark count, so every group ID is represented.
func (m *matcher) results() *MatchResults {
	res := &MatchResults{
		input: m.input,
		subs:  make([]SubMatch, m.prog.MarkCount()),
		ready: m.ready,
	}
	if !m.ready {
		return res
	}
	for g := range res.subs {
		begin, end := m.bestSlots[2*g], m.bestSlots[2*g+1]
		if begin >= 0 && end >= 0 {
			res.subs[g] = SubMatch{Begin: begin, End: end, Matched: true}
		}
	}
	return res
}
