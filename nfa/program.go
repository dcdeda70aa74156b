package nfa

import (
	"fmt"
	"strings"
)

// Opcode identifies the type of an instruction and determines which of its
// fields are meaningful.
type Opcode uint8

const (
	// OpMatchCharCategory consumes one input byte if it is in the
	// instruction's character category, then continues at next.
	OpMatchCharCategory Opcode = iota

	// OpGoto continues at next unconditionally, consuming nothing.
	OpGoto

	// OpFork splits the thread: next is tried first, next2 second.
	// The order carries the leftmost-first / greedy priority.
	OpFork

	// OpAccept signals a successful match.
	OpAccept

	// OpAdvance is the progress guard at the head of a loop whose body can
	// match the empty string. It continues at next like a Goto; the
	// matcher's per-closure deduplication keeps a thread from re-entering
	// it without the input position having advanced.
	OpAdvance

	// OpMarkGroupStart records the current input position as the start of
	// a capturing group, then continues at next.
	OpMarkGroupStart

	// OpMarkGroupEnd records the current input position as the end of a
	// capturing group, then continues at next.
	OpMarkGroupEnd
)

// String returns a human-readable representation of the opcode
func (op Opcode) String() string {
	switch op {
	case OpMatchCharCategory:
		return "MatchCharCategory"
	case OpGoto:
		return "Goto"
	case OpFork:
		return "Fork"
	case OpAccept:
		return "Accept"
	case OpAdvance:
		return "Advance"
	case OpMarkGroupStart:
		return "MarkGroupStart"
	case OpMarkGroupEnd:
		return "MarkGroupEnd"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Sentinel values for instruction successor fields.
const (
	// Dangled marks a successor that the parser has not patched yet.
	// A validated program contains no dangled successors.
	Dangled = -1

	// Null marks a successor field the opcode does not use.
	Null = -2
)

// Instruction is a single opcode-tagged record in a Program.
// Which fields are meaningful depends on the opcode:
//
//	MatchCharCategory: cc, next
//	Goto, Advance:     next
//	Fork:              next, next2
//	MarkGroupStart/End: next, group
//	Accept:            none
type Instruction struct {
	op    Opcode
	cc    CharCategory
	next  int
	next2 int
	group int
}

// Op returns the instruction's opcode.
func (i *Instruction) Op() Opcode {
	return i.op
}

// CharCategory returns the category of a MatchCharCategory instruction.
func (i *Instruction) CharCategory() CharCategory {
	return i.cc
}

// Next returns the primary successor index.
func (i *Instruction) Next() int {
	return i.next
}

// Next2 returns the secondary successor of a Fork.
func (i *Instruction) Next2() int {
	return i.next2
}

// Group returns the group ID of a MarkGroupStart/MarkGroupEnd instruction.
func (i *Instruction) Group() int {
	return i.group
}

// String returns a human-readable representation of the instruction
func (i *Instruction) String() string {
	switch i.op {
	case OpMatchCharCategory:
		return fmt.Sprintf("MatchCharCategory(%s -> %d)", i.cc, i.next)
	case OpGoto:
		return fmt.Sprintf("Goto(%d)", i.next)
	case OpFork:
		return fmt.Sprintf("Fork(%d, %d)", i.next, i.next2)
	case OpAccept:
		return "Accept"
	case OpAdvance:
		return fmt.Sprintf("Advance(%d)", i.next)
	case OpMarkGroupStart:
		return fmt.Sprintf("MarkGroupStart(%d, group=%d)", i.next, i.group)
	case OpMarkGroupEnd:
		return fmt.Sprintf("MarkGroupEnd(%d, group=%d)", i.next, i.group)
	default:
		return fmt.Sprintf("Unknown(%d)", i.op)
	}
}

// Program is an ordered sequence of instructions plus the index of the
// initial instruction and the number of capturing groups recorded during
// compilation.
//
// A Program is constructed through the append methods and immutable once
// compilation finishes; compiled programs may be shared read-only across
// concurrent matchers.
type Program struct {
	insns     []Instruction
	startID   int
	markCount int
}

// NewProgram returns an empty program with no start instruction set.
func NewProgram() *Program {
	return &Program{startID: Dangled}
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insns)
}

// Inst returns the instruction with the given index.
// Returns nil if the index is out of range.
func (p *Program) Inst(id int) *Instruction {
	if id < 0 || id >= len(p.insns) {
		return nil
	}
	return &p.insns[id]
}

// StartID returns the index of the initial instruction.
func (p *Program) StartID() int {
	return p.startID
}

// SetStartID sets the index of the initial instruction.
func (p *Program) SetStartID(id int) {
	p.startID = id
}

// MarkCount returns the number of distinct capturing groups, including the
// implicit whole-pattern group 0.
func (p *Program) MarkCount() int {
	return p.markCount
}

// AllocGroupID returns the next unused capturing-group ID. IDs are handed
// out in the order groups are entered, starting at 0 for the outermost
// whole-pattern group.
func (p *Program) AllocGroupID() int {
	id := p.markCount
	p.markCount++
	return id
}

// AppendMatchCharCategory appends an instruction matching cc and returns
// its index. next may be Dangled.
func (p *Program) AppendMatchCharCategory(cc CharCategory, next int) int {
	return p.push(Instruction{op: OpMatchCharCategory, cc: cc, next: next, next2: Null})
}

// AppendGoto appends an unconditional jump and returns its index.
// next must be a valid index or Dangled.
func (p *Program) AppendGoto(next int) int {
	return p.push(Instruction{op: OpGoto, next: next, next2: Null})
}

// AppendFork appends a fork and returns its index. Either successor may be
// Dangled. next1 is the high-priority branch.
func (p *Program) AppendFork(next1, next2 int) int {
	return p.push(Instruction{op: OpFork, next: next1, next2: next2})
}

// AppendAccept appends an accepting instruction and returns its index.
func (p *Program) AppendAccept() int {
	return p.push(Instruction{op: OpAccept, next: Null, next2: Null})
}

// AppendAdvance appends a progress guard and returns its index.
// next may be Dangled.
func (p *Program) AppendAdvance(next int) int {
	return p.push(Instruction{op: OpAdvance, next: next, next2: Null})
}

// AppendMarkGroupStart appends a group-start mark and returns its index.
// next may be Dangled. The group ID is tracked into MarkCount.
func (p *Program) AppendMarkGroupStart(next, group int) int {
	p.trackGroup(group)
	return p.push(Instruction{op: OpMarkGroupStart, next: next, next2: Null, group: group})
}

// AppendMarkGroupEnd appends a group-end mark and returns its index.
// next may be Dangled. The group ID is tracked into MarkCount.
func (p *Program) AppendMarkGroupEnd(next, group int) int {
	p.trackGroup(group)
	return p.push(Instruction{op: OpMarkGroupEnd, next: next, next2: Null, group: group})
}

func (p *Program) push(insn Instruction) int {
	p.insns = append(p.insns, insn)
	return len(p.insns) - 1
}

func (p *Program) trackGroup(group int) {
	if group >= p.markCount {
		p.markCount = group + 1
	}
}

// patch rewrites exactly the successor fields of instruction id that still
// hold the Dangled sentinel.
func (p *Program) patch(id, next int) {
	insn := &p.insns[id]
	if insn.next == Dangled {
		insn.next = next
	}
	if insn.next2 == Dangled {
		insn.next2 = next
	}
}

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program {
	insns := make([]Instruction, len(p.insns))
	copy(insns, p.insns)
	return &Program{
		insns:     insns,
		startID:   p.startID,
		markCount: p.markCount,
	}
}

// SearchProgram returns a clone of p wrapped for unanchored search: a
// non-greedy any-byte loop is prepended so the clone matches p at any
// input position, preferring the leftmost one. The original start sits in
// the fork's high-priority branch, so the matcher starts matching now
// rather than after consuming another arbitrary byte.
func (p *Program) SearchProgram() *Program {
	sp := p.Clone()
	anyID := sp.AppendMatchCharCategory(AnyChar(), Dangled)
	loopID := sp.AppendFork(sp.startID, anyID)
	sp.patch(anyID, loopID)
	sp.SetStartID(loopID)
	return sp
}

// Validate checks that the program is complete:
//   - the start instruction is set and in range
//   - no used successor field is Dangled and every used successor is in range
//   - every MatchCharCategory has a non-empty category
//
// Returns a BuildError describing the first violation found.
func (p *Program) Validate() error {
	if p.startID < 0 || p.startID >= len(p.insns) {
		return &BuildError{Message: fmt.Sprintf("start id %d out of range", p.startID), ID: -1}
	}

	checkNext := func(id, next int) error {
		if next < 0 || next >= len(p.insns) {
			return &BuildError{Message: fmt.Sprintf("invalid successor %d", next), ID: id}
		}
		return nil
	}

	for id := range p.insns {
		insn := &p.insns[id]
		switch insn.op {
		case OpMatchCharCategory:
			if insn.cc.IsEmpty() {
				return &BuildError{Message: "empty char category", ID: id}
			}
			if err := checkNext(id, insn.next); err != nil {
				return err
			}
		case OpGoto, OpAdvance, OpMarkGroupStart, OpMarkGroupEnd:
			if err := checkNext(id, insn.next); err != nil {
				return err
			}
		case OpFork:
			if err := checkNext(id, insn.next); err != nil {
				return err
			}
			if err := checkNext(id, insn.next2); err != nil {
				return err
			}
		case OpAccept:
			// no successors
		default:
			return &BuildError{Message: fmt.Sprintf("unknown opcode %d", insn.op), ID: id}
		}
	}
	return nil
}

// String returns a listing of the program, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Program{start: %d, marks: %d}\n", p.startID, p.markCount)
	for id := range p.insns {
		fmt.Fprintf(&b, "%4d  %s\n", id, p.insns[id].String())
	}
	return b.String()
}
