package nfa

// The parser is a recursive descent over the grammar below. Nonterminals
// start with a capital letter; terminals are the scanner's tokens.
//
//	Regex      ::= Sub EOF
//	Sub        ::= Seq ('|' Seq)*
//	Seq        ::= Term*                 (empty allowed)
//	Term       ::= Atom Quantifier*
//	Quantifier ::= '*' | '+' | '?'
//	Atom       ::= Character | '(' Sub ')'
//
// Each parse function returns a fragment of the program under
// construction. Quantifiers and alternation are applied iteratively, so
// only group nesting consumes stack depth.

// fragment is a partially built program region: a single entry
// instruction, a single exit instruction whose dangling successors are
// patched when the fragment is composed, and a flag recording whether the
// fragment can match the empty string.
type fragment struct {
	start      int
	end        int
	maybeEmpty bool
}

type parser struct {
	sc   *Scanner
	prog *Program
}

// Compile translates a pattern into a validated program.
func Compile(pattern string) (*Program, error) {
	sc, err := NewScanner(pattern)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc, prog: NewProgram()}
	if err := p.parseRegex(); err != nil {
		return nil, err
	}
	return p.prog, nil
}

// parseRegex parses nonterminal Regex.
func (p *parser) parseRegex() error {
	f, err := p.parseSub()
	if err != nil {
		return err
	}
	if p.sc.Token() != TokenEOF {
		return &ParseError{Code: ErrUnexpectedToken, Pos: p.sc.Pos()}
	}

	accept := p.prog.AppendAccept()
	p.prog.patch(f.end, accept)
	p.prog.SetStartID(f.start)
	return p.prog.Validate()
}

// parseSub parses nonterminal Sub and wraps the result in group marks.
// The group ID is allocated before the inner chain is parsed, so IDs run
// in left-paren order with 0 for the outermost whole-pattern group.
func (p *parser) parseSub() (fragment, error) {
	group := p.prog.AllocGroupID()

	prev, err := p.parseSeq()
	if err != nil {
		return fragment{}, err
	}

	for p.sc.Token() == TokenOr {
		if err := p.sc.Advance(); err != nil {
			return fragment{}, err
		}

		seq, err := p.parseSeq()
		if err != nil {
			return fragment{}, err
		}

		// The left branch goes into the fork's high-priority successor,
		// giving leftmost-first semantics.
		start := p.prog.AppendFork(prev.start, seq.start)
		end := p.prog.AppendGoto(Dangled)
		p.prog.patch(prev.end, end)
		p.prog.patch(seq.end, end)

		prev = fragment{
			start:      start,
			end:        end,
			maybeEmpty: prev.maybeEmpty || seq.maybeEmpty,
		}
	}

	gs := p.prog.AppendMarkGroupStart(prev.start, group)
	ge := p.prog.AppendMarkGroupEnd(Dangled, group)
	p.prog.patch(prev.end, ge)

	return fragment{start: gs, end: ge, maybeEmpty: prev.maybeEmpty}, nil
}

// parseSeq parses nonterminal Seq. An empty sequence compiles to a bare
// Goto so the fragment still has one entry and one patchable exit. A
// quantifier here has no atom to apply to and is rejected rather than
// left for the caller to trip over.
func (p *parser) parseSeq() (fragment, error) {
	if !p.atAtomHead() {
		switch p.sc.Token() {
		case TokenStar, TokenPlus, TokenOptional:
			return fragment{}, &ParseError{Code: ErrMissingAtom, Pos: p.sc.Pos()}
		}
		id := p.prog.AppendGoto(Dangled)
		return fragment{start: id, end: id, maybeEmpty: true}, nil
	}

	prev, err := p.parseTerm()
	if err != nil {
		return fragment{}, err
	}
	for p.atAtomHead() {
		term, err := p.parseTerm()
		if err != nil {
			return fragment{}, err
		}
		p.prog.patch(prev.end, term.start)
		prev.end = term.end
		prev.maybeEmpty = prev.maybeEmpty && term.maybeEmpty
	}
	return prev, nil
}

// parseTerm parses nonterminal Term, applying quantifiers iteratively.
func (p *parser) parseTerm() (fragment, error) {
	prev, err := p.parseAtom()
	if err != nil {
		return fragment{}, err
	}

	for {
		switch p.sc.Token() {
		case TokenStar:
			prev, err = p.parseStar(prev)
		case TokenPlus:
			prev, err = p.parsePlus(prev)
		case TokenOptional:
			prev, err = p.parseOptional(prev)
		default:
			return prev, nil
		}
		if err != nil {
			return fragment{}, err
		}
	}
}

// parseStar wraps f in a greedy star loop. If f can match empty, an
// Advance guard becomes the loop entry so the matcher cannot re-enter the
// body without consuming input.
func (p *parser) parseStar(f fragment) (fragment, error) {
	if err := p.sc.Advance(); err != nil {
		return fragment{}, err
	}

	entry := f.start
	if f.maybeEmpty {
		entry = p.prog.AppendAdvance(f.start)
	}

	// The body sits in the high-priority branch: greedy.
	loop := p.prog.AppendFork(entry, Dangled)
	p.prog.patch(f.end, loop)

	return fragment{start: loop, end: loop, maybeEmpty: true}, nil
}

// parsePlus is the star construction entered at the body, so at least one
// iteration runs.
func (p *parser) parsePlus(f fragment) (fragment, error) {
	if err := p.sc.Advance(); err != nil {
		return fragment{}, err
	}

	entry := f.start
	if f.maybeEmpty {
		entry = p.prog.AppendAdvance(f.start)
	}

	loop := p.prog.AppendFork(entry, Dangled)
	p.prog.patch(f.end, loop)

	return fragment{start: entry, end: loop, maybeEmpty: f.maybeEmpty}, nil
}

// parseOptional wraps f so it may be skipped. Taking f sits in the
// high-priority branch: greedy.
func (p *parser) parseOptional(f fragment) (fragment, error) {
	if err := p.sc.Advance(); err != nil {
		return fragment{}, err
	}

	merge := p.prog.AppendGoto(Dangled)
	fork := p.prog.AppendFork(f.start, merge)
	p.prog.patch(f.end, merge)

	return fragment{start: fork, end: merge, maybeEmpty: true}, nil
}

// parseAtom parses nonterminal Atom.
func (p *parser) parseAtom() (fragment, error) {
	switch p.sc.Token() {
	case TokenCharacter:
		id := p.prog.AppendMatchCharCategory(OrdinaryChar(p.sc.Char()), Dangled)
		if err := p.sc.Advance(); err != nil {
			return fragment{}, err
		}
		return fragment{start: id, end: id, maybeEmpty: false}, nil

	case TokenLeftGroup:
		if err := p.sc.Advance(); err != nil {
			return fragment{}, err
		}
		f, err := p.parseSub()
		if err != nil {
			return fragment{}, err
		}
		if p.sc.Token() != TokenRightGroup {
			return fragment{}, &ParseError{Code: ErrMissingRightGroup, Pos: p.sc.Pos()}
		}
		if err := p.sc.Advance(); err != nil {
			return fragment{}, err
		}
		return f, nil

	default:
		return fragment{}, &ParseError{Code: ErrMissingAtom, Pos: p.sc.Pos()}
	}
}

// atAtomHead reports whether the lookahead token can start an Atom.
func (p *parser) atAtomHead() bool {
	t := p.sc.Token()
	return t == TokenCharacter || t == TokenLeftGroup
}
