package nfa

// SubMatch records the extent of one capturing group within the input.
// When Matched is false the group did not participate in the match and the
// position fields are meaningless.
type SubMatch struct {
	Begin   int
	End     int
	Matched bool
}

// Len returns the length of the sub-match, 0 when unmatched.
func (s SubMatch) Len() int {
	if !s.Matched {
		return 0
	}
	return s.End - s.Begin
}

// MatchResults holds one SubMatch per capturing group, indexed by group
// ID, plus the input they refer to. Ready reports whether a successful
// match was recorded; when false the group entries are all unmatched.
//
// Group 0 spans the whole match; groups 1..N cover inner groups in
// left-paren order.
type MatchResults struct {
	input []byte
	subs  []SubMatch
	ready bool
}

// NoMatch returns an unready result for input, sized to the program's
// mark count so every group ID is represented.
func NoMatch(prog *Program, input []byte) *MatchResults {
	return &MatchResults{input: input, subs: make([]SubMatch, prog.MarkCount())}
}

// Ready reports whether a successful match has been recorded.
func (m *MatchResults) Ready() bool {
	return m.ready
}

// GroupCount returns the number of capturing groups, including the
// implicit group 0.
func (m *MatchResults) GroupCount() int {
	return len(m.subs)
}

// Group returns the sub-match for the given group ID.
// Returns a zero SubMatch if the ID is out of range.
func (m *MatchResults) Group(id int) SubMatch {
	if id < 0 || id >= len(m.subs) {
		return SubMatch{}
	}
	return m.subs[id]
}

// Bytes returns the input bytes spanned by the given group, nil when the
// group is unmatched. The slice aliases the searched input.
func (m *MatchResults) Bytes(id int) []byte {
	s := m.Group(id)
	if !s.Matched {
		return nil
	}
	return m.input[s.Begin:s.End]
}

// Text returns the input text spanned by the given group, "" when the
// group is unmatched.
func (m *MatchResults) Text(id int) string {
	return string(m.Bytes(id))
}
