package nfa

import (
	"testing"
)

// group is an expected sub-match in text form.
type group struct {
	text    string
	matched bool
}

func g(text string) group {
	return group{text: text, matched: true}
}

func unmatched() group {
	return group{}
}

func checkGroups(t *testing.T, res *MatchResults, want []group) {
	t.Helper()
	if res.GroupCount() != len(want) {
		t.Fatalf("GroupCount() = %d, want %d", res.GroupCount(), len(want))
	}
	for i, w := range want {
		sub := res.Group(i)
		if sub.Matched != w.matched {
			t.Errorf("group %d: matched = %v, want %v", i, sub.Matched, w.matched)
			continue
		}
		if got := res.Text(i); got != w.text {
			t.Errorf("group %d: text = %q, want %q", i, got, w.text)
		}
	}
}

func compileMatch(t *testing.T, pattern, input string) *MatchResults {
	t.Helper()
	p, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return Match(p, []byte(input))
}

func compileSearch(t *testing.T, pattern, input string) *MatchResults {
	t.Helper()
	p, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return Match(p.SearchProgram(), []byte(input))
}

func TestMatchAnchored(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		ready   bool
		groups  []group
	}{
		{
			name: "literal with group", pattern: "a(b)c", input: "abc",
			ready: true, groups: []group{g("abc"), g("b")},
		},
		{
			name: "literal mismatch", pattern: "a(b)c", input: "acd",
			ready: false,
		},
		{
			name: "match is a prefix", pattern: "a(b)((c))", input: "abcd",
			ready: true, groups: []group{g("abc"), g("b"), g("c"), g("c")},
		},
		{
			name: "double star terminates", pattern: "a**", input: "b",
			ready: true, groups: []group{g("")},
		},
		{
			name: "double star consumes", pattern: "a**", input: "aaa",
			ready: true, groups: []group{g("aaa")},
		},
		{
			name: "empty plus", pattern: "()+", input: "x",
			ready: true, groups: []group{g(""), g("")},
		},
		{
			name: "nested quantifiers", pattern: "a+(b*(c|d+)+(e?))*", input: "aaaabcceddcdc",
			ready: true, groups: []group{g("aaaabcceddcdc"), g("ddcdc"), g("c"), g("")},
		},
		{
			name: "repeated group keeps last iteration", pattern: "(a|bc?de+(f*))+", input: "abdeeeeb",
			ready: true, groups: []group{g("abdeeee"), g("bdeeee"), g("")},
		},
		{
			name: "empty pattern empty input", pattern: "", input: "",
			ready: true, groups: []group{g("")},
		},
		{
			name: "empty pattern nonempty input", pattern: "", input: "xyz",
			ready: true, groups: []group{g("")},
		},
		{
			name: "alternation prefers left", pattern: "a|ab", input: "ab",
			ready: true, groups: []group{g("a")},
		},
		{
			name: "greedy star", pattern: "(a*)", input: "aaa",
			ready: true, groups: []group{g("aaa"), g("aaa")},
		},
		{
			name: "optional participates", pattern: "a(b?)c", input: "ac",
			ready: true, groups: []group{g("ac"), g("")},
		},
		{
			name: "unparticipated alternative", pattern: "(a)|b", input: "b",
			ready: true, groups: []group{g("b"), unmatched()},
		},
		{
			name: "input exhausted mid pattern", pattern: "abc", input: "ab",
			ready: false,
		},
		{
			name: "empty input nonempty pattern", pattern: "a", input: "",
			ready: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileMatch(t, tt.pattern, tt.input)
			if res.Ready() != tt.ready {
				t.Fatalf("Ready() = %v, want %v", res.Ready(), tt.ready)
			}
			if tt.ready {
				checkGroups(t, res, tt.groups)
			}
		})
	}
}

func TestMatchSearchProgram(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		ready   bool
		begin   int
		text    string
	}{
		{
			name: "leftmost occurrence", pattern: "ab+c", input: "acaabcdabbcabbbc",
			ready: true, begin: 3, text: "abc",
		},
		{
			name: "no occurrence", pattern: "ab+c", input: "acaabdabbabbb",
			ready: false,
		},
		{
			name: "lazy prefix", pattern: "a", input: "baab",
			ready: true, begin: 1, text: "a",
		},
		{
			name: "occurrence at end", pattern: "c", input: "abc",
			ready: true, begin: 2, text: "c",
		},
		{
			name: "empty match at start", pattern: "a*", input: "bbb",
			ready: true, begin: 0, text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileSearch(t, tt.pattern, tt.input)
			if res.Ready() != tt.ready {
				t.Fatalf("Ready() = %v, want %v", res.Ready(), tt.ready)
			}
			if !tt.ready {
				return
			}
			sub := res.Group(0)
			if sub.Begin != tt.begin {
				t.Errorf("group 0 begins at %d, want %d", sub.Begin, tt.begin)
			}
			if got := res.Text(0); got != tt.text {
				t.Errorf("group 0 text = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestMatchAtOffset(t *testing.T) {
	p, err := Compile("ab")
	if err != nil {
		t.Fatal(err)
	}
	res := MatchAt(p, []byte("xxab"), 2)
	if !res.Ready() {
		t.Fatal("Ready() = false, want true")
	}
	sub := res.Group(0)
	if sub.Begin != 2 || sub.End != 4 {
		t.Errorf("group 0 = [%d, %d), want [2, 4)", sub.Begin, sub.End)
	}

	if MatchAt(p, []byte("abxx"), 2).Ready() {
		t.Error("match at offset 2 succeeded, want failure")
	}

	// Starting at or past the input end leaves nothing to consume.
	if MatchAt(p, []byte("ab"), 2).Ready() {
		t.Error("match at input end succeeded for a consuming pattern")
	}
}

// TestMatchExtentsWithinInput checks that every matched group lies within
// the input and is well-ordered.
func TestMatchExtentsWithinInput(t *testing.T) {
	cases := []struct {
		pattern string
		input   string
	}{
		{"a+(b*(c|d+)+(e?))*", "aaaabcceddcdc"},
		{"(a|bc?de+(f*))+", "abdeeeeb"},
		{"(a*)(b*)(c*)", "aabbcc"},
		{"((((a))))", "a"},
	}
	for _, tt := range cases {
		res := compileMatch(t, tt.pattern, tt.input)
		if !res.Ready() {
			t.Errorf("%q on %q: not ready", tt.pattern, tt.input)
			continue
		}
		for i := 0; i < res.GroupCount(); i++ {
			sub := res.Group(i)
			if !sub.Matched {
				continue
			}
			if sub.Begin > sub.End || sub.Begin < 0 || sub.End > len(tt.input) {
				t.Errorf("%q group %d: bad extent [%d, %d)", tt.pattern, i, sub.Begin, sub.End)
			}
		}
	}
}

// TestMatchGroupZeroSpansMatch checks the round-trip property: the
// recorded group-0 extent reproduces the matched prefix exactly.
func TestMatchGroupZeroSpansMatch(t *testing.T) {
	cases := []struct {
		pattern string
		input   string
	}{
		{"abc", "abcdef"},
		{"a(b|c)*", "acbcbx"},
		{"a?b?c?", "cab"},
	}
	for _, tt := range cases {
		res := compileMatch(t, tt.pattern, tt.input)
		if !res.Ready() {
			t.Errorf("%q on %q: not ready", tt.pattern, tt.input)
			continue
		}
		sub := res.Group(0)
		if sub.Begin != 0 {
			t.Errorf("%q: group 0 begins at %d, want 0", tt.pattern, sub.Begin)
		}
		if got, want := res.Text(0), tt.input[:sub.End]; got != want {
			t.Errorf("%q: group 0 = %q, input prefix = %q", tt.pattern, got, want)
		}
	}
}

// TestMatchPathologicalTermination exercises patterns admitting only
// empty loops; the per-closure deduplication must terminate them.
func TestMatchPathologicalTermination(t *testing.T) {
	patterns := []string{"a**", "()+", "()*", "(a|)*", "(a*)*", "(a*)+", "(()*)*"}
	inputs := []string{"", "b", "aaab", "aaaaaaaaaa"}
	for _, pattern := range patterns {
		for _, input := range inputs {
			res := compileMatch(t, pattern, input)
			if !res.Ready() {
				t.Errorf("%q on %q: not ready, want empty-capable match", pattern, input)
			}
		}
	}
}

func TestCaptureCopyOnWrite(t *testing.T) {
	base := newCapture(2)
	base = base.setStart(0, 0)

	fork := base.clone()
	fork = fork.setEnd(0, 3)

	if got := base.copySlots()[1]; got != -1 {
		t.Errorf("writing through the clone changed the original end slot: %d", got)
	}
	if got := fork.copySlots()[1]; got != 3 {
		t.Errorf("clone end slot = %d, want 3", got)
	}

	// Exclusive owner writes in place.
	solo := newCapture(1)
	before := solo.shared
	solo = solo.set(0, 7)
	if solo.shared != before {
		t.Error("exclusive write reallocated the slots")
	}
}
