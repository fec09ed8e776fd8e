// Package grammar parses puzzle solution strings such as
//
//	d8h4,[g4h4,g8g1|h2h3,h4h3]
//	Re8,Kh7,{Ng7#|Qe7#}
//
// into a tree and flattens the tree into the linear solution paths of a puzzle.
// Square brackets fork the solution into branches (every branch has to be solved);
// curly braces list interchangeable moves for a single step.
package grammar

import "strings"

// Step is one element of a Sequence: a Move, an AltGroup or a BranchGroup.
type Step interface {
	String() string
	step()
}

// Move is a single move token in either notation.
type Move string

// AltGroup is a set of moves any of which satisfies the step.
type AltGroup []Move

// BranchGroup forks the continuation; each alternative is followed by the rest of
// the enclosing sequence.
type BranchGroup []Sequence

// Sequence is a comma separated run of steps.
type Sequence []Step

func (Move) step()        {}
func (AltGroup) step()    {}
func (BranchGroup) step() {}

func (m Move) String() string { return string(m) }

func (a AltGroup) String() string {
	parts := make([]string, len(a))
	for i, m := range a {
		parts[i] = string(m)
	}
	return "{" + strings.Join(parts, "|") + "}"
}

func (b BranchGroup) String() string {
	parts := make([]string, len(b))
	for i, seq := range b {
		parts[i] = seq.String()
	}
	return "[" + strings.Join(parts, "|") + "]"
}

// String renders the sequence back into grammar text without whitespace.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, st := range s {
		parts[i] = st.String()
	}
	return strings.Join(parts, ",")
}

// FirstMove returns the first move token reachable from the start of the sequence,
// descending into groups.
func (s Sequence) FirstMove() (Move, bool) {
	for _, st := range s {
		switch st := st.(type) {
		case Move:
			return st, true
		case AltGroup:
			if len(st) > 0 {
				return st[0], true
			}
		case BranchGroup:
			for _, alt := range st {
				if m, ok := alt.FirstMove(); ok {
					return m, true
				}
			}
		}
	}
	return "", false
}
