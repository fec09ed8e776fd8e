package grammar

import (
	"encoding/json"
	"strings"
)

// Entry is one step of a Branch: a single move, or several interchangeable ones.
type Entry []string

// Branch is one complete solution path.
type Branch []Entry

// BranchSet holds every Branch of a puzzle in depth-first, left-to-right order.
type BranchSet []Branch

func (e Entry) IsAlternative() bool {
	return len(e) > 1
}

// First returns the representative move of the entry.
func (e Entry) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0]
}

// Matches reports whether a played long-form move satisfies the entry.
func (e Entry) Matches(played string) bool {
	for _, m := range e {
		if sameMove(m, played) {
			return true
		}
	}
	return false
}

// sameMove compares case-insensitively; an expected move written without its
// promotion letter accepts the default queen promotion.
func sameMove(expected, played string) bool {
	if strings.EqualFold(expected, played) {
		return true
	}
	return len(expected) == 4 && len(played) == 5 &&
		(played[4] == 'q' || played[4] == 'Q') &&
		strings.EqualFold(expected, played[:4])
}

func (e Entry) Equal(o Entry) bool {
	if len(e) != len(o) {
		return false
	}
	for i := range e {
		if e[i] != o[i] {
			return false
		}
	}
	return true
}

func (e Entry) String() string {
	if len(e) == 1 {
		return e[0]
	}
	return "{" + strings.Join(e, "|") + "}"
}

// MarshalJSON writes a single move as a string and alternatives as an array.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e) == 1 {
		return json.Marshal(e[0])
	}
	return json.Marshal([]string(e))
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = Entry{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = Entry(many)
	return nil
}

func (b Branch) String() string {
	parts := make([]string, len(b))
	for i, e := range b {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// CommonPrefixLen is the length of the longest shared prefix of two branches,
// i.e. the depth of their nearest common ancestor.
func CommonPrefixLen(a, b Branch) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !a[i].Equal(b[i]) {
			return i
		}
	}
	return n
}

// Flatten expands the tree into its solution paths. A BranchGroup is replaced by
// each of its alternatives followed by the remaining steps; an AltGroup stays a
// single Entry.
func Flatten(seq Sequence) BranchSet {
	return expand(seq)
}

func expand(steps []Step) BranchSet {
	var prefix Branch
	for i, st := range steps {
		switch st := st.(type) {
		case Move:
			prefix = append(prefix, Entry{string(st)})
		case AltGroup:
			if len(st) == 0 {
				continue
			}
			entry := make(Entry, len(st))
			for j, m := range st {
				entry[j] = string(m)
			}
			prefix = append(prefix, entry)
		case BranchGroup:
			rest := steps[i+1:]
			if len(st) == 0 {
				return prepend(prefix, expand(rest))
			}
			var out BranchSet
			for _, alt := range st {
				joined := make([]Step, 0, len(alt)+len(rest))
				joined = append(joined, alt...)
				joined = append(joined, rest...)
				out = append(out, prepend(prefix, expand(joined))...)
			}
			return out
		}
	}
	return BranchSet{prefix}
}

func prepend(prefix Branch, paths BranchSet) BranchSet {
	out := make(BranchSet, 0, len(paths))
	for _, path := range paths {
		b := make(Branch, 0, len(prefix)+len(path))
		b = append(b, prefix...)
		b = append(b, path...)
		out = append(out, b)
	}
	return out
}

// Expand parses and flattens a grammar string.
func Expand(s string) (BranchSet, error) {
	seq, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return Flatten(seq), nil
}
