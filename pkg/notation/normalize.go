package notation

import (
	"fmt"
	"log"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/grammar"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
)

type normalizer struct {
	already func(string) bool
	convert func(rules.Engine, string) (string, bool)
}

var (
	toLong  = normalizer{already: IsLongForm, convert: ShortToLong}
	toShort = normalizer{already: IsShortForm, convert: LongToShort}
)

// NormalizeToLong rewrites every move of a grammar string into long form,
// keeping its structure. When the first move is already long form, or anything
// fails to convert, the input is returned unchanged.
func NormalizeToLong(fen, moves string) string {
	return toLong.run(fen, moves)
}

// NormalizeToShort is the inverse of NormalizeToLong.
func NormalizeToShort(fen, moves string) string {
	return toShort.run(fen, moves)
}

func (n normalizer) run(fen, moves string) string {
	seq, err := grammar.Parse(moves)
	if err != nil {
		log.Printf("notation: %v", err)
		return moves
	}
	first, ok := seq.FirstMove()
	if !ok || n.already(string(first)) {
		return moves
	}
	start, err := rules.New(fen)
	if err != nil {
		log.Printf("notation: %v", err)
		return moves
	}
	out, _, err := n.sequence([]*rules.Game{start}, seq)
	if err != nil {
		log.Printf("notation: %v in %q", err, moves)
		return moves
	}
	return out.String()
}

// sequence converts the steps against every position the timeline may be in. The
// frontier grows past a branch group, one position per alternative; a move after
// the group has to convert identically in all of them.
func (n normalizer) sequence(frontier []*rules.Game, seq grammar.Sequence) (grammar.Sequence, []*rules.Game, error) {
	out := make(grammar.Sequence, 0, len(seq))
	for _, st := range seq {
		switch st := st.(type) {
		case grammar.Move:
			conv, err := n.move(frontier, string(st))
			if err != nil {
				return nil, nil, err
			}
			if err := advance(frontier, string(st)); err != nil {
				return nil, nil, err
			}
			out = append(out, grammar.Move(conv))
		case grammar.AltGroup:
			alts := make(grammar.AltGroup, len(st))
			for i, m := range st {
				conv, err := n.move(frontier, string(m))
				if err != nil {
					return nil, nil, err
				}
				alts[i] = grammar.Move(conv)
			}
			if len(st) > 0 {
				if err := advance(frontier, string(st[0])); err != nil {
					return nil, nil, err
				}
			}
			out = append(out, alts)
		case grammar.BranchGroup:
			group := make(grammar.BranchGroup, len(st))
			var next []*rules.Game
			for i, alt := range st {
				conv, ends, err := n.sequence(cloneAll(frontier), alt)
				if err != nil {
					return nil, nil, err
				}
				group[i] = conv
				next = append(next, ends...)
			}
			if len(st) > 0 {
				frontier = dedupe(next)
			}
			out = append(out, group)
		}
	}
	return out, frontier, nil
}

func (n normalizer) move(frontier []*rules.Game, token string) (string, error) {
	if n.already(token) {
		return token, nil
	}
	var out string
	for i, g := range frontier {
		conv, ok := n.convert(g, token)
		if !ok {
			return "", fmt.Errorf("cannot convert %s in %s", token, g.FEN())
		}
		if i > 0 && conv != out {
			return "", fmt.Errorf("%s means %s and %s after different branches", token, out, conv)
		}
		out = conv
	}
	return out, nil
}

func advance(frontier []*rules.Game, token string) error {
	for _, g := range frontier {
		if _, err := Play(g, token); err != nil {
			return err
		}
	}
	return nil
}

func cloneAll(games []*rules.Game) []*rules.Game {
	out := make([]*rules.Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
	}
	return out
}

func dedupe(games []*rules.Game) []*rules.Game {
	seen := make(map[string]bool, len(games))
	out := games[:0]
	for _, g := range games {
		fen := g.FEN()
		if seen[fen] {
			continue
		}
		seen[fen] = true
		out = append(out, g)
	}
	return out
}
