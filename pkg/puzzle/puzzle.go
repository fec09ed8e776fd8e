// Package puzzle holds puzzle definitions and the ways they reach a widget: the
// built-in defaults, a YAML catalog, and host-page query parameters.
package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/grammar"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/notation"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
)

var ErrNoMoves = errors.New("puzzle has no moves")

// Definition is a puzzle as supplied by the host: starting position, solution
// grammar and the message shown above the board.
type Definition struct {
	FEN         string `json:"fen" yaml:"fen" bson:"fen"`
	Moves       string `json:"moves" yaml:"moves" bson:"moves"`
	Message     string `json:"message" yaml:"message" bson:"message"`
	Orientation string `json:"orientation,omitempty" yaml:"orientation,omitempty" bson:"orientation,omitempty"`
}

func (d Definition) String() string {
	j, _ := json.MarshalIndent(d, "", "\t")
	return string(j)
}

// Normalized returns the definition with its moves rewritten into long form.
func (d Definition) Normalized() Definition {
	d.Moves = notation.NormalizeToLong(d.FEN, d.Moves)
	return d
}

// Branches parses the solution grammar.
func (d Definition) Branches() (grammar.BranchSet, error) {
	bs, err := grammar.Expand(d.Moves)
	if err != nil {
		return nil, err
	}
	out := bs[:0]
	for _, b := range bs {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMoves
	}
	return out, nil
}

// PlayerSide is the side the solver plays: the explicit orientation when set,
// otherwise the side to move in the starting position.
func (d Definition) PlayerSide() rules.Color {
	if c, ok := rules.ParseColor(d.Orientation); ok {
		return c
	}
	if c, ok := rules.SideToMove(d.FEN); ok {
		return c
	}
	return rules.White
}

// Validate replays every branch from the starting position, trying every member
// of each alternative set, and reports the first move the rules reject.
func Validate(d Definition) error {
	start, err := rules.New(d.FEN)
	if err != nil {
		return err
	}
	bs, err := d.Branches()
	if err != nil {
		return err
	}
	for bi, b := range bs {
		g := start.Clone()
		for mi, entry := range b {
			for _, m := range entry[1:] {
				probe := g.Clone()
				if _, err := notation.Play(probe, m); err != nil {
					return fmt.Errorf("branch %d move %d (%s): %w", bi+1, mi+1, m, err)
				}
			}
			if _, err := notation.Play(g, entry.First()); err != nil {
				return fmt.Errorf("branch %d move %d (%s): %w", bi+1, mi+1, entry.First(), err)
			}
		}
	}
	return nil
}
