// Package notation converts moves between long form ("g1f3", "e7e8q") and short
// algebraic notation ("Nf3", "e8=Q"), using a rules engine as the oracle.
package notation

import (
	"regexp"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
)

var (
	longForm  = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbnQRBN]?$`)
	shortForm = regexp.MustCompile(`^([KQRBN]?[a-h]?[1-8]?x?[a-h][1-8](=[QRBN])?|O-O(-O)?)[+#]?$`)
)

// IsLongForm reports whether token is from-square + to-square + optional promotion.
func IsLongForm(token string) bool {
	return longForm.MatchString(token)
}

// IsShortForm reports whether token has the shape of a short algebraic move.
// Long-form tokens are excluded even though "e2e4" also fits the short shape.
func IsShortForm(token string) bool {
	return shortForm.MatchString(token) && !IsLongForm(token)
}

// ShortToLong resolves a short-form move in the engine's current position. The
// engine is left in the position it had before the call.
func ShortToLong(e rules.Engine, token string) (string, bool) {
	before := e.FEN()
	rec, err := e.MoveSAN(token)
	if err != nil {
		restore(e, before)
		return "", false
	}
	if err := e.Undo(); err != nil {
		restore(e, before)
	}
	return rec.LongForm(), true
}

// LongToShort renders a long-form move as the engine's short notation. A missing
// promotion letter means a queen when the move promotes.
func LongToShort(e rules.Engine, token string) (string, bool) {
	spec, err := rules.ParseLong(token)
	if err != nil {
		return "", false
	}
	before := e.FEN()
	rec, err := e.Move(spec)
	if err != nil {
		restore(e, before)
		return "", false
	}
	if err := e.Undo(); err != nil {
		restore(e, before)
	}
	return rec.SAN, true
}

func restore(e rules.Engine, fen string) {
	if e.FEN() == fen {
		return
	}
	_ = e.Load(fen)
}

// Play applies a token in whichever notation it is written.
func Play(e rules.Engine, token string) (rules.Record, error) {
	if IsLongForm(token) {
		spec, err := rules.ParseLong(token)
		if err != nil {
			return rules.Record{}, err
		}
		return e.Move(spec)
	}
	return e.MoveSAN(token)
}
