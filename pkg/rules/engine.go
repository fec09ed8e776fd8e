// Package rules is the chess rules collaborator of the widget: it loads positions,
// validates and applies moves, and reports check and checkmate.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrBadSquare     = errors.New("bad square")
)

type Color int8

const (
	NoColor Color = iota
	White
	Black
)

// String returns the position-string letter of the side, "w" or "b".
func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	}
	return "-"
}

// Name returns "white" or "black", the form used for board orientation.
func (c Color) Name() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// ParseColor accepts "w", "b", "white" and "black".
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, true
	case "b", "black":
		return Black, true
	}
	return NoColor, false
}

// Piece is a colored piece; Kind is one of 'k', 'q', 'r', 'b', 'n', 'p'.
type Piece struct {
	Color Color
	Kind  byte
}

var NoPiece = Piece{}

// MoveSpec names a move by its squares. Promotion is 'q', 'r', 'b', 'n' or 0;
// zero promotes to a queen when the move needs one.
type MoveSpec struct {
	From      string
	To        string
	Promotion byte
}

// ParseLong decomposes a long-form token such as "e2e4" or "e7e8q".
func ParseLong(token string) (MoveSpec, error) {
	token = strings.TrimSpace(token)
	if len(token) != 4 && len(token) != 5 {
		return MoveSpec{}, fmt.Errorf("%w: %q is not a long-form move", ErrIllegalMove, token)
	}
	spec := MoveSpec{From: strings.ToLower(token[:2]), To: strings.ToLower(token[2:4])}
	if len(token) == 5 {
		spec.Promotion = lower(token[4])
	}
	return spec, nil
}

// Record describes a move the engine has applied.
type Record struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion byte   `json:"-"`
	SAN       string `json:"san"`
	Check     bool   `json:"check"`
	Checkmate bool   `json:"checkmate"`
}

// LongForm renders the record as from+to plus the promotion letter, if any.
func (r Record) LongForm() string {
	if r.Promotion == 0 {
		return r.From + r.To
	}
	return r.From + r.To + string(r.Promotion)
}

// Engine is what the widget needs from a rules implementation.
type Engine interface {
	Turn() Color
	Get(square string) (Piece, bool)
	Move(spec MoveSpec) (Record, error)
	MoveSAN(san string) (Record, error)
	Undo() error
	InCheck() bool
	InCheckmate() bool
	GameOver() bool
	Board() [8][8]Piece
	FEN() string
	Load(fen string) error
}

// KingSquare scans the board for the king of the given color.
func KingSquare(e Engine, c Color) (string, bool) {
	board := e.Board()
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := board[r][f]
			if p.Kind == 'k' && p.Color == c {
				return SquareName(f, 7-r), true
			}
		}
	}
	return "", false
}

// SquareName renders zero-based file and rank indexes, e.g. (4, 3) is "e4".
func SquareName(file, rank int) string {
	return string([]byte{byte('a' + file), byte('1' + rank)})
}

// ParseSquare returns zero-based file and rank indexes of a square like "e4".
func ParseSquare(sq string) (file, rank int, err error) {
	if len(sq) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSquare, sq)
	}
	file = int(lower(sq[0]) - 'a')
	rank = int(sq[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSquare, sq)
	}
	return file, rank, nil
}

// SideToMove reads the side-to-move field of a position string without a full parse.
func SideToMove(fen string) (Color, bool) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return NoColor, false
	}
	return ParseColor(fields[1])
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
