package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

type frame struct {
	pos  *chess.Position
	last *chess.Move
}

// Game is an Engine backed by github.com/notnil/chess. Positions are immutable
// there, so history is a stack of positions and Undo pops it.
type Game struct {
	pos     *chess.Position
	last    *chess.Move
	history []frame
}

var _ Engine = (*Game)(nil)

// New loads a game from a position string.
func New(fen string) (*Game, error) {
	g := &Game{}
	if err := g.Load(fen); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) Load(fen string) error {
	fenFunc, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", fen, err)
	}
	g.pos = chess.NewGame(fenFunc).Position()
	g.last = nil
	g.history = nil
	return nil
}

// Clone returns an independent copy sharing the immutable positions.
func (g *Game) Clone() *Game {
	history := make([]frame, len(g.history))
	copy(history, g.history)
	return &Game{pos: g.pos, last: g.last, history: history}
}

func (g *Game) Turn() Color {
	return fromChessColor(g.pos.Turn())
}

func (g *Game) Get(square string) (Piece, bool) {
	sq, err := toSquare(square)
	if err != nil {
		return NoPiece, false
	}
	p := g.pos.Board().Piece(sq)
	if p == chess.NoPiece {
		return NoPiece, false
	}
	return fromChessPiece(p), true
}

func (g *Game) Move(spec MoveSpec) (Record, error) {
	s1, err := toSquare(spec.From)
	if err != nil {
		return Record{}, err
	}
	s2, err := toSquare(spec.To)
	if err != nil {
		return Record{}, err
	}
	promo := chess.NoPieceType
	if spec.Promotion != 0 {
		if promo = promotionType(spec.Promotion); promo == chess.NoPieceType {
			return Record{}, fmt.Errorf("%w: bad promotion %q", ErrIllegalMove, spec.Promotion)
		}
	}

	var found *chess.Move
	for _, m := range g.pos.ValidMoves() {
		if m.S1() != s1 || m.S2() != s2 {
			continue
		}
		if m.Promo() == promo || (promo == chess.NoPieceType && m.Promo() == chess.Queen) {
			found = m
			break
		}
	}
	if found == nil {
		return Record{}, fmt.Errorf("%w: %s%s in %s", ErrIllegalMove, spec.From, spec.To, g.pos.String())
	}
	return g.apply(found), nil
}

func (g *Game) MoveSAN(san string) (Record, error) {
	m, err := chess.AlgebraicNotation{}.Decode(g.pos, san)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrIllegalMove, err)
	}
	// Decode may hand back a move built from the text; use the generated one so the
	// tags are complete.
	for _, vm := range g.pos.ValidMoves() {
		if vm.S1() == m.S1() && vm.S2() == m.S2() && vm.Promo() == m.Promo() {
			return g.apply(vm), nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, san, g.pos.String())
}

func (g *Game) apply(m *chess.Move) Record {
	san := chess.AlgebraicNotation{}.Encode(g.pos, m)
	g.history = append(g.history, frame{pos: g.pos, last: g.last})
	g.pos = g.pos.Update(m)
	g.last = m

	rec := Record{
		From:      squareString(m.S1()),
		To:        squareString(m.S2()),
		Promotion: promotionLetter(m.Promo()),
		SAN:       san,
		Check:     m.HasTag(chess.Check),
		Checkmate: g.pos.Status() == chess.Checkmate,
	}
	return rec
}

func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	top := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.pos = top.pos
	g.last = top.last
	return nil
}

// InCheck relies on the tag of the move that produced the position; a freshly
// loaded position reports check only when it is mate.
func (g *Game) InCheck() bool {
	if g.last != nil && g.last.HasTag(chess.Check) {
		return true
	}
	return g.InCheckmate()
}

func (g *Game) InCheckmate() bool {
	return g.pos.Status() == chess.Checkmate
}

func (g *Game) GameOver() bool {
	return g.pos.Status() != chess.NoMethod
}

// Board returns the grid with rank 8 in row 0 and file a in column 0.
func (g *Game) Board() [8][8]Piece {
	var grid [8][8]Piece
	b := g.pos.Board()
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			p := b.Piece(chess.Square(rank*8 + file))
			if p == chess.NoPiece {
				continue
			}
			grid[7-rank][file] = fromChessPiece(p)
		}
	}
	return grid
}

func (g *Game) FEN() string {
	return g.pos.String()
}

func toSquare(s string) (chess.Square, error) {
	file, rank, err := ParseSquare(s)
	if err != nil {
		return chess.NoSquare, err
	}
	return chess.Square(rank*8 + file), nil
}

func squareString(sq chess.Square) string {
	return SquareName(int(sq)%8, int(sq)/8)
}

func fromChessColor(c chess.Color) Color {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return NoColor
}

func fromChessPiece(p chess.Piece) Piece {
	var kind byte
	switch p.Type() {
	case chess.King:
		kind = 'k'
	case chess.Queen:
		kind = 'q'
	case chess.Rook:
		kind = 'r'
	case chess.Bishop:
		kind = 'b'
	case chess.Knight:
		kind = 'n'
	case chess.Pawn:
		kind = 'p'
	}
	return Piece{Color: fromChessColor(p.Color()), Kind: kind}
}

func promotionType(b byte) chess.PieceType {
	switch lower(b) {
	case 'q':
		return chess.Queen
	case 'r':
		return chess.Rook
	case 'b':
		return chess.Bishop
	case 'n':
		return chess.Knight
	}
	return chess.NoPieceType
}

func promotionLetter(pt chess.PieceType) byte {
	switch pt {
	case chess.Queen:
		return 'q'
	case chess.Rook:
		return 'r'
	case chess.Bishop:
		return 'b'
	case chess.Knight:
		return 'n'
	}
	return 0
}
