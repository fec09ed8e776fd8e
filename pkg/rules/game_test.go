package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestMoveAndUndo(t *testing.T) {
	g, err := New(startFEN)
	require.NoError(t, err)
	assert.Equal(t, White, g.Turn())

	rec, err := g.Move(MoveSpec{From: "e2", To: "e4"})
	require.NoError(t, err)
	assert.Equal(t, "e2e4", rec.LongForm())
	assert.Equal(t, "e4", rec.SAN)
	assert.Equal(t, Black, g.Turn())

	p, ok := g.Get("e4")
	require.True(t, ok)
	assert.Equal(t, Piece{Color: White, Kind: 'p'}, p)
	_, ok = g.Get("e2")
	assert.False(t, ok)

	require.NoError(t, g.Undo())
	assert.Equal(t, startFEN, g.FEN())
	assert.ErrorIs(t, g.Undo(), ErrNothingToUndo)
}

func TestIllegalMoveLeavesPosition(t *testing.T) {
	g, err := New(startFEN)
	require.NoError(t, err)

	_, err = g.Move(MoveSpec{From: "e2", To: "e5"})
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = g.MoveSAN("Nf6")
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = g.Move(MoveSpec{From: "z9", To: "e4"})
	assert.ErrorIs(t, err, ErrBadSquare)
	assert.Equal(t, startFEN, g.FEN())
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	g, err := New("8/4P1k1/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	rec, err := g.Move(MoveSpec{From: "e7", To: "e8"})
	require.NoError(t, err)
	assert.Equal(t, "e7e8q", rec.LongForm())
	p, _ := g.Get("e8")
	assert.Equal(t, byte('q'), p.Kind)

	require.NoError(t, g.Undo())
	rec, err = g.Move(MoveSpec{From: "e7", To: "e8", Promotion: 'n'})
	require.NoError(t, err)
	assert.Equal(t, "e7e8n", rec.LongForm())
}

func TestCheckmateDetection(t *testing.T) {
	g, err := New("rn1qkbnr/pbpp1ppp/1p6/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 1")
	require.NoError(t, err)

	rec, err := g.MoveSAN("Qxf7#")
	require.NoError(t, err)
	assert.Equal(t, "f3f7", rec.LongForm())
	assert.True(t, rec.Checkmate)
	assert.True(t, g.InCheck())
	assert.True(t, g.InCheckmate())
	assert.True(t, g.GameOver())

	sq, ok := KingSquare(g, g.Turn())
	require.True(t, ok)
	assert.Equal(t, "e8", sq)
}

func TestCheckWithoutMate(t *testing.T) {
	g, err := New("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	_, err = g.Move(MoveSpec{From: "a1", To: "a8"})
	require.NoError(t, err)
	assert.True(t, g.InCheck())
	assert.False(t, g.InCheckmate())
	assert.False(t, g.GameOver())
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := New("not a position")
	assert.Error(t, err)
}

func TestBoardOrientation(t *testing.T) {
	g, err := New(startFEN)
	require.NoError(t, err)
	board := g.Board()
	assert.Equal(t, Piece{Color: Black, Kind: 'r'}, board[0][0])
	assert.Equal(t, Piece{Color: White, Kind: 'k'}, board[7][4])
}

func TestParseLong(t *testing.T) {
	spec, err := ParseLong("e7e8Q")
	require.NoError(t, err)
	assert.Equal(t, MoveSpec{From: "e7", To: "e8", Promotion: 'q'}, spec)

	_, err = ParseLong("Nf3")
	assert.Error(t, err)
}

func TestSideToMove(t *testing.T) {
	c, ok := SideToMove(startFEN)
	require.True(t, ok)
	assert.Equal(t, White, c)

	_, ok = SideToMove("8/8/8/8/8/8/8/8")
	assert.False(t, ok)
}
