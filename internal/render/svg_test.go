package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard(t *testing.T) {
	var buf bytes.Buffer
	err := Board(&buf, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", Options{
		Markers: map[widget.Marker][]string{widget.MarkerCheck: {"e1"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Equal(t, 64+1, strings.Count(out, "<rect"))
	assert.Equal(t, 8, strings.Count(out, "♟"))
	assert.Equal(t, 8, strings.Count(out, "♙"))
	assert.Contains(t, out, `width="360"`)
}

func TestBoardFlipped(t *testing.T) {
	var white, black bytes.Buffer
	fen := "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
	require.NoError(t, Board(&white, fen, Options{Orientation: rules.White, SquareSize: 10}))
	require.NoError(t, Board(&black, fen, Options{Orientation: rules.Black, SquareSize: 10}))

	// White king on e1: bottom row for white, top row for black.
	assert.Contains(t, white.String(), `x="45" y="75"`)
	assert.Contains(t, black.String(), `x="35" y="5"`)
}

func TestBoardRejectsBadPosition(t *testing.T) {
	assert.Error(t, Board(&bytes.Buffer{}, "not a position", Options{}))
}
