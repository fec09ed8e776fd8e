// Package render draws a puzzle board as SVG for hosts without a board of their own.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
)

const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
)

var markerStyles = map[widget.Marker]string{
	widget.MarkerMove:   "fill:#9bc700;fill-opacity:0.45",
	widget.MarkerSource: "fill:#e06666;fill-opacity:0.45",
	widget.MarkerCheck:  "fill:#ff0000;fill-opacity:0.55",
}

var glyphs = map[rules.Color]map[byte]string{
	rules.White: {'k': "♔", 'q': "♕", 'r': "♖", 'b': "♗", 'n': "♘", 'p': "♙"},
	rules.Black: {'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟"},
}

type Options struct {
	Orientation rules.Color
	Markers     map[widget.Marker][]string
	// SquareSize is in pixels; zero means 45.
	SquareSize int
	Coordinates bool
}

// Board writes the position as an SVG image seen from the orientation side.
func Board(w io.Writer, fen string, opts Options) error {
	g, err := rules.New(fen)
	if err != nil {
		return err
	}
	size := opts.SquareSize
	if size <= 0 {
		size = 45
	}
	board := g.Board()

	canvas := svg.New(w)
	canvas.Start(size*8, size*8)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			file, rank := col, 7-row
			if opts.Orientation == rules.Black {
				file, rank = 7-col, row
			}
			x, y := col*size, row*size
			fill := lightSquare
			if (file+rank)%2 == 0 {
				fill = darkSquare
			}
			canvas.Rect(x, y, size, size, "fill:"+fill)
			if opts.Coordinates && col == 0 {
				canvas.Text(x+2, y+size/4, fmt.Sprint(rank+1), fmt.Sprintf("font-size:%dpx;fill:#555", size/5))
			}
			if opts.Coordinates && row == 7 {
				canvas.Text(x+size-size/5, y+size-3, string(rune('a'+file)), fmt.Sprintf("font-size:%dpx;fill:#555", size/5))
			}
		}
	}

	for _, kind := range []widget.Marker{widget.MarkerMove, widget.MarkerSource, widget.MarkerCheck} {
		for _, sq := range opts.Markers[kind] {
			file, rank, err := rules.ParseSquare(sq)
			if err != nil {
				continue
			}
			col, row := file, 7-rank
			if opts.Orientation == rules.Black {
				col, row = 7-file, rank
			}
			canvas.Rect(col*size, row*size, size, size, markerStyles[kind])
		}
	}

	style := fmt.Sprintf("font-size:%dpx;text-anchor:middle;dominant-baseline:central", size*4/5)
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := board[r][f]
			if p.Kind == 0 {
				continue
			}
			col, row := f, r
			if opts.Orientation == rules.Black {
				col, row = 7-f, 7-r
			}
			canvas.Text(col*size+size/2, row*size+size/2, glyphs[p.Color][p.Kind], style)
		}
	}
	canvas.End()
	return nil
}
