package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/notnil/chess"
)

// FromPGN turns every game of a PGN stream into a puzzle: the game's starting
// position (its FEN tag, if any) and its main line in long form. The Event tag
// becomes the message. Games without moves are skipped.
func FromPGN(r io.Reader) ([]Definition, error) {
	games, err := splitGames(r)
	if err != nil {
		return nil, fmt.Errorf("pgn: %w", err)
	}
	var defs []Definition
	for i, text := range games {
		pgnFunc, err := chess.PGN(strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("pgn: game %d: %w", i+1, err)
		}
		game := chess.NewGame(pgnFunc)
		moves := game.Moves()
		if len(moves) == 0 {
			continue
		}
		positions := game.Positions()
		tokens := make([]string, 0, len(moves))
		for j, m := range moves {
			tokens = append(tokens, chess.UCINotation{}.Encode(positions[j], m))
		}
		d := Definition{
			FEN:   positions[0].String(),
			Moves: strings.Join(tokens, ","),
		}
		if tp := game.GetTagPair("Event"); tp != nil && tp.Value != "?" {
			d.Message = tp.Value
		}
		defs = append(defs, d)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("pgn: no games with moves")
	}
	return defs, nil
}

// splitGames cuts a stream into games: a tag line after movetext starts the next one.
func splitGames(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var games []string
	var cur strings.Builder
	inMoves := false
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			games = append(games, cur.String())
		}
		cur.Reset()
		inMoves = false
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "["):
			if inMoves {
				flush()
			}
		case line != "":
			inMoves = true
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return games, nil
}
