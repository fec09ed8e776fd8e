package puzzle

import (
	"net/url"
	"strings"
	"testing"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/grammar"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQueryDefaults(t *testing.T) {
	defs := FromQuery(url.Values{}, nil)
	require.Len(t, defs, len(Defaults))
	for i := range defs {
		assert.Equal(t, Defaults[i].Moves, defs[i].Moves)
	}
}

func TestFromQueryMultiple(t *testing.T) {
	q := url.Values{}
	q.Set("puzzles", "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K%20b%20-%20-%200%201|Qh4,[Rxh4,Rg1%23%7Ch3,Qxh3%23]|Find%20it;|d6d5|")
	defs := FromQuery(q, nil)
	require.Len(t, defs, 2)

	assert.Equal(t, "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1", defs[0].FEN)
	assert.Equal(t, "d8h4,[g4h4,g8g1|h2h3,h4h3]", defs[0].Moves)
	assert.Equal(t, "Find it", defs[0].Message)

	assert.Equal(t, Defaults[0].FEN, defs[1].FEN)
	assert.Equal(t, "d6d5", defs[1].Moves)
	assert.Equal(t, Defaults[0].Message, defs[1].Message)
}

func TestFromQueryUnescapedBranches(t *testing.T) {
	q := url.Values{}
	q.Set("puzzles", Defaults[2].FEN+"|d8h4,[g4h4,g8g1|h2h3,h4h3]|two | ways")
	defs := FromQuery(q, nil)
	require.Len(t, defs, 1)
	assert.Equal(t, "d8h4,[g4h4,g8g1|h2h3,h4h3]", defs[0].Moves)
	assert.Equal(t, "two | ways", defs[0].Message)
}

func TestFromQueryLegacy(t *testing.T) {
	q := url.Values{}
	q.Set("moves", "Qxd5,Bxd5")
	q.Set("orientation", "white")
	defs := FromQuery(q, nil)
	require.Len(t, defs, 1)
	assert.Equal(t, Defaults[0].FEN, defs[0].FEN)
	assert.Equal(t, "d6d5,g2d5", defs[0].Moves)
	assert.Equal(t, Defaults[0].Message, defs[0].Message)
	assert.Equal(t, rules.White, defs[0].PlayerSide())
}

func TestBranches(t *testing.T) {
	bs, err := Defaults[2].Branches()
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, 1, grammar.CommonPrefixLen(bs[0], bs[1]))

	bs, err = Definition{FEN: Defaults[0].FEN, Moves: "[|d6d5]"}.Branches()
	require.NoError(t, err)
	require.Len(t, bs, 1)
	assert.Equal(t, "d6d5", bs[0][0].First())

	_, err = Definition{FEN: Defaults[0].FEN, Moves: " , "}.Branches()
	assert.ErrorIs(t, err, ErrNoMoves)

	_, err = Definition{FEN: Defaults[0].FEN, Moves: "[d6d5"}.Branches()
	assert.ErrorIs(t, err, grammar.ErrUnbalanced)
}

func TestPlayerSide(t *testing.T) {
	assert.Equal(t, rules.Black, Defaults[0].PlayerSide())
	assert.Equal(t, rules.White, Defaults[1].PlayerSide())
	assert.Equal(t, rules.White, Definition{FEN: Defaults[0].FEN, Orientation: "w"}.PlayerSide())
}

func TestValidate(t *testing.T) {
	for _, d := range Defaults {
		assert.NoError(t, Validate(d))
	}
	for _, d := range ShortNotationDefaults[:3] {
		assert.NoError(t, Validate(d))
	}

	err := Validate(Definition{FEN: Defaults[0].FEN, Moves: "d6d5,g2d5,b7d5,a1d1,h8a8"})
	assert.ErrorIs(t, err, rules.ErrIllegalMove)

	err = Validate(Definition{FEN: Defaults[2].FEN, Moves: "d8h4,[g4h4,{g8g1|g8g7}|h2h3,h4h3]"})
	assert.NoError(t, err)
	err = Validate(Definition{FEN: Defaults[2].FEN, Moves: "d8h4,[g4h4,{g8g1|g8a1}|h2h3,h4h3]"})
	assert.ErrorIs(t, err, rules.ErrIllegalMove)
}

func TestParseCatalog(t *testing.T) {
	defs, err := ParseCatalog([]byte(`
puzzles:
  - fen: "r3k2r/1b1p1pp1/3qp3/p1bP4/Pp3B2/6P1/1PP1QPB1/R4RK1 b kq - 0 1"
    moves: "Qxd5,Bxd5,Bxd5,Rad1,Rh1+"
    message: "Find the combination"
`))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "Find the combination", defs[0].Message)

	_, err = ParseCatalog([]byte("puzzles: []"))
	assert.Error(t, err)
}

func TestTranslator(t *testing.T) {
	assert.Equal(t, "en", MatchLocale("en", "ru"))
	assert.Equal(t, "en", MatchLocale("en-GB", "ru"))
	assert.Equal(t, "ru", MatchLocale("de", "ru"))
	assert.Equal(t, "ru", MatchLocale("", "xx"))
	assert.Equal(t, "en", MatchLocale("!!", "en"))

	tr := NewTranslator("en", DefaultLocale)
	assert.Equal(t, "Your turn!", tr.T(YourTurn))
	assert.Equal(t, "Checkmate! Victory! Puzzle solved.", tr.Join(Checkmate, Victory))
	assert.Equal(t, "Variation 2 of 3", tr.Progress(2, 3))
	assert.Equal(t, "mystery", tr.T(Key("mystery")))

	custom := tr.With(map[Key]string{YourTurn: "Go!"})
	assert.Equal(t, "Go!", custom.T(YourTurn))
	assert.Equal(t, "Your turn!", tr.T(YourTurn))

	assert.Equal(t, []string{"en", "ru"}, Locales())
}

func TestFromPGN(t *testing.T) {
	pgn := `[Event "Scholar's mate"]
[Site "?"]
[Result "1-0"]

1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0
`
	defs, err := FromPGN(strings.NewReader(pgn))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", defs[0].FEN)
	assert.Equal(t, "e2e4,e7e5,d1h5,b8c6,f1c4,g8f6,h5f7", defs[0].Moves)
	assert.Equal(t, "Scholar's mate", defs[0].Message)
	assert.NoError(t, Validate(defs[0]))
}

func TestFromPGNReadsEveryGame(t *testing.T) {
	pgn := `[Event "Scholar's mate"]
[Result "1-0"]

1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0

[Event "Fool's mate"]
[Result "0-1"]

1. f3 e5 2. g4 Qh4# 0-1
`
	defs, err := FromPGN(strings.NewReader(pgn))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Scholar's mate", defs[0].Message)
	assert.Equal(t, "Fool's mate", defs[1].Message)
	assert.Equal(t, "f2f3,e7e5,g2g4,d8h4", defs[1].Moves)
	assert.NoError(t, Validate(defs[1]))

	_, err = FromPGN(strings.NewReader("[Event \"?\"]\n\n*\n"))
	assert.Error(t, err)
}
