package notation

import (
	"testing"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	startFEN     = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	comboFEN     = "r3k2r/1b1p1pp1/3qp3/p1bP4/Pp3B2/6P1/1PP1QPB1/R4RK1 b kq - 0 1"
	branchingFEN = "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1"
)

func TestPredicates(t *testing.T) {
	for _, tok := range []string{"e2e4", "g1f3", "e7e8q", "e7e8Q"} {
		assert.True(t, IsLongForm(tok), tok)
		assert.False(t, IsShortForm(tok), tok)
	}
	for _, tok := range []string{"e4", "Nf3", "Qxd5+", "exd5", "e8=Q", "Rad1", "R1a3", "O-O", "O-O-O", "Qxf7#"} {
		assert.True(t, IsShortForm(tok), tok)
		assert.False(t, IsLongForm(tok), tok)
	}
	for _, tok := range []string{"", "e9e4", "Zf3", "e2-e4", "0-0"} {
		assert.False(t, IsLongForm(tok), tok)
		assert.False(t, IsShortForm(tok), tok)
	}
}

func TestShortLongRoundTrip(t *testing.T) {
	g, err := rules.New(startFEN)
	require.NoError(t, err)

	long, ok := ShortToLong(g, "Nf3")
	require.True(t, ok)
	assert.Equal(t, "g1f3", long)
	assert.Equal(t, startFEN, g.FEN())

	short, ok := LongToShort(g, long)
	require.True(t, ok)
	assert.Equal(t, "Nf3", short)
	assert.Equal(t, startFEN, g.FEN())
}

func TestRoundTripProducesSamePosition(t *testing.T) {
	g, err := rules.New(comboFEN)
	require.NoError(t, err)

	long, ok := ShortToLong(g, "Qxd5")
	require.True(t, ok)
	short, ok := LongToShort(g, long)
	require.True(t, ok)

	viaShort := g.Clone()
	_, err = viaShort.MoveSAN(short)
	require.NoError(t, err)
	viaLong := g.Clone()
	_, err = Play(viaLong, long)
	require.NoError(t, err)
	assert.Equal(t, viaLong.FEN(), viaShort.FEN())
}

func TestConversionFailureLeavesPosition(t *testing.T) {
	g, err := rules.New(startFEN)
	require.NoError(t, err)

	_, ok := ShortToLong(g, "Nf6")
	assert.False(t, ok)
	_, ok = LongToShort(g, "e2e5")
	assert.False(t, ok)
	_, ok = LongToShort(g, "Nf3")
	assert.False(t, ok)
	assert.Equal(t, startFEN, g.FEN())
}

func TestNormalizeToLong(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		moves string
		want  string
	}{
		{"linear", comboFEN, "Qxd5,Bxd5,Bxd5,Rad1,Rh1+", "d6d5,g2d5,b7d5,a1d1,h8h1"},
		{"branches", branchingFEN, "Qh4,[Rxh4,Rg1#|h3,Qxh3#]", "d8h4,[g4h4,g8g1|h2h3,h4h3]"},
		{"alternatives", startFEN, "e4,{e5|c5},Nf3", "e2e4,{e7e5|c7c5},g1f3"},
		{"already long", comboFEN, "d6d5,g2d5,b7d5,a1d1,h8h1", "d6d5,g2d5,b7d5,a1d1,h8h1"},
		{"already long with branches", branchingFEN, "d8h4,[g4h4,g8g1|h2h3,h4h3]", "d8h4,[g4h4,g8g1|h2h3,h4h3]"},
		{"illegal move keeps input", comboFEN, "Qxd5,Nf3", "Qxd5,Nf3"},
		{"broken grammar keeps input", comboFEN, "Qxd5,[Bxd5", "Qxd5,[Bxd5"},
		{"bad position keeps input", "garbage", "Qxd5", "Qxd5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeToLong(tc.fen, tc.moves))
		})
	}
}

func TestNormalizeSuffixAfterBranches(t *testing.T) {
	// Both branches transpose into the same position, so the shared suffix
	// converts the same way.
	got := NormalizeToLong(startFEN, "[Nf3,Nf6,e4|e4,Nf6,Nf3],Nxe4")
	assert.Equal(t, "[g1f3,g8f6,e2e4|e2e4,g8f6,g1f3],f6e4", got)
}

func TestNormalizeToShort(t *testing.T) {
	got := NormalizeToShort(comboFEN, "d6d5,g2d5,b7d5,a1d1,h8h1")
	assert.Equal(t, "Qxd5,Bxd5,Bxd5,Rad1,Rh1#", got)

	got = NormalizeToShort(branchingFEN, "d8h4,[g4h4,g8g1|h2h3,h4h3]")
	assert.Equal(t, "Qh4,[Rxh4,Rg1#|h3,Qxh3#]", got)

	assert.Equal(t, "Qxd5,Bxd5", NormalizeToShort(comboFEN, "Qxd5,Bxd5"))
}
