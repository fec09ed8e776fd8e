package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExpand(t *testing.T) {
	out, err := run(t, "expand", "a,[b|c,[d|e]]")
	require.NoError(t, err)
	assert.Equal(t, "a,b\na,c,d\na,c,e\n", out)

	_, err = run(t, "expand", "a,[b")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	out, err := run(t, "normalize", "--fen", puzzle.Defaults[2].FEN, "Qh4,[Rxh4,Rg1#|h3,Qxh3#]")
	require.NoError(t, err)
	assert.Equal(t, "d8h4,[g4h4,g8g1|h2h3,h4h3]\n", out)

	out, err = run(t, "normalize", "--fen", puzzle.Defaults[2].FEN, "--to", "san", "d8h4,[g4h4,g8g1|h2h3,h4h3]")
	require.NoError(t, err)
	assert.Equal(t, "Qh4,[Rxh4,Rg1#|h3,Qxh3#]\n", out)

	_, err = run(t, "normalize", "--fen", puzzle.Defaults[2].FEN, "--to", "uci", "d8h4")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
puzzles:
  - fen: "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1"
    moves: "Qh4,[Rxh4,Rg1#|h3,Qxh3#]"
`), 0o644))
	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Equal(t, "puzzle 1: ok\n", out)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
puzzles:
  - fen: "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1"
    moves: "d8h4,h4a1"
`), 0o644))
	_, err = run(t, "validate", bad)
	assert.Error(t, err)
}
