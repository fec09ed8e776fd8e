package importer

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `
puzzles:
  - fen: "r3k2r/1b1p1pp1/3qp3/p1bP4/Pp3B2/6P1/1PP1QPB1/R4RK1 b kq - 0 1"
    moves: "Qxd5,Bxd5,Bxd5,Rad1,Rh1#"
    message: "Find the combination"
  - fen: "r2q2rk/ppp4p/3p4/2b2Q2/3pPPR1/2P2n2/PP3P1P/RNB4K b - - 0 1"
    moves: "d8h4,[g4h4,g8g1|h2h3,h4a1]"
`

func TestImportYAML(t *testing.T) {
	repo := dao.NewMemoryRepository()
	imp := NewCatalogImporterFactory(repo).CreateImporter(Source{Title: "mixed", Format: FormatYAML, Data: catalog})

	report, err := imp.Import()
	require.NoError(t, err)
	require.Len(t, report.Set.Puzzles, 1)
	assert.Equal(t, "d6d5,g2d5,b7d5,a1d1,h8h1", report.Set.Puzzles[0].Moves)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 1, report.Rejected[0].Index)

	stored, err := repo.GetPuzzleSet(report.Set.ID)
	require.NoError(t, err)
	assert.Equal(t, "mixed", stored.Title)

	assert.True(t, imp.Done())
	assert.Equal(t, 1.0, imp.Progress())
	assert.NoError(t, imp.Error())
}

func TestImportFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games.pgn" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("[Event \"Scholar\"]\n\n1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0\n"))
	}))
	defer srv.Close()

	f := NewCatalogImporterFactory(dao.NewMemoryRepository())
	imp := f.CreateImporter(Source{Format: FormatPGN, URL: srv.URL + "/games.pgn"})
	imp.StartWork()
	require.Eventually(t, imp.Done, time.Second, 5*time.Millisecond)
	require.NoError(t, imp.Error())

	report := imp.Result()
	require.Len(t, report.Set.Puzzles, 1)
	assert.Equal(t, "Scholar", report.Set.Puzzles[0].Message)

	_, err := f.CreateImporter(Source{Format: FormatPGN, URL: srv.URL + "/missing"}).Import()
	assert.Error(t, err)
}

func TestImportFailures(t *testing.T) {
	f := NewCatalogImporterFactory(nil)

	_, err := f.CreateImporter(Source{Format: FormatYAML}).Import()
	assert.Error(t, err)

	_, err = f.CreateImporter(Source{Format: "csv", Data: "x"}).Import()
	assert.Error(t, err)

	_, err = f.CreateImporter(Source{Data: "puzzles:\n  - fen: \"8/8/8/8/8/8/8/8 w - - 0 1\"\n    moves: \"e2e4\"\n"}).Import()
	assert.Error(t, err)

	assert.Equal(t, FormatPGN, FormatForPath("games.PGN"))
	assert.Equal(t, FormatYAML, FormatForPath("puzzles.yaml"))
}
