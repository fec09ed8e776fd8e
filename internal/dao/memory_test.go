package dao

import (
	"testing"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryPuzzleSets(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.GetRandomPuzzleSet()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetPuzzleSet("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	set := PuzzleSet{ID: "abc", Title: "defaults", Puzzles: puzzle.Defaults}
	require.NoError(t, repo.InsertPuzzleSet(set))

	got, err := repo.GetPuzzleSet("abc")
	require.NoError(t, err)
	assert.Equal(t, set, got)

	got, err = repo.GetRandomPuzzleSet()
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
}

func TestMemorySolvesBetweenDates(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.InsertSolve(Solve{
			SessionID: "s",
			Puzzle:    i,
			SolvedAt:  primitive.NewDateTimeFromTime(base.Add(time.Duration(i) * time.Hour)),
		}))
	}

	solves, err := repo.GetSolvesBetweenDates(
		primitive.NewDateTimeFromTime(base.Add(30*time.Minute)),
		primitive.NewDateTimeFromTime(base.Add(3*time.Hour)),
	)
	require.NoError(t, err)
	require.Len(t, solves, 2)
	assert.Equal(t, 1, solves[0].Puzzle)
}
