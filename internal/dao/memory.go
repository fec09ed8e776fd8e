package dao

import (
	"math/rand"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryRepository backs the widget server when no database is configured.
type memoryRepository struct {
	mu     sync.RWMutex
	sets   map[string]PuzzleSet
	solves []Solve
}

func NewMemoryRepository() PuzzleRepository {
	return &memoryRepository{sets: make(map[string]PuzzleSet)}
}

func (m *memoryRepository) GetPuzzleSet(id string) (PuzzleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[id]
	if !ok {
		return PuzzleSet{}, ErrNotFound
	}
	return set, nil
}

func (m *memoryRepository) GetRandomPuzzleSet() (PuzzleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.sets) == 0 {
		return PuzzleSet{}, ErrNotFound
	}
	ids := make([]string, 0, len(m.sets))
	for id := range m.sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return m.sets[ids[rand.Intn(len(ids))]], nil
}

func (m *memoryRepository) InsertPuzzleSet(set PuzzleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[set.ID] = set
	return nil
}

func (m *memoryRepository) InsertSolve(solve Solve) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solves = append(m.solves, solve)
	return nil
}

func (m *memoryRepository) GetSolvesBetweenDates(startTime primitive.DateTime, endTime primitive.DateTime) ([]Solve, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Solve
	for _, s := range m.solves {
		if s.SolvedAt >= startTime && s.SolvedAt <= endTime {
			out = append(out, s)
		}
	}
	return out, nil
}
