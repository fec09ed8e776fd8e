// Package session hosts widget pages on the server: one event loop per page
// driving all of its puzzles, mirrored through a journal.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/gmkornilov/chess-puzzle-widget/internal/eventloop"
	"github.com/gmkornilov/chess-puzzle-widget/internal/view"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrNoPuzzle  = errors.New("no such puzzle")
	ErrNotLoaded = errors.New("puzzle failed to load")
)

// SolveRecorder stores solved puzzles; dao.PuzzleRepository satisfies it.
type SolveRecorder interface {
	InsertSolve(solve dao.Solve) error
}

type Options struct {
	Delays    widget.Delays
	Animation time.Duration
	TTL       time.Duration
	Locale    string
}

// Snapshot is what a client needs to draw the page from scratch.
type Snapshot struct {
	ID      string            `json:"id"`
	SetID   string            `json:"set_id,omitempty"`
	Locale  string            `json:"locale"`
	Seq     int               `json:"seq"`
	Puzzles []PuzzleSnapshot  `json:"puzzles"`
	Boards  []view.BoardState `json:"boards"`
}

type PuzzleSnapshot struct {
	Index      int          `json:"index"`
	State      widget.State `json:"state"`
	Branch     int          `json:"branch"`
	Branches   int          `json:"branches"`
	Cursor     int          `json:"cursor"`
	PlayerTurn bool         `json:"player_turn"`
	Loaded     bool         `json:"loaded"`
}

// Session is one widget page.
type Session struct {
	ID    string
	SetID string

	defs     []puzzle.Definition
	loop     *eventloop.Loop
	journal  *view.Journal
	boards   []*view.Board
	puzzles  []*widget.Puzzle
	recorder SolveRecorder
	started  sync.Once

	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(setID string, defs []puzzle.Definition, tr puzzle.Translator, opts Options, recorder SolveRecorder) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		SetID:    setID,
		defs:     defs,
		loop:     eventloop.New(),
		journal:  view.NewJournal(tr, defs),
		recorder: recorder,
		lastSeen: time.Now(),
	}
	for i, d := range defs {
		board := view.NewBoard(s.journal, i, s.loop, opts.Animation)
		s.boards = append(s.boards, board)
		p, err := widget.New(widget.Config{
			Index:      i,
			Definition: d,
			View:       board,
			Scheduler:  s.loop,
			Listener:   s,
			Delays:     opts.Delays,
		})
		if err != nil {
			log.Printf("session %s: %v", s.ID, err)
			s.journal.Fail(i, err)
		}
		s.puzzles = append(s.puzzles, p)
	}
	return s
}

// start runs the loop and starts every puzzle; later calls do nothing.
func (s *Session) start() {
	s.started.Do(func() {
		go s.loop.Run(context.Background())
		s.loop.Post(func() {
			for _, p := range s.puzzles {
				if p != nil {
					p.Start()
				}
			}
		})
	})
}

func (s *Session) StatusChanged(index int, st widget.Status) {
	s.journal.StatusChanged(index, st)
}

func (s *Session) BranchChanged(index, current, total int) {
	s.journal.BranchChanged(index, current, total)
}

func (s *Session) Solved(index int, fen string) {
	s.journal.Solved(index, fen)
	if s.recorder == nil {
		return
	}
	solve := dao.Solve{
		SessionID: s.ID,
		SetID:     s.SetID,
		Puzzle:    index,
		StartFEN:  s.defs[index].FEN,
		FinalFEN:  fen,
		Moves:     s.defs[index].Moves,
		SolvedAt:  primitive.NewDateTimeFromTime(time.Now()),
	}
	go func() {
		if err := s.recorder.InsertSolve(solve); err != nil {
			log.Printf("session %s: recording solve of puzzle %d: %v", s.ID, index, err)
		}
	}()
}

// Input passes one move-input event to a puzzle and reports whether the board
// should accept it.
func (s *Session) Input(ctx context.Context, index int, ev widget.InputEvent) (bool, error) {
	s.touch()
	if index < 0 || index >= len(s.puzzles) {
		return false, ErrNoPuzzle
	}
	p := s.puzzles[index]
	if p == nil {
		return false, ErrNotLoaded
	}
	var (
		allowed bool
		inErr   error
	)
	err := s.loop.Do(ctx, func() {
		allowed, inErr = s.boards[index].Input(ev)
		if allowed && ev.Type == widget.InputValidate {
			s.journal.Sync(index, p.FEN())
		}
	})
	if err != nil {
		return false, err
	}
	return allowed, inErr
}

// Move plays a whole drag: start, validate and finish.
func (s *Session) Move(ctx context.Context, index int, from, to, promotion string) (bool, error) {
	ok, err := s.Input(ctx, index, widget.InputEvent{Type: widget.InputStarted, From: from})
	if err != nil || !ok {
		return false, err
	}
	ok, err = s.Input(ctx, index, widget.InputEvent{Type: widget.InputValidate, From: from, To: to, Promotion: promotion})
	if err != nil {
		return false, err
	}
	_, err = s.Input(ctx, index, widget.InputEvent{Type: widget.InputFinished, From: from, To: to})
	if errors.Is(err, view.ErrInputDisabled) {
		err = nil
	}
	return ok, err
}

func (s *Session) Events(since int) []view.Event {
	s.touch()
	return s.journal.Since(since)
}

func (s *Session) Board(index int) (view.BoardState, error) {
	st, ok := s.journal.State(index)
	if !ok {
		return view.BoardState{}, ErrNoPuzzle
	}
	return st, nil
}

func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	s.touch()
	snap := Snapshot{
		ID:     s.ID,
		SetID:  s.SetID,
		Locale: s.journal.Translator().Locale(),
	}
	err := s.loop.Do(ctx, func() {
		for i, p := range s.puzzles {
			ps := PuzzleSnapshot{Index: i}
			if p != nil {
				ps.Loaded = true
				ps.State = p.State()
				ps.Branch = p.BranchIndex() + 1
				ps.Branches = len(p.Branches())
				ps.Cursor = p.Cursor()
				ps.PlayerTurn = p.PlayerTurn()
			}
			snap.Puzzles = append(snap.Puzzles, ps)
		}
		snap.Seq = s.journal.LastSeq()
		snap.Boards = s.journal.States()
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return snap, nil
}

func (s *Session) Close() {
	s.loop.Close()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
