package view

import (
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
)

// Scheduler is satisfied by *eventloop.Loop.
type Scheduler interface {
	Post(fn func()) bool
	After(d time.Duration, fn func())
}

// Board is the widget.View of one puzzle. Every change lands in the journal;
// animated positions complete after the configured animation time.
type Board struct {
	index     int
	journal   *Journal
	sched     Scheduler
	animation time.Duration
	handler   func(widget.InputEvent) bool
}

var _ widget.View = (*Board)(nil)

func NewBoard(j *Journal, index int, sched Scheduler, animation time.Duration) *Board {
	return &Board{index: index, journal: j, sched: sched, animation: animation}
}

func (b *Board) SetPosition(fen string, animate bool, done func(error)) {
	b.journal.record(Event{Puzzle: b.index, Type: EventPosition, FEN: fen, Animate: animate}, func(s *BoardState) {
		s.FEN = fen
	})
	finish := func() {
		if done != nil {
			done(nil)
		}
	}
	if animate && b.animation > 0 {
		b.sched.After(b.animation, finish)
		return
	}
	b.sched.Post(finish)
}

func (b *Board) SetOrientation(side rules.Color) {
	b.journal.record(Event{Puzzle: b.index, Type: EventOrientation, Orientation: side.Name()}, func(s *BoardState) {
		s.Orientation = side.Name()
	})
}

func (b *Board) EnableMoveInput(handler func(widget.InputEvent) bool) {
	b.handler = handler
	b.journal.record(Event{Puzzle: b.index, Type: EventInputEnabled}, func(s *BoardState) {
		s.InputEnabled = true
	})
}

func (b *Board) DisableMoveInput() {
	if b.handler == nil {
		return
	}
	b.handler = nil
	b.journal.record(Event{Puzzle: b.index, Type: EventInputDisabled}, func(s *BoardState) {
		s.InputEnabled = false
	})
}

func (b *Board) AddMarker(kind widget.Marker, square string) error {
	if _, _, err := rules.ParseSquare(square); err != nil {
		return err
	}
	b.updateMarkers(func(m map[widget.Marker][]string) bool {
		m[kind] = append(m[kind], square)
		return true
	})
	return nil
}

func (b *Board) RemoveMarkers(kind widget.Marker) error {
	b.updateMarkers(func(m map[widget.Marker][]string) bool {
		if len(m[kind]) == 0 {
			return false
		}
		delete(m, kind)
		return true
	})
	return nil
}

func (b *Board) updateMarkers(change func(map[widget.Marker][]string) bool) {
	j := b.journal
	j.mu.Lock()
	defer j.mu.Unlock()
	if b.index < 0 || b.index >= len(j.boards) {
		return
	}
	state := &j.boards[b.index]
	if !change(state.Markers) {
		return
	}
	j.events = append(j.events, Event{
		Seq:     len(j.events) + 1,
		Puzzle:  b.index,
		Type:    EventMarkers,
		Markers: copyMarkers(state.Markers),
		Time:    j.now(),
	})
}

// Input feeds a move-input event from the remote board to the puzzle.
func (b *Board) Input(ev widget.InputEvent) (bool, error) {
	if b.handler == nil {
		return false, ErrInputDisabled
	}
	return b.handler(ev), nil
}
