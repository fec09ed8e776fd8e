// Package view keeps what a remote board needs to mirror a puzzle: the current
// board state of every puzzle and an ordered log of the changes.
package view

import (
	"errors"
	"sync"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
)

var ErrInputDisabled = errors.New("move input is disabled")

type EventType string

const (
	EventPosition      EventType = "position"
	EventOrientation   EventType = "orientation"
	EventInputEnabled  EventType = "input_enabled"
	EventInputDisabled EventType = "input_disabled"
	EventMarkers       EventType = "markers"
	EventStatus        EventType = "status"
	EventBranch        EventType = "branch"
	EventSolved        EventType = "solved"
	EventError         EventType = "error"
)

type Event struct {
	Seq         int                        `json:"seq"`
	Puzzle      int                        `json:"puzzle"`
	Type        EventType                  `json:"type"`
	FEN         string                     `json:"fen,omitempty"`
	Animate     bool                       `json:"animate,omitempty"`
	Orientation string                     `json:"orientation,omitempty"`
	Markers     map[widget.Marker][]string `json:"markers,omitempty"`
	Keys        []puzzle.Key               `json:"keys,omitempty"`
	Text        string                     `json:"text,omitempty"`
	Tone        widget.Tone                `json:"tone,omitempty"`
	Current     int                        `json:"current,omitempty"`
	Total       int                        `json:"total,omitempty"`
	Solved      bool                       `json:"solved,omitempty"`
	Time        time.Time                  `json:"time"`
}

// BoardState is the latest known state of one puzzle's board.
type BoardState struct {
	Index        int                        `json:"index"`
	FEN          string                     `json:"fen"`
	Message      string                     `json:"message"`
	Orientation  string                     `json:"orientation"`
	InputEnabled bool                       `json:"input_enabled"`
	Markers      map[widget.Marker][]string `json:"markers"`
	Status       string                     `json:"status"`
	Tone         widget.Tone                `json:"tone"`
	Progress     string                     `json:"progress,omitempty"`
	Solved       bool                       `json:"solved"`
	Error        string                     `json:"error,omitempty"`
}

// Journal records board changes for all puzzles of a page. It implements
// widget.Listener and renders status keys with its translator.
type Journal struct {
	mu     sync.RWMutex
	tr     puzzle.Translator
	events []Event
	boards []BoardState
	now    func() time.Time
}

var _ widget.Listener = (*Journal)(nil)

func NewJournal(tr puzzle.Translator, defs []puzzle.Definition) *Journal {
	j := &Journal{tr: tr, now: time.Now}
	for i, d := range defs {
		j.boards = append(j.boards, BoardState{
			Index:       i,
			FEN:         d.FEN,
			Message:     d.Message,
			Orientation: d.PlayerSide().Name(),
			Markers:     map[widget.Marker][]string{},
			Status:      tr.T(puzzle.Loading),
			Tone:        widget.ToneNeutral,
		})
	}
	return j
}

func (j *Journal) Translator() puzzle.Translator {
	return j.tr
}

// Since returns the events recorded after seq.
func (j *Journal) Since(seq int) []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if seq < 0 {
		seq = 0
	}
	if seq >= len(j.events) {
		return []Event{}
	}
	out := make([]Event, len(j.events)-seq)
	copy(out, j.events[seq:])
	return out
}

func (j *Journal) LastSeq() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}

func (j *Journal) State(index int) (BoardState, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if index < 0 || index >= len(j.boards) {
		return BoardState{}, false
	}
	return copyState(j.boards[index]), true
}

func (j *Journal) States() []BoardState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]BoardState, 0, len(j.boards))
	for _, b := range j.boards {
		out = append(out, copyState(b))
	}
	return out
}

func (j *Journal) StatusChanged(index int, st widget.Status) {
	text := j.tr.Join(st.Keys...)
	j.record(Event{Puzzle: index, Type: EventStatus, Keys: st.Keys, Text: text, Tone: st.Tone}, func(b *BoardState) {
		b.Status = text
		b.Tone = st.Tone
	})
}

func (j *Journal) BranchChanged(index, current, total int) {
	text := j.tr.Progress(current, total)
	j.record(Event{Puzzle: index, Type: EventBranch, Current: current, Total: total, Text: text}, func(b *BoardState) {
		b.Progress = text
	})
}

func (j *Journal) Solved(index int, fen string) {
	j.record(Event{Puzzle: index, Type: EventSolved, FEN: fen, Solved: true}, func(b *BoardState) {
		b.FEN = fen
		b.Solved = true
	})
}

// Sync records a position the board reached through its own input, such as
// the solver's accepted move.
func (j *Journal) Sync(index int, fen string) {
	j.mu.RLock()
	same := index >= 0 && index < len(j.boards) && j.boards[index].FEN == fen
	j.mu.RUnlock()
	if same {
		return
	}
	j.record(Event{Puzzle: index, Type: EventPosition, FEN: fen}, func(b *BoardState) {
		b.FEN = fen
	})
}

// Fail marks a puzzle that could not be set up; its board stays at loading.
func (j *Journal) Fail(index int, err error) {
	j.record(Event{Puzzle: index, Type: EventError, Text: err.Error(), Tone: widget.ToneError}, func(b *BoardState) {
		b.Error = err.Error()
	})
}

func (j *Journal) record(ev Event, update func(*BoardState)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if ev.Puzzle < 0 || ev.Puzzle >= len(j.boards) {
		return
	}
	if update != nil {
		update(&j.boards[ev.Puzzle])
	}
	ev.Seq = len(j.events) + 1
	ev.Time = j.now()
	j.events = append(j.events, ev)
}

func copyState(b BoardState) BoardState {
	b.Markers = copyMarkers(b.Markers)
	return b
}

func copyMarkers(m map[widget.Marker][]string) map[widget.Marker][]string {
	out := make(map[widget.Marker][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}
