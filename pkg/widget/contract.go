// Package widget drives one chess puzzle: it validates the solver's input against
// the solution branches, plays the scripted replies and moves between branches.
//
// A Puzzle is not safe for concurrent use. Every call into it, including the input
// handler, scheduled callbacks and view completion callbacks, must run on one
// event loop.
package widget

import (
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
)

type InputType string

const (
	InputStarted  InputType = "started"
	InputValidate InputType = "validate"
	InputFinished InputType = "finished"
	InputCanceled InputType = "canceled"
)

// InputEvent is what the board reports while the solver drags or clicks a piece.
type InputEvent struct {
	Type      InputType `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to,omitempty"`
	Promotion string    `json:"promotion,omitempty"`
}

type Marker string

const (
	MarkerMove   Marker = "good-square"
	MarkerSource Marker = "bad-square"
	MarkerCheck  Marker = "check-square"
)

var allMarkers = []Marker{MarkerMove, MarkerSource, MarkerCheck}

// View is the board the puzzle draws on. SetPosition calls done exactly once,
// on the event loop, when the position is shown.
type View interface {
	SetPosition(fen string, animate bool, done func(error))
	SetOrientation(side rules.Color)
	EnableMoveInput(handler func(InputEvent) bool)
	DisableMoveInput()
	AddMarker(kind Marker, square string) error
	RemoveMarkers(kind Marker) error
}

// Scheduler runs fn on the event loop after d.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type Tone string

const (
	ToneNeutral   Tone = "neutral"
	ToneCorrect   Tone = "correct"
	ToneError     Tone = "error"
	ToneCheckmate Tone = "checkmate"
)

// Status is a status line built from translation keys.
type Status struct {
	Keys []puzzle.Key `json:"keys"`
	Tone Tone         `json:"tone"`
}

// Listener receives what the page shows around the board and the solved
// notification for the host.
type Listener interface {
	StatusChanged(index int, st Status)
	BranchChanged(index, current, total int)
	Solved(index int, fen string)
}

// Delays pace the animations; they never order anything that matters.
type Delays struct {
	Reply         time.Duration
	BranchAdvance time.Duration
	BranchReply   time.Duration
	SnapBack      time.Duration
}

var DefaultDelays = Delays{
	Reply:         500 * time.Millisecond,
	BranchAdvance: 1500 * time.Millisecond,
	BranchReply:   800 * time.Millisecond,
	SnapBack:      200 * time.Millisecond,
}
