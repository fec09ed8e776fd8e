package widget

import (
	"fmt"
	"log"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/grammar"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/notation"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
)

type State int

const (
	AwaitingPlayerMove State = iota
	AwaitingOpponentReply
	BranchComplete
	PuzzleComplete
)

func (s State) String() string {
	switch s {
	case AwaitingPlayerMove:
		return "awaiting_player_move"
	case AwaitingOpponentReply:
		return "awaiting_opponent_reply"
	case BranchComplete:
		return "branch_complete"
	case PuzzleComplete:
		return "puzzle_complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Config struct {
	Index      int
	Definition puzzle.Definition
	View       View
	Scheduler  Scheduler
	Listener   Listener
	Delays     Delays
	// NewEngine defaults to rules.New.
	NewEngine func(fen string) (rules.Engine, error)
}

// Puzzle is the state of one puzzle on the page.
type Puzzle struct {
	index    int
	def      puzzle.Definition
	view     View
	sched    Scheduler
	listener Listener
	delays   Delays
	newEng   func(string) (rules.Engine, error)

	engine     rules.Engine
	branches   grammar.BranchSet
	branchIdx  int
	cursor     int
	player     rules.Color
	playerTurn bool
	waiting    bool
	state      State
}

func New(cfg Config) (*Puzzle, error) {
	newEng := cfg.NewEngine
	if newEng == nil {
		newEng = func(fen string) (rules.Engine, error) { return rules.New(fen) }
	}
	branches, err := cfg.Definition.Branches()
	if err != nil {
		return nil, fmt.Errorf("puzzle %d: %w", cfg.Index, err)
	}
	engine, err := newEng(cfg.Definition.FEN)
	if err != nil {
		return nil, fmt.Errorf("puzzle %d: %w", cfg.Index, err)
	}
	return &Puzzle{
		index:    cfg.Index,
		def:      cfg.Definition,
		view:     cfg.View,
		sched:    cfg.Scheduler,
		listener: cfg.Listener,
		delays:   cfg.Delays,
		newEng:   newEng,
		engine:   engine,
		branches: branches,
		player:   cfg.Definition.PlayerSide(),
	}, nil
}

// Start orients the board and hands the first move to whoever has it.
func (p *Puzzle) Start() {
	p.view.SetOrientation(p.player)
	if len(p.branches) > 1 {
		p.listener.BranchChanged(p.index, 1, len(p.branches))
	}
	if p.engine.Turn() == p.player {
		p.toPlayer(false)
		return
	}
	p.state = AwaitingOpponentReply
	p.playerTurn = false
	p.view.DisableMoveInput()
	p.sched.After(p.delays.Reply, p.playOpponent)
}

func (p *Puzzle) Index() int                   { return p.index }
func (p *Puzzle) Definition() puzzle.Definition { return p.def }
func (p *Puzzle) State() State                 { return p.state }
func (p *Puzzle) Branches() grammar.BranchSet  { return p.branches }
func (p *Puzzle) BranchIndex() int             { return p.branchIdx }
func (p *Puzzle) Cursor() int                  { return p.cursor }
func (p *Puzzle) PlayerSide() rules.Color      { return p.player }
func (p *Puzzle) PlayerTurn() bool             { return p.playerTurn }
func (p *Puzzle) FEN() string                  { return p.engine.FEN() }

// HandleInput is the callback handed to View.EnableMoveInput. The return value
// allows or rejects the input; a rejected drop snaps the piece back.
func (p *Puzzle) HandleInput(ev InputEvent) bool {
	switch ev.Type {
	case InputStarted:
		return p.started(ev.From)
	case InputValidate:
		if ev.To == "" {
			p.removeMarkers(MarkerSource)
			return false
		}
		return p.validate(ev.From, ev.To, promotion(ev.Promotion))
	case InputFinished:
		if p.waiting {
			p.waiting = false
			p.view.DisableMoveInput()
			p.sched.After(p.delays.Reply, p.playOpponent)
		}
		return true
	case InputCanceled:
		p.canceled()
		return true
	}
	return true
}

func (p *Puzzle) started(square string) bool {
	if p.engine.GameOver() || p.state != AwaitingPlayerMove {
		return false
	}
	piece, ok := p.engine.Get(square)
	if !ok || piece.Color != p.engine.Turn() {
		return false
	}
	p.mark(MarkerSource, square)
	return true
}

func (p *Puzzle) validate(from, to string, promo byte) bool {
	if p.state != AwaitingPlayerMove {
		return false
	}
	p.clearMarkers()

	rec, err := p.engine.Move(rules.MoveSpec{From: from, To: to, Promotion: promo})
	if err != nil {
		return false
	}

	branch := p.branches[p.branchIdx]
	if p.cursor >= len(branch) || !branch[p.cursor].Matches(rec.LongForm()) {
		p.wrongMove()
		return false
	}

	p.cursor++
	p.mark(MarkerMove, rec.From)
	p.mark(MarkerMove, rec.To)

	if p.engine.InCheckmate() {
		p.markKing()
		if p.branchDone() {
			p.finishBranch(true)
			return true
		}
		// Mate before the end of the branch: the scripted line stays reachable.
		p.playerTurn = false
		p.waiting = true
		p.state = AwaitingOpponentReply
		return true
	}

	check := p.engine.InCheck()
	if check {
		p.markKing()
	}
	if p.branchDone() {
		p.finishBranch(false)
		return true
	}

	keys := []puzzle.Key{puzzle.Correct}
	if check {
		keys = []puzzle.Key{puzzle.Check, puzzle.Correct}
	}
	p.status(ToneCorrect, keys...)
	p.playerTurn = false
	p.waiting = true
	p.state = AwaitingOpponentReply
	return true
}

func (p *Puzzle) wrongMove() {
	p.status(ToneError, puzzle.WrongMove)
	if err := p.engine.Undo(); err != nil {
		log.Printf("puzzle %d: undo after wrong move: %v", p.index, err)
	}
	p.clearMarkers()
	fen := p.engine.FEN()
	p.sched.After(p.delays.SnapBack, func() {
		p.view.SetPosition(fen, false, p.logFailure("snap back"))
	})
}

// canceled retracts a correct move whose reply has not been scheduled yet, so
// the engine and the cursor agree with the solver being on move again.
func (p *Puzzle) canceled() {
	p.removeMarkers(MarkerSource)
	if p.waiting && p.state == AwaitingOpponentReply {
		if err := p.engine.Undo(); err != nil {
			log.Printf("puzzle %d: undo after cancel: %v", p.index, err)
		}
		p.cursor--
		p.clearMarkers()
		p.view.SetPosition(p.engine.FEN(), false, p.logFailure("cancel"))
		p.state = AwaitingPlayerMove
		p.playerTurn = true
	}
	p.waiting = false
}

func (p *Puzzle) playOpponent() {
	branch := p.branches[p.branchIdx]
	if p.state == PuzzleComplete || p.cursor >= len(branch) {
		return
	}
	entry := branch[p.cursor]
	if entry.IsAlternative() {
		log.Printf("puzzle %d: reply %s has alternatives, playing %s", p.index, entry, entry.First())
	}
	rec, err := notation.Play(p.engine, entry.First())
	if err != nil {
		log.Printf("puzzle %d: scripted reply %s: %v", p.index, entry.First(), err)
		p.toPlayer(false)
		return
	}
	p.state = AwaitingOpponentReply
	p.playerTurn = false

	fen := p.engine.FEN()
	p.view.SetPosition(fen, true, func(err error) {
		if err != nil {
			log.Printf("puzzle %d: animating reply: %v", p.index, err)
			p.view.SetPosition(fen, false, p.logFailure("reply fallback"))
		}
		p.afterReply(rec)
	})
}

func (p *Puzzle) afterReply(rec rules.Record) {
	p.clearMarkers()
	p.mark(MarkerMove, rec.From)
	p.mark(MarkerMove, rec.To)
	p.cursor++

	if p.engine.InCheckmate() {
		p.markKing()
		p.finishBranch(true)
		return
	}
	check := p.engine.InCheck()
	if check {
		p.markKing()
	}
	if p.branchDone() {
		p.finishBranch(false)
		return
	}
	p.toPlayer(check)
}

func (p *Puzzle) toPlayer(check bool) {
	p.state = AwaitingPlayerMove
	p.playerTurn = true
	p.waiting = false
	if check {
		p.status(ToneNeutral, puzzle.Check, puzzle.YourTurn)
	} else {
		p.status(ToneNeutral, puzzle.YourTurn)
	}
	p.view.DisableMoveInput()
	p.view.EnableMoveInput(p.HandleInput)
}

func (p *Puzzle) branchDone() bool {
	return p.cursor >= len(p.branches[p.branchIdx])
}

func (p *Puzzle) finishBranch(mate bool) {
	p.waiting = false
	p.playerTurn = false
	p.view.DisableMoveInput()
	if p.branchIdx >= len(p.branches)-1 {
		p.complete(mate)
		return
	}
	p.state = BranchComplete
	if mate {
		p.status(ToneCheckmate, puzzle.Checkmate, puzzle.BranchComplete)
	} else {
		p.status(ToneCorrect, puzzle.BranchComplete)
	}
	p.sched.After(p.delays.BranchAdvance, p.advanceBranch)
}

func (p *Puzzle) complete(mate bool) {
	p.state = PuzzleComplete
	p.waiting = false
	p.playerTurn = false
	p.view.DisableMoveInput()
	if mate {
		p.status(ToneCheckmate, puzzle.Checkmate, puzzle.Victory)
	} else {
		p.status(ToneCorrect, puzzle.Victory)
	}
	p.listener.Solved(p.index, p.engine.FEN())
}

// advanceBranch resets the board to the nearest common ancestor of the finished
// branch and the next one and lets the opponent play the diverging reply. Branches
// that are a prefix of the finished one have nothing left to play and are skipped.
func (p *Puzzle) advanceBranch() {
	if p.state != BranchComplete {
		return
	}
	prev := p.branches[p.branchIdx]
	next := p.branchIdx + 1
	for next < len(p.branches) && grammar.CommonPrefixLen(prev, p.branches[next]) >= len(p.branches[next]) {
		next++
	}
	if next >= len(p.branches) {
		p.branchIdx = len(p.branches) - 1
		p.complete(p.engine.InCheckmate())
		return
	}
	p.branchIdx = next
	branch := p.branches[next]
	n := grammar.CommonPrefixLen(prev, branch)

	fen, err := p.positionAfter(branch, n)
	if err == nil {
		err = p.engine.Load(fen)
	}
	if err != nil {
		log.Printf("puzzle %d: branch %d: %v", p.index, p.branchIdx+1, err)
		p.status(ToneError, puzzle.ReplayFailed)
		return
	}
	p.cursor = n
	p.waiting = false
	p.playerTurn = false
	p.state = AwaitingOpponentReply
	p.listener.BranchChanged(p.index, p.branchIdx+1, len(p.branches))

	p.view.SetPosition(fen, true, func(err error) {
		if err != nil {
			log.Printf("puzzle %d: animating branch reset: %v", p.index, err)
			p.view.SetPosition(fen, false, p.logFailure("branch reset fallback"))
		}
		p.clearMarkers()
		p.status(ToneNeutral, puzzle.NextBranch)
		if p.engine.Turn() == p.player {
			p.toPlayer(false)
			return
		}
		p.sched.After(p.delays.BranchReply, p.playOpponent)
	})
}

// positionAfter replays the first n steps of a branch from the starting position.
func (p *Puzzle) positionAfter(b grammar.Branch, n int) (string, error) {
	g, err := p.newEng(p.def.FEN)
	if err != nil {
		return "", err
	}
	for i := 0; i < n && i < len(b); i++ {
		if _, err := notation.Play(g, b[i].First()); err != nil {
			return "", fmt.Errorf("replaying %s: %w", b[i].First(), err)
		}
	}
	return g.FEN(), nil
}

func (p *Puzzle) status(tone Tone, keys ...puzzle.Key) {
	p.listener.StatusChanged(p.index, Status{Keys: keys, Tone: tone})
}

func (p *Puzzle) mark(kind Marker, square string) {
	if err := p.view.AddMarker(kind, square); err != nil {
		log.Printf("puzzle %d: add marker %s on %s: %v", p.index, kind, square, err)
	}
}

func (p *Puzzle) removeMarkers(kind Marker) {
	if err := p.view.RemoveMarkers(kind); err != nil {
		log.Printf("puzzle %d: remove markers %s: %v", p.index, kind, err)
	}
}

func (p *Puzzle) clearMarkers() {
	for _, kind := range allMarkers {
		p.removeMarkers(kind)
	}
}

// markKing marks the king of the side to move, the one in check.
func (p *Puzzle) markKing() {
	if sq, ok := rules.KingSquare(p.engine, p.engine.Turn()); ok {
		p.mark(MarkerCheck, sq)
	}
}

func (p *Puzzle) logFailure(what string) func(error) {
	return func(err error) {
		if err != nil {
			log.Printf("puzzle %d: %s: %v", p.index, what, err)
		}
	}
}

func promotion(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
