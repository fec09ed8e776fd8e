package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/gmkornilov/chess-puzzle-widget/internal/render"
	"github.com/gmkornilov/chess-puzzle-widget/internal/session"
	"github.com/gmkornilov/chess-puzzle-widget/internal/view"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/rules"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
)

type SessionApi struct {
	Manager          *session.Manager
	PuzzleRepository dao.PuzzleRepository
	Defaults         []puzzle.Definition
}

func NewSessionApi(manager *session.Manager, repo dao.PuzzleRepository, defaults []puzzle.Definition) *SessionApi {
	return &SessionApi{
		Manager:          manager,
		PuzzleRepository: repo,
		Defaults:         defaults,
	}
}

type createSessionRequest struct {
	Puzzles     string                `json:"puzzles"`
	FEN         string                `json:"fen"`
	Moves       string                `json:"moves"`
	Message     string                `json:"message"`
	Orientation string                `json:"orientation"`
	Lang        string                `json:"lang"`
	Set         string                `json:"set"`
	Texts       map[puzzle.Key]string `json:"texts"`
}

// CreateSession accepts the page parameters either as query parameters or as
// a JSON body; body fields win.
func (s *SessionApi) CreateSession(ctx *gin.Context) {
	var req createSessionRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
	}

	q := ctx.Request.URL.Query()
	for key, value := range map[string]string{
		"puzzles":     req.Puzzles,
		"fen":         req.FEN,
		"moves":       req.Moves,
		"message":     req.Message,
		"orientation": req.Orientation,
		"lang":        req.Lang,
		"set":         req.Set,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}

	defs, setID, err := s.definitions(q)
	if errors.Is(err, dao.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	sess := s.Manager.Create(setID, defs, q.Get("lang"), req.Texts)
	snap, err := sess.Snapshot(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"locale":     snap.Locale,
		"puzzles":    defs,
		"boards":     snap.Boards,
	})
}

func (s *SessionApi) definitions(q url.Values) ([]puzzle.Definition, string, error) {
	id := q.Get("set")
	if id == "" {
		return puzzle.FromQuery(q, s.Defaults), "", nil
	}
	set, err := s.PuzzleRepository.GetPuzzleSet(id)
	if err != nil {
		return nil, "", err
	}
	defs := make([]puzzle.Definition, 0, len(set.Puzzles))
	for _, d := range set.Puzzles {
		if d.Orientation == "" {
			d.Orientation = q.Get("orientation")
		}
		defs = append(defs, d.Normalized())
	}
	return defs, set.ID, nil
}

func (s *SessionApi) GetSession(ctx *gin.Context) {
	sess, ok := s.session(ctx)
	if !ok {
		return
	}
	since, err := strconv.Atoi(ctx.DefaultQuery("since", "0"))
	if err != nil || since < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "since should be non-negative integer",
		})
		return
	}
	snap, err := sess.Snapshot(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"session": snap,
		"events":  sess.Events(since),
	})
}

func (s *SessionApi) DeleteSession(ctx *gin.Context) {
	if err := s.Manager.Delete(ctx.Param("id")); err != nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *SessionApi) Input(ctx *gin.Context) {
	sess, index, ok := s.puzzle(ctx)
	if !ok {
		return
	}
	var ev widget.InputEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	switch ev.Type {
	case widget.InputStarted, widget.InputValidate, widget.InputFinished, widget.InputCanceled:
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown input type " + strconv.Quote(string(ev.Type)),
		})
		return
	}
	allowed, err := sess.Input(ctx.Request.Context(), index, ev)
	s.respondInput(ctx, allowed, err)
}

type moveRequest struct {
	From      string `json:"from" binding:"required"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

// Move plays a whole drag in one call; an empty "to" cancels it.
func (s *SessionApi) Move(ctx *gin.Context) {
	sess, index, ok := s.puzzle(ctx)
	if !ok {
		return
	}
	var req moveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	if req.To == "" {
		_, err := sess.Input(ctx.Request.Context(), index, widget.InputEvent{Type: widget.InputCanceled, From: req.From})
		s.respondInput(ctx, false, err)
		return
	}
	allowed, err := sess.Move(ctx.Request.Context(), index, req.From, req.To, req.Promotion)
	s.respondInput(ctx, allowed, err)
}

func (s *SessionApi) respondInput(ctx *gin.Context, allowed bool, err error) {
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{
			"allowed": allowed,
		})
	case errors.Is(err, view.ErrInputDisabled):
		ctx.JSON(http.StatusConflict, gin.H{
			"allowed": false,
			"error":   err.Error(),
		})
	case errors.Is(err, session.ErrNotLoaded):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"allowed": false,
			"error":   err.Error(),
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
	}
}

func (s *SessionApi) BoardSVG(ctx *gin.Context) {
	sess, index, ok := s.puzzle(ctx)
	if !ok {
		return
	}
	st, err := sess.Board(index)
	if err != nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	orientation, _ := rules.ParseColor(st.Orientation)
	if o, ok := rules.ParseColor(ctx.Query("orientation")); ok {
		orientation = o
	}
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "45"))

	var buf bytes.Buffer
	err = render.Board(&buf, st.FEN, render.Options{
		Orientation: orientation,
		Markers:     st.Markers,
		SquareSize:  size,
		Coordinates: ctx.Query("coordinates") == "true",
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *SessionApi) session(ctx *gin.Context) (*session.Session, bool) {
	sess, err := s.Manager.Get(ctx.Param("id"))
	if err != nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *SessionApi) puzzle(ctx *gin.Context) (*session.Session, int, bool) {
	sess, ok := s.session(ctx)
	if !ok {
		return nil, 0, false
	}
	index, err := strconv.Atoi(ctx.Param("idx"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "puzzle index should be integer",
		})
		return nil, 0, false
	}
	if _, err := sess.Board(index); err != nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return nil, 0, false
	}
	return sess, index, true
}
