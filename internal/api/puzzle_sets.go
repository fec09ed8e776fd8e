package api

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/gmkornilov/chess-puzzle-widget/internal/importer"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PuzzleSetApi struct {
	PuzzleRepository dao.PuzzleRepository
	ImporterFactory  *importer.CatalogImporterFactory
	activeJobs       map[string]importer.Worker
	mu               sync.RWMutex
}

func NewPuzzleSetApi(repo dao.PuzzleRepository, factory *importer.CatalogImporterFactory) *PuzzleSetApi {
	return &PuzzleSetApi{
		PuzzleRepository: repo,
		ImporterFactory:  factory,
		activeJobs:       make(map[string]importer.Worker),
	}
}

type createSetRequest struct {
	Title   string              `json:"title"`
	Puzzles []puzzle.Definition `json:"puzzles" binding:"required"`
}

// CreatePuzzleSet stores a set only when every puzzle in it replays legally.
func (p *PuzzleSetApi) CreatePuzzleSet(ctx *gin.Context) {
	var req createSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	if len(req.Puzzles) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "puzzle set is empty",
		})
		return
	}

	set := dao.PuzzleSet{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Created: primitive.NewDateTimeFromTime(time.Now()),
	}
	var invalid []string
	for i, d := range req.Puzzles {
		d = d.Normalized()
		if err := puzzle.Validate(d); err != nil {
			invalid = append(invalid, fmt.Sprintf("puzzle %d: %v", i, err))
			continue
		}
		set.Puzzles = append(set.Puzzles, d)
	}
	if len(invalid) > 0 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid puzzles",
			"details": invalid,
		})
		return
	}

	if err := p.PuzzleRepository.InsertPuzzleSet(set); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusCreated, set)
}

func (p *PuzzleSetApi) GetPuzzleSet(ctx *gin.Context) {
	set, err := p.PuzzleRepository.GetPuzzleSet(ctx.Param("id"))
	p.respondSet(ctx, set, err)
}

func (p *PuzzleSetApi) RandomPuzzleSet(ctx *gin.Context) {
	set, err := p.PuzzleRepository.GetRandomPuzzleSet()
	p.respondSet(ctx, set, err)
}

func (p *PuzzleSetApi) respondSet(ctx *gin.Context, set dao.PuzzleSet, err error) {
	if errors.Is(err, dao.ErrNotFound) {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, set)
}

// StartImport queues a catalog import and answers with the job id to poll.
func (p *PuzzleSetApi) StartImport(ctx *gin.Context) {
	var src importer.Source
	if err := ctx.ShouldBindJSON(&src); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	if src.Data == "" && src.URL == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "either data or url should be set",
		})
		return
	}

	worker := p.ImporterFactory.CreateImporter(src)
	id := uuid.NewString()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeJobs[id] = worker
	worker.StartWork()
	ctx.JSON(http.StatusAccepted, gin.H{
		"job_id": id,
	})
}

func (p *PuzzleSetApi) GetJobStatus(ctx *gin.Context) {
	id := ctx.Param("job_id")
	p.mu.Lock()
	defer p.mu.Unlock()
	worker, ok := p.activeJobs[id]
	if !ok {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	done := worker.Done()
	if !done {
		ctx.JSON(http.StatusOK, gin.H{
			"done":     done,
			"progress": worker.Progress(),
		})
		return
	}
	delete(p.activeJobs, id)
	if worker.Error() != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"done":   done,
			"error":  worker.Error().Error(),
			"result": worker.Result(),
		})
	} else {
		ctx.JSON(http.StatusOK, gin.H{
			"done":   done,
			"result": worker.Result(),
		})
	}
}

// Solves lists solves recorded between from and to (RFC 3339); the default
// window is the last day.
func (p *PuzzleSetApi) Solves(ctx *gin.Context) {
	to := time.Now()
	from := to.Add(-24 * time.Hour)
	var err error
	if v := ctx.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "from should be RFC 3339 time",
			})
			return
		}
	}
	if v := ctx.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "to should be RFC 3339 time",
			})
			return
		}
	}

	solves, err := p.PuzzleRepository.GetSolvesBetweenDates(primitive.NewDateTimeFromTime(from), primitive.NewDateTimeFromTime(to))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	if solves == nil {
		solves = []dao.Solve{}
	}
	ctx.JSON(http.StatusOK, solves)
}
