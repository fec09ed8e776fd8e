package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(sessions *SessionApi, sets *PuzzleSetApi) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"sessions": sessions.Manager.Len(),
		})
	})

	api := r.Group("/api")
	api.POST("/sessions", sessions.CreateSession)
	api.GET("/sessions/:id", sessions.GetSession)
	api.DELETE("/sessions/:id", sessions.DeleteSession)
	api.POST("/sessions/:id/puzzles/:idx/input", sessions.Input)
	api.POST("/sessions/:id/puzzles/:idx/move", sessions.Move)
	api.GET("/sessions/:id/puzzles/:idx/board.svg", sessions.BoardSVG)

	api.POST("/puzzle-sets", sets.CreatePuzzleSet)
	api.GET("/puzzle-sets/:id", sets.GetPuzzleSet)
	api.GET("/random-puzzle-set", sets.RandomPuzzleSet)
	api.POST("/imports", sets.StartImport)
	api.GET("/imports/:job_id", sets.GetJobStatus)
	api.GET("/solves", sets.Solves)

	api.GET("/grammar/expand", Expand)
	api.GET("/grammar/normalize", Normalize)
	return r
}
