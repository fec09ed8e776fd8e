package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/grammar"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/notation"
)

// Expand answers with the flattened branches of a grammar string.
func Expand(ctx *gin.Context) {
	moves := ctx.Query("moves")
	branches, err := grammar.Expand(moves)
	if err != nil {
		var syntaxErr *grammar.SyntaxError
		if errors.As(err, &syntaxErr) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":  err.Error(),
				"offset": syntaxErr.Offset,
			})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"moves":    moves,
		"branches": branches,
	})
}

// Normalize rewrites a grammar string into long (to=lan, the default) or
// short (to=san) notation. Unconvertible input comes back unchanged.
func Normalize(ctx *gin.Context) {
	fen := ctx.Query("fen")
	moves := ctx.Query("moves")
	if fen == "" || moves == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "fen and moves are required",
		})
		return
	}
	var out string
	switch ctx.DefaultQuery("to", "lan") {
	case "lan":
		out = notation.NormalizeToLong(fen, moves)
	case "san":
		out = notation.NormalizeToShort(fen, moves)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "to should be lan or san",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"moves":   out,
		"changed": out != moves,
	})
}
