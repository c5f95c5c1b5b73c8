package controllers

import (
	"errors"
	"net/http"

	"github.com/1abdulhaseeb/votely/api/models"
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/gin-gonic/gin"
)

// writeEngineError maps the engine error kinds onto status codes. Both
// duplicate-vote paths (pre-check and storage race) arrive here as the same
// kind, so the caller sees one behavior.
func writeEngineError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, voting.ErrNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "not found"})
	case errors.Is(err, voting.ErrForbidden):
		g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: "forbidden"})
	case errors.Is(err, voting.ErrPreconditionFailed):
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "request does not satisfy poll preconditions"})
	case errors.Is(err, voting.ErrInvalidTransition):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "illegal poll status transition"})
	case errors.Is(err, voting.ErrPollNotActive):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "poll is not open for voting"})
	case errors.Is(err, voting.ErrDuplicateVote):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "vote already exists or was submitted before"})
	default:
		logging.Log.Errorf("unexpected engine error: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "internal error"})
	}
}
