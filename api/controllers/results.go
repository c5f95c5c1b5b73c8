package controllers

import (
	"net/http"

	"github.com/1abdulhaseeb/votely/api/models"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	engine     *voting.Engine
	aggregator *voting.Aggregator
}

func NewResultsController(engine *voting.Engine, aggregator *voting.Aggregator) *ResultsController {
	return &ResultsController{
		engine:     engine,
		aggregator: aggregator,
	}
}

func (c *ResultsController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/polls/:id/results", c.getPollResults)
}

// getPollResults godoc
// @Summary Get poll results
// @Description Aggregated per-option vote counts for a poll; options with no votes appear with count 0
// @Tags results
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} models.PollResultsResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{id}/results [get]
func (c *ResultsController) getPollResults(g *gin.Context) {
	pollID := g.Param("id")

	poll, options, err := c.engine.GetPoll(g.Request.Context(), pollID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	results, err := c.aggregator.Aggregate(g.Request.Context(), pollID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	total := 0
	for _, r := range results {
		total += r.VoteCount
	}

	g.JSON(http.StatusOK, &models.PollResultsResponse{
		Poll:       models.TransformPollFromStorage(poll, options),
		Results:    results,
		TotalVotes: total,
	})
}
