package controllers

import (
	"net/http"

	"github.com/1abdulhaseeb/votely/api/models"
	"github.com/1abdulhaseeb/votely/api/transport"
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/gin-gonic/gin"
)

type CandidatesController struct {
	engine     *voting.Engine
	aggregator *voting.Aggregator
}

func NewCandidatesController(engine *voting.Engine, aggregator *voting.Aggregator) *CandidatesController {
	return &CandidatesController{
		engine:     engine,
		aggregator: aggregator,
	}
}

func (c *CandidatesController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/candidates", transport.RequireAuth())

	group.GET("/stats", c.getStats)
	group.GET("/polls", c.getPolls)
	group.GET("/polls/:id/results", c.getPollResults)
}

// getStats godoc
// @Summary Get own candidate statistics
// @Description Number of poll options referencing the caller and votes collected across them (candidates only)
// @Tags candidates
// @Produce json
// @Success 200 {object} models.CandidateStatsResponse
// @Failure 403 {object} models.ErrorResponse "Caller is not a candidate"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates/stats [get]
func (c *CandidatesController) getStats(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	stats, err := c.aggregator.Stats(g.Request.Context(), principal, principal.ID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	g.JSON(http.StatusOK, &models.CandidateStatsResponse{
		CandidateID: principal.ID,
		Stats:       *stats,
	})
}

// getPolls godoc
// @Summary List polls the caller stands in
// @Description Polls containing at least one option bound to the calling candidate
// @Tags candidates
// @Produce json
// @Success 200 {array} models.PollResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates/polls [get]
func (c *CandidatesController) getPolls(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	polls, err := c.aggregator.CandidatePolls(g.Request.Context(), principal)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	responses := make([]models.PollResponse, 0, len(polls))
	for _, poll := range polls {
		responses = append(responses, models.TransformPollFromStorage(poll, nil))
	}
	g.JSON(http.StatusOK, responses)
}

// getPollResults godoc
// @Summary Get results for a poll the caller stands in
// @Description Aggregated results, only for polls where an option references the calling candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} models.PollResultsResponse
// @Failure 403 {object} models.ErrorResponse "Caller is not a candidate in this poll"
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates/polls/{id}/results [get]
func (c *CandidatesController) getPollResults(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)
	pollID := g.Param("id")

	results, err := c.aggregator.CandidatePollResults(g.Request.Context(), principal, pollID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	poll, options, err := c.engine.GetPoll(g.Request.Context(), pollID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	total := 0
	for _, r := range results {
		total += r.VoteCount
	}

	logging.Log.Infof("CANDIDATES: %s viewed results of poll %s", principal.ID, pollID)
	g.JSON(http.StatusOK, &models.PollResultsResponse{
		Poll:       models.TransformPollFromStorage(poll, options),
		Results:    results,
		TotalVotes: total,
	})
}
