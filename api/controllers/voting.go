package controllers

import (
	"net/http"

	"github.com/1abdulhaseeb/votely/api/models"
	"github.com/1abdulhaseeb/votely/api/transport"
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/gin-gonic/gin"
)

type VotingController struct {
	engine *voting.Engine
}

func NewVotingController(engine *voting.Engine) *VotingController {
	return &VotingController{engine: engine}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/polls", transport.RequireAuth())

	group.POST("/:id/vote", c.castVote)
	group.GET("/:id/my-vote", c.getMyVote)
}

// castVote godoc
// @Summary Cast a vote
// @Description Commits a single vote on an active poll (voters only)
// @Tags voting
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param vote body models.CastVoteRequest true "Chosen option"
// @Success 200 {object} models.CastVoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid vote data"
// @Failure 403 {object} models.ErrorResponse "Principal is not a voter"
// @Failure 404 {object} models.ErrorResponse "Poll or option missing"
// @Failure 409 {object} models.ErrorResponse "Poll not active or vote already cast"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/polls/{id}/vote [post]
func (c *VotingController) castVote(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	var req models.CastVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.OptionID < 1 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	vote, err := c.engine.CastVote(g.Request.Context(), principal, g.Param("id"), req.OptionID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	logging.Log.Infof("VOTING: %s voted on poll %s", principal.ID, vote.PollID)
	g.JSON(http.StatusOK, &models.CastVoteResponse{
		Message: "vote cast successfully",
		Vote:    models.TransformVoteFromStorage(vote),
	})
}

// getMyVote godoc
// @Summary Get own votes in a poll
// @Description Reports whether the caller voted in the poll and returns the committed votes
// @Tags voting
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} models.MyVoteResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{id}/my-vote [get]
func (c *VotingController) getMyVote(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	hasVoted, votes, err := c.engine.UserVote(g.Request.Context(), principal, g.Param("id"))
	if err != nil {
		writeEngineError(g, err)
		return
	}

	response := models.MyVoteResponse{
		HasVoted: hasVoted,
		Votes:    make([]models.VoteResponse, 0, len(votes)),
	}
	for _, vote := range votes {
		response.Votes = append(response.Votes, models.TransformVoteFromStorage(vote))
	}
	g.JSON(http.StatusOK, response)
}
