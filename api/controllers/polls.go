package controllers

import (
	"net/http"

	"github.com/1abdulhaseeb/votely/api/models"
	"github.com/1abdulhaseeb/votely/api/transport"
	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/storage"
	"github.com/1abdulhaseeb/votely/voting"
	"github.com/gin-gonic/gin"
)

type PollsController struct {
	engine     *voting.Engine
	aggregator *voting.Aggregator
}

func NewPollsController(engine *voting.Engine, aggregator *voting.Aggregator) *PollsController {
	return &PollsController{
		engine:     engine,
		aggregator: aggregator,
	}
}

func (c *PollsController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/polls")

	group.GET("", c.listPolls)
	group.GET("/:id", c.getPoll)
	group.POST("", transport.RequireAuth(), c.createPoll)
	group.POST("/:id/options", transport.RequireAuth(), c.addOption)
	group.PUT("/:id/status", transport.RequireAuth(), c.updateStatus)
}

// createPoll godoc
// @Summary Create a poll
// @Description Creates a draft poll with its initial options (admin only)
// @Tags polls
// @Accept json
// @Produce json
// @Param poll body models.CreatePollRequest true "Poll definition"
// @Success 200 {object} models.PollResponse
// @Failure 400 {object} models.ErrorResponse "Missing title, description or option text"
// @Failure 403 {object} models.ErrorResponse "Principal is not an admin"
// @Router /api/polls [post]
func (c *PollsController) createPoll(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	var req models.CreatePollRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	in := voting.CreatePollInput{
		Title:              req.Title,
		Description:        req.Description,
		PollType:           storage.PollType(req.PollType),
		AllowMultipleVotes: req.AllowMultipleVotes,
	}
	for _, option := range req.Options {
		in.Options = append(in.Options, voting.OptionInput{
			OptionText:  option.OptionText,
			CandidateID: option.CandidateID,
		})
	}

	poll, options, err := c.engine.CreatePoll(g.Request.Context(), principal, in)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	logging.Log.Infof("POLLS: %s created poll %s", principal.ID, poll.ID)
	g.JSON(http.StatusOK, models.TransformPollFromStorage(poll, options))
}

// listPolls godoc
// @Summary List polls
// @Description Lists polls newest first with options, per-option counts and total votes
// @Tags polls
// @Produce json
// @Param status query string false "Filter by status (draft, active, closed)"
// @Success 200 {array} models.PollListEntry
// @Failure 400 {object} models.ErrorResponse "Unknown status filter"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls [get]
func (c *PollsController) listPolls(g *gin.Context) {
	polls, err := c.engine.ListPolls(g.Request.Context(), storage.PollStatus(g.Query("status")))
	if err != nil {
		writeEngineError(g, err)
		return
	}

	entries := make([]models.PollListEntry, 0, len(polls))
	for _, poll := range polls {
		options, err := c.engine.Options(g.Request.Context(), poll.ID)
		if err != nil {
			writeEngineError(g, err)
			return
		}
		results, err := c.aggregator.Aggregate(g.Request.Context(), poll.ID)
		if err != nil {
			writeEngineError(g, err)
			return
		}
		total := 0
		for _, r := range results {
			total += r.VoteCount
		}
		entries = append(entries, models.PollListEntry{
			PollResponse: models.TransformPollFromStorage(poll, options),
			Results:      results,
			TotalVotes:   total,
		})
	}

	g.JSON(http.StatusOK, entries)
}

// getPoll godoc
// @Summary Get a poll
// @Description Returns a poll with its ordered options
// @Tags polls
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} models.PollResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{id} [get]
func (c *PollsController) getPoll(g *gin.Context) {
	poll, options, err := c.engine.GetPoll(g.Request.Context(), g.Param("id"))
	if err != nil {
		writeEngineError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformPollFromStorage(poll, options))
}

// addOption godoc
// @Summary Add an option to a draft poll
// @Description Appends an option; rejected once the poll has been activated (admin only)
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param option body models.AddOptionRequest true "Option to add"
// @Success 200 {object} models.PollOptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Poll is no longer in draft"
// @Router /api/polls/{id}/options [post]
func (c *PollsController) addOption(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	var req models.AddOptionRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	option, err := c.engine.AddOption(g.Request.Context(), principal, g.Param("id"), voting.OptionInput{
		OptionText:  req.OptionText,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		writeEngineError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformPollOptionFromStorage(option))
}

// updateStatus godoc
// @Summary Change poll status
// @Description Moves a poll along draft -> active -> closed (admin only)
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param status body models.UpdateStatusRequest true "Target status"
// @Success 200 {object} models.PollResponse
// @Failure 400 {object} models.ErrorResponse "Unknown status or too few options to activate"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Illegal transition"
// @Router /api/polls/{id}/status [put]
func (c *PollsController) updateStatus(g *gin.Context) {
	principal, _ := transport.PrincipalFrom(g)

	var req models.UpdateStatusRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	to := storage.PollStatus(req.Status)
	switch to {
	case storage.PollStatusDraft, storage.PollStatusActive, storage.PollStatusClosed:
	default:
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid status"})
		return
	}

	poll, err := c.engine.SetStatus(g.Request.Context(), principal, g.Param("id"), to)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	logging.Log.Infof("POLLS: %s moved poll %s to %s", principal.ID, poll.ID, poll.Status)
	g.JSON(http.StatusOK, models.TransformPollFromStorage(poll, nil))
}
