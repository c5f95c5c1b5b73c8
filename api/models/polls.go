package models

import (
	"time"

	"github.com/1abdulhaseeb/votely/storage"
)

type OptionEntry struct {
	OptionText  string `json:"optionText"`
	CandidateID string `json:"candidateId,omitempty"`
}

type CreatePollRequest struct {
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	PollType           string        `json:"pollType"`
	AllowMultipleVotes bool          `json:"allowMultipleVotes"`
	Options            []OptionEntry `json:"options"`
}

type AddOptionRequest struct {
	OptionText  string `json:"optionText"`
	CandidateID string `json:"candidateId,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type PollOptionResponse struct {
	ID          int    `json:"id"`
	OptionText  string `json:"optionText"`
	CandidateID string `json:"candidateId,omitempty"`
	OrderIndex  int    `json:"orderIndex"`
}

type PollResponse struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	PollType           string               `json:"pollType"`
	Status             string               `json:"status"`
	AllowMultipleVotes bool                 `json:"allowMultipleVotes"`
	CreatedBy          string               `json:"createdBy"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
	Options            []PollOptionResponse `json:"options,omitempty"`
}

func TransformPollOptionFromStorage(option *storage.PollOption) PollOptionResponse {
	return PollOptionResponse{
		ID:          option.ID,
		OptionText:  option.OptionText,
		CandidateID: option.CandidateID,
		OrderIndex:  option.OrderIndex,
	}
}

func TransformPollFromStorage(poll *storage.Poll, options []*storage.PollOption) PollResponse {
	r := PollResponse{
		ID:                 poll.ID,
		Title:              poll.Title,
		Description:        poll.Description,
		PollType:           string(poll.PollType),
		Status:             string(poll.Status),
		AllowMultipleVotes: poll.AllowMultipleVotes,
		CreatedBy:          poll.CreatedBy,
		CreatedAt:          poll.CreatedAt,
		UpdatedAt:          poll.UpdatedAt,
	}
	for _, option := range options {
		r.Options = append(r.Options, TransformPollOptionFromStorage(option))
	}
	return r
}
