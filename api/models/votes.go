package models

import (
	"time"

	"github.com/1abdulhaseeb/votely/storage"
)

type CastVoteRequest struct {
	OptionID int `json:"optionId"`
}

type VoteResponse struct {
	ID        string    `json:"id"`
	PollID    string    `json:"pollId"`
	OptionID  int       `json:"optionId"`
	CreatedAt time.Time `json:"createdAt"`
}

type CastVoteResponse struct {
	Message string       `json:"message"`
	Vote    VoteResponse `json:"vote"`
}

type MyVoteResponse struct {
	HasVoted bool           `json:"hasVoted"`
	Votes    []VoteResponse `json:"votes"`
}

func TransformVoteFromStorage(vote *storage.Vote) VoteResponse {
	return VoteResponse{
		ID:        vote.ID,
		PollID:    vote.PollID,
		OptionID:  vote.OptionID,
		CreatedAt: vote.CreatedAt,
	}
}
