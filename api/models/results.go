package models

import "github.com/1abdulhaseeb/votely/voting"

type PollResultsResponse struct {
	Poll       PollResponse          `json:"poll"`
	Results    []voting.OptionResult `json:"results"`
	TotalVotes int                   `json:"totalVotes"`
}

type CandidateStatsResponse struct {
	CandidateID string                `json:"candidateId"`
	Stats       voting.CandidateStats `json:"stats"`
}

// PollListEntry is a poll in the public listing, with per-option results and
// the running total inlined.
type PollListEntry struct {
	PollResponse
	Results    []voting.OptionResult `json:"results"`
	TotalVotes int                   `json:"totalVotes"`
}
