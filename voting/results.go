package voting

import (
	"context"
	"errors"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/storage"
)

// Aggregator computes results from committed votes on demand. It never writes:
// counts are derived from the vote rows every time, so there is no counter
// state that could drift from them.
type Aggregator struct {
	polls   storage.PollStorage
	options storage.OptionStorage
	votes   storage.VoteStorage
}

func NewAggregator(polls storage.PollStorage, options storage.OptionStorage, votes storage.VoteStorage) *Aggregator {
	return &Aggregator{
		polls:   polls,
		options: options,
		votes:   votes,
	}
}

type OptionResult struct {
	OptionID    int    `json:"optionId"`
	OptionText  string `json:"optionText"`
	CandidateID string `json:"candidateId,omitempty"`
	VoteCount   int    `json:"voteCount"`
}

type CandidateStats struct {
	TotalPolls int `json:"totalPolls"`
	TotalVotes int `json:"totalVotes"`
}

// Aggregate returns the per-option vote counts for a poll, ordered by option
// id (creation order). Options nobody voted for appear with a zero count.
func (a *Aggregator) Aggregate(ctx context.Context, pollID string) ([]OptionResult, error) {
	if _, err := a.polls.Get(ctx, pollID); err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	options, err := a.options.GetByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	counts, err := a.votes.CountByOption(ctx, pollID)
	if err != nil {
		return nil, err
	}

	results := make([]OptionResult, 0, len(options))
	for _, option := range options {
		results = append(results, OptionResult{
			OptionID:    option.ID,
			OptionText:  option.OptionText,
			CandidateID: option.CandidateID,
			VoteCount:   counts[option.ID],
		})
	}
	return results, nil
}

// TotalVotes sums the per-option counts. In a multi-vote poll a single voter
// contributes once per voted option.
func (a *Aggregator) TotalVotes(ctx context.Context, pollID string) (int, error) {
	results, err := a.Aggregate(ctx, pollID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range results {
		total += r.VoteCount
	}
	return total, nil
}

// Stats returns a candidate's own numbers: how many poll options reference
// them and how many votes those options collected. Only the candidate
// themselves may ask.
func (a *Aggregator) Stats(ctx context.Context, p Principal, candidateID string) (*CandidateStats, error) {
	if !Allowed(p, ActionViewCandidateStats) || p.ID != candidateID {
		logging.Log.Warnf("RESULTS: principal %s (%s) denied stats of candidate %s", p.ID, p.Role, candidateID)
		return nil, ErrForbidden
	}

	options, err := a.options.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]map[int]bool, len(options))
	for _, option := range options {
		if owned[option.PollID] == nil {
			owned[option.PollID] = make(map[int]bool)
		}
		owned[option.PollID][option.ID] = true
	}

	votes, err := a.votes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	totalVotes := 0
	for _, vote := range votes {
		if owned[vote.PollID][vote.OptionID] {
			totalVotes++
		}
	}

	return &CandidateStats{
		TotalPolls: len(options),
		TotalVotes: totalVotes,
	}, nil
}

// CandidatePolls lists the polls in which the principal stands as a candidate.
func (a *Aggregator) CandidatePolls(ctx context.Context, p Principal) ([]*storage.Poll, error) {
	if !Allowed(p, ActionViewCandidateStats) {
		return nil, ErrForbidden
	}

	options, err := a.options.GetByCandidate(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	polls := make([]*storage.Poll, 0, len(options))
	for _, option := range options {
		if seen[option.PollID] {
			continue
		}
		seen[option.PollID] = true
		poll, err := a.polls.Get(ctx, option.PollID)
		if err != nil {
			if errors.Is(err, storage.ErrPollNotFound) {
				continue
			}
			return nil, err
		}
		polls = append(polls, poll)
	}
	return polls, nil
}

// CandidatePollResults returns the aggregate for a poll the principal stands
// in. A candidate asking about a poll that does not list them is refused.
func (a *Aggregator) CandidatePollResults(ctx context.Context, p Principal, pollID string) ([]OptionResult, error) {
	if !Allowed(p, ActionViewCandidateStats) {
		return nil, ErrForbidden
	}

	inPoll, err := a.IsCandidateInPoll(ctx, pollID, p.ID)
	if err != nil {
		return nil, err
	}
	if !inPoll {
		logging.Log.Warnf("RESULTS: candidate %s is not part of poll %s", p.ID, pollID)
		return nil, ErrForbidden
	}
	return a.Aggregate(ctx, pollID)
}

// IsCandidateInPoll reports whether any option of the poll references the
// candidate.
func (a *Aggregator) IsCandidateInPoll(ctx context.Context, pollID, candidateID string) (bool, error) {
	options, err := a.options.GetByPoll(ctx, pollID)
	if err != nil {
		return false, err
	}
	for _, option := range options {
		if option.CandidateID != "" && option.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}
