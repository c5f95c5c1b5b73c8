package voting

import (
	"context"
	"errors"
	"time"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/storage"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var pollIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Engine owns the poll lifecycle and is the only writer of vote records.
// Reads and writes go through the storage interfaces; the storage layer is
// the final authority on the vote uniqueness invariant.
type Engine struct {
	polls   storage.PollStorage
	options storage.OptionStorage
	votes   storage.VoteStorage
}

func NewEngine(polls storage.PollStorage, options storage.OptionStorage, votes storage.VoteStorage) *Engine {
	return &Engine{
		polls:   polls,
		options: options,
		votes:   votes,
	}
}

type OptionInput struct {
	OptionText  string
	CandidateID string
}

type CreatePollInput struct {
	Title              string
	Description        string
	PollType           storage.PollType
	AllowMultipleVotes bool
	Options            []OptionInput
}

// CreatePoll creates a poll in draft status with its initial option set.
// Options may also be added later with AddOption, as long as the poll has not
// been activated yet.
func (e *Engine) CreatePoll(ctx context.Context, p Principal, in CreatePollInput) (*storage.Poll, []*storage.PollOption, error) {
	if !Allowed(p, ActionCreatePoll) {
		logging.Log.Warnf("ENGINE: principal %s (%s) tried to create a poll", p.ID, p.Role)
		return nil, nil, ErrForbidden
	}
	if in.Title == "" || in.Description == "" {
		return nil, nil, ErrPreconditionFailed
	}

	pollType := in.PollType
	if pollType == "" {
		pollType = storage.PollTypeGeneric
	}
	if pollType != storage.PollTypeGeneric && pollType != storage.PollTypeCandidateBased {
		return nil, nil, ErrPreconditionFailed
	}
	for _, option := range in.Options {
		if option.OptionText == "" {
			return nil, nil, ErrPreconditionFailed
		}
		if pollType == storage.PollTypeCandidateBased && option.CandidateID == "" {
			return nil, nil, ErrPreconditionFailed
		}
	}

	id, err := gonanoid.Generate(pollIDAlphabet, 10)
	if err != nil {
		logging.Log.Errorf("ENGINE: failed to generate poll id: %v", err)
		return nil, nil, err
	}

	poll := &storage.Poll{
		ID:                 id,
		Title:              in.Title,
		Description:        in.Description,
		PollType:           pollType,
		AllowMultipleVotes: in.AllowMultipleVotes,
		CreatedBy:          p.ID,
		CreatedAt:          time.Now().UTC(),
	}
	if err := e.polls.Create(ctx, poll); err != nil {
		return nil, nil, err
	}

	options := make([]*storage.PollOption, 0, len(in.Options))
	for i, option := range in.Options {
		stored := &storage.PollOption{
			PollID:      poll.ID,
			ID:          i + 1,
			OptionText:  option.OptionText,
			CandidateID: option.CandidateID,
			OrderIndex:  i,
			CreatedAt:   poll.CreatedAt,
		}
		if err := e.options.Create(ctx, stored); err != nil {
			return nil, nil, err
		}
		options = append(options, stored)
	}

	logging.Log.Infof("ENGINE: created poll %s (%s) with %d options", poll.ID, poll.PollType, len(options))
	return poll, options, nil
}

// AddOption appends an option to a draft poll. The option set is frozen once
// the poll leaves draft.
func (e *Engine) AddOption(ctx context.Context, p Principal, pollID string, in OptionInput) (*storage.PollOption, error) {
	if !Allowed(p, ActionAddOption) {
		return nil, ErrForbidden
	}
	if in.OptionText == "" {
		return nil, ErrPreconditionFailed
	}

	poll, err := e.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != storage.PollStatusDraft {
		logging.Log.Warnf("ENGINE: option add rejected, poll %s is %s", poll.ID, poll.Status)
		return nil, ErrInvalidTransition
	}
	if poll.PollType == storage.PollTypeCandidateBased && in.CandidateID == "" {
		return nil, ErrPreconditionFailed
	}

	existing, err := e.options.GetByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	nextID := 1
	if len(existing) > 0 {
		nextID = existing[len(existing)-1].ID + 1
	}

	option := &storage.PollOption{
		PollID:      pollID,
		ID:          nextID,
		OptionText:  in.OptionText,
		CandidateID: in.CandidateID,
		OrderIndex:  len(existing),
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.options.Create(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// GetPoll returns a poll together with its ordered options.
func (e *Engine) GetPoll(ctx context.Context, pollID string) (*storage.Poll, []*storage.PollOption, error) {
	poll, err := e.getPoll(ctx, pollID)
	if err != nil {
		return nil, nil, err
	}
	options, err := e.options.GetByPoll(ctx, pollID)
	if err != nil {
		return nil, nil, err
	}
	return poll, options, nil
}

// ListPolls returns polls newest first, optionally filtered by status.
func (e *Engine) ListPolls(ctx context.Context, status storage.PollStatus) ([]*storage.Poll, error) {
	switch status {
	case "", storage.PollStatusDraft, storage.PollStatusActive, storage.PollStatusClosed:
	default:
		return nil, ErrPreconditionFailed
	}
	return e.polls.GetAll(ctx, status)
}

// Options returns the ordered option list of a poll.
func (e *Engine) Options(ctx context.Context, pollID string) ([]*storage.PollOption, error) {
	return e.options.GetByPoll(ctx, pollID)
}

// SetStatus drives the draft -> active -> closed machine. Permitted moves are
// draft->active, active->closed and draft->closed; everything else fails with
// ErrInvalidTransition. Activation additionally requires at least two options.
// The storage write re-checks the source status, so a concurrent transition
// loses cleanly instead of rewinding the poll.
func (e *Engine) SetStatus(ctx context.Context, p Principal, pollID string, to storage.PollStatus) (*storage.Poll, error) {
	if !Allowed(p, ActionChangeStatus) {
		logging.Log.Warnf("ENGINE: principal %s (%s) tried to change status of poll %s", p.ID, p.Role, pollID)
		return nil, ErrForbidden
	}

	poll, err := e.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !validTransition(poll.Status, to) {
		logging.Log.Warnf("ENGINE: rejected transition %s -> %s for poll %s", poll.Status, to, poll.ID)
		return nil, ErrInvalidTransition
	}

	if to == storage.PollStatusActive {
		options, err := e.options.GetByPoll(ctx, pollID)
		if err != nil {
			return nil, err
		}
		if len(options) < 2 {
			logging.Log.Warnf("ENGINE: poll %s has %d options, cannot activate", poll.ID, len(options))
			return nil, ErrPreconditionFailed
		}
	}

	if err := e.polls.UpdateStatus(ctx, pollID, poll.Status, to); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	poll.Status = to
	poll.UpdatedAt = time.Now().UTC()
	logging.Log.Infof("ENGINE: poll %s moved to %s", poll.ID, to)
	return poll, nil
}

func validTransition(from, to storage.PollStatus) bool {
	switch from {
	case storage.PollStatusDraft:
		return to == storage.PollStatusActive || to == storage.PollStatusClosed
	case storage.PollStatusActive:
		return to == storage.PollStatusClosed
	default:
		return false
	}
}

// CastVote validates and commits a single vote. The duplicate pre-check here
// fails fast with a clean error; the storage conditional insert repeats the
// same predicate atomically, so two racing calls can never both commit.
func (e *Engine) CastVote(ctx context.Context, p Principal, pollID string, optionID int) (*storage.Vote, error) {
	if !Allowed(p, ActionCastVote) {
		logging.Log.Warnf("ENGINE: principal %s (%s) tried to vote on poll %s", p.ID, p.Role, pollID)
		return nil, ErrForbidden
	}

	poll, err := e.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if _, err := e.options.Get(ctx, pollID, optionID); err != nil {
		if errors.Is(err, storage.ErrOptionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if poll.Status != storage.PollStatusActive {
		return nil, ErrPollNotActive
	}

	existing, err := e.votes.GetByPollAndUser(ctx, pollID, p.ID)
	if err != nil {
		return nil, err
	}
	if !poll.AllowMultipleVotes && len(existing) > 0 {
		return nil, ErrDuplicateVote
	}
	for _, v := range existing {
		if v.OptionID == optionID {
			return nil, ErrDuplicateVote
		}
	}

	vote := &storage.Vote{
		PollID:    pollID,
		SortKey:   storage.VoteSortKey(p.ID, optionID, poll.AllowMultipleVotes),
		ID:        uuid.NewString(),
		UserID:    p.ID,
		OptionID:  optionID,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.votes.Create(ctx, vote); err != nil {
		// A race slipped past the pre-check; same kind as a pre-check hit.
		if errors.Is(err, storage.ErrVoteAlreadyExists) {
			return nil, ErrDuplicateVote
		}
		return nil, err
	}

	logging.Log.Infof("ENGINE: vote %s recorded on poll %s option %d", vote.ID, pollID, optionID)
	return vote, nil
}

// UserVote reports whether the principal voted in the poll and returns the
// committed votes.
func (e *Engine) UserVote(ctx context.Context, p Principal, pollID string) (bool, []*storage.Vote, error) {
	if !Allowed(p, ActionViewOwnVote) {
		return false, nil, ErrForbidden
	}
	if _, err := e.getPoll(ctx, pollID); err != nil {
		return false, nil, err
	}
	votes, err := e.votes.GetByPollAndUser(ctx, pollID, p.ID)
	if err != nil {
		return false, nil, err
	}
	return len(votes) > 0, votes, nil
}

func (e *Engine) getPoll(ctx context.Context, pollID string) (*storage.Poll, error) {
	poll, err := e.polls.Get(ctx, pollID)
	if err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return poll, nil
}
