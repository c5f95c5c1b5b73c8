package voting

import (
	"context"
	"sync"
	"testing"

	"github.com/1abdulhaseeb/votely/logging"
	"github.com/1abdulhaseeb/votely/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin     = Principal{ID: "admin-1", Role: RoleAdmin}
	voterA    = Principal{ID: "voter-a", Role: RoleVoter}
	voterB    = Principal{ID: "voter-b", Role: RoleVoter}
	candidate = Principal{ID: "cand-1", Role: RoleCandidate}
)

func setupTestEngine(t *testing.T) *Engine {
	t.Helper()
	logging.Log = logrus.New()

	return NewEngine(
		storage.NewMemoryPollStorage(),
		storage.NewMemoryOptionStorage(),
		storage.NewMemoryVoteStorage(),
	)
}

func createTestPoll(t *testing.T, e *Engine, allowMultiple bool, optionTexts ...string) *storage.Poll {
	t.Helper()

	in := CreatePollInput{
		Title:              "Team lunch",
		Description:        "Where are we going?",
		PollType:           storage.PollTypeGeneric,
		AllowMultipleVotes: allowMultiple,
	}
	for _, text := range optionTexts {
		in.Options = append(in.Options, OptionInput{OptionText: text})
	}

	poll, _, err := e.CreatePoll(context.Background(), admin, in)
	require.NoError(t, err)
	return poll
}

func activateTestPoll(t *testing.T, e *Engine, pollID string) {
	t.Helper()
	_, err := e.SetStatus(context.Background(), admin, pollID, storage.PollStatusActive)
	require.NoError(t, err)
}

func TestCreatePoll(t *testing.T) {
	e := setupTestEngine(t)

	t.Run("Happy path - admin creates a generic poll", func(t *testing.T) {
		poll, options, err := e.CreatePoll(context.Background(), admin, CreatePollInput{
			Title:       "Best editor",
			Description: "Pick one",
			PollType:    storage.PollTypeGeneric,
			Options: []OptionInput{
				{OptionText: "vim"},
				{OptionText: "emacs"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, storage.PollStatusDraft, poll.Status, "New polls must start in draft")
		assert.Equal(t, admin.ID, poll.CreatedBy)
		require.Len(t, options, 2)
		assert.Equal(t, 1, options[0].ID)
		assert.Equal(t, 2, options[1].ID)
		assert.Equal(t, 0, options[0].OrderIndex)
		assert.Equal(t, 1, options[1].OrderIndex)
	})

	t.Run("Happy path - candidate based poll with bound candidates", func(t *testing.T) {
		poll, options, err := e.CreatePoll(context.Background(), admin, CreatePollInput{
			Title:       "Board election",
			Description: "Vote for the next chair",
			PollType:    storage.PollTypeCandidateBased,
			Options: []OptionInput{
				{OptionText: "Alice", CandidateID: "cand-1"},
				{OptionText: "Bob", CandidateID: "cand-2"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, storage.PollTypeCandidateBased, poll.PollType)
		assert.Equal(t, "cand-1", options[0].CandidateID)
	})

	t.Run("Unhappy path - voter cannot create polls", func(t *testing.T) {
		_, _, err := e.CreatePoll(context.Background(), voterA, CreatePollInput{
			Title:       "Nope",
			Description: "Nope",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Unhappy path - candidate cannot create polls", func(t *testing.T) {
		_, _, err := e.CreatePoll(context.Background(), candidate, CreatePollInput{
			Title:       "Nope",
			Description: "Nope",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Unhappy path - missing title or description", func(t *testing.T) {
		_, _, err := e.CreatePoll(context.Background(), admin, CreatePollInput{Description: "d"})
		assert.ErrorIs(t, err, ErrPreconditionFailed)

		_, _, err = e.CreatePoll(context.Background(), admin, CreatePollInput{Title: "t"})
		assert.ErrorIs(t, err, ErrPreconditionFailed)
	})

	t.Run("Unhappy path - candidate based option without candidate", func(t *testing.T) {
		_, _, err := e.CreatePoll(context.Background(), admin, CreatePollInput{
			Title:       "Board election",
			Description: "Vote",
			PollType:    storage.PollTypeCandidateBased,
			Options: []OptionInput{
				{OptionText: "Alice", CandidateID: "cand-1"},
				{OptionText: "Bob"},
			},
		})
		assert.ErrorIs(t, err, ErrPreconditionFailed)
	})
}

func TestAddOption(t *testing.T) {
	e := setupTestEngine(t)

	t.Run("Happy path - option added while in draft", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")

		option, err := e.AddOption(context.Background(), admin, poll.ID, OptionInput{OptionText: "Zig"})

		require.NoError(t, err)
		assert.Equal(t, 3, option.ID)
		assert.Equal(t, 2, option.OrderIndex)
	})

	t.Run("Unhappy path - options frozen after activation", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		activateTestPoll(t, e, poll.ID)

		_, err := e.AddOption(context.Background(), admin, poll.ID, OptionInput{OptionText: "Zig"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Unhappy path - only admins add options", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")

		_, err := e.AddOption(context.Background(), voterA, poll.ID, OptionInput{OptionText: "Zig"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Unhappy path - unknown poll", func(t *testing.T) {
		_, err := e.AddOption(context.Background(), admin, "missing", OptionInput{OptionText: "Zig"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSetStatus(t *testing.T) {
	e := setupTestEngine(t)

	t.Run("Happy path - draft to active to closed", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")

		updated, err := e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusActive)
		require.NoError(t, err)
		assert.Equal(t, storage.PollStatusActive, updated.Status)

		updated, err = e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusClosed)
		require.NoError(t, err)
		assert.Equal(t, storage.PollStatusClosed, updated.Status)
	})

	t.Run("Happy path - draft poll cancelled straight to closed", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")

		updated, err := e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusClosed)
		require.NoError(t, err)
		assert.Equal(t, storage.PollStatusClosed, updated.Status)
	})

	t.Run("Unhappy path - closed polls never reopen", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		_, err := e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusClosed)
		require.NoError(t, err)

		_, err = e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusActive)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusDraft)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Unhappy path - active poll cannot rewind to draft", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		activateTestPoll(t, e, poll.ID)

		_, err := e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusDraft)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Unhappy path - activation needs at least two options", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go")

		_, err := e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusActive)
		assert.ErrorIs(t, err, ErrPreconditionFailed)

		// Second option arrives, activation now passes
		_, err = e.AddOption(context.Background(), admin, poll.ID, OptionInput{OptionText: "Rust"})
		require.NoError(t, err)
		_, err = e.SetStatus(context.Background(), admin, poll.ID, storage.PollStatusActive)
		assert.NoError(t, err)
	})

	t.Run("Unhappy path - only admins change status", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")

		_, err := e.SetStatus(context.Background(), voterA, poll.ID, storage.PollStatusActive)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Unhappy path - unknown poll", func(t *testing.T) {
		_, err := e.SetStatus(context.Background(), admin, "missing", storage.PollStatusActive)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCastVote(t *testing.T) {
	e := setupTestEngine(t)

	t.Run("Happy path - voter casts a vote on an active poll", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		activateTestPoll(t, e, poll.ID)

		vote, err := e.CastVote(context.Background(), voterA, poll.ID, 1)

		require.NoError(t, err)
		assert.Equal(t, poll.ID, vote.PollID)
		assert.Equal(t, voterA.ID, vote.UserID)
		assert.Equal(t, 1, vote.OptionID)
		assert.NotEmpty(t, vote.ID)
	})

	t.Run("Unhappy path - second vote in a single-vote poll", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		activateTestPoll(t, e, poll.ID)

		_, err := e.CastVote(context.Background(), voterA, poll.ID, 1)
		require.NoError(t, err)

		// Same option and a different option both count as duplicates
		_, err = e.CastVote(context.Background(), voterA, poll.ID, 1)
		assert.ErrorIs(t, err, ErrDuplicateVote)
		_, err = e.CastVote(context.Background(), voterA, poll.ID, 2)
		assert.ErrorIs(t, err, ErrDuplicateVote)
	})

	t.Run("Happy path - multi-vote poll allows one vote per option", func(t *testing.T) {
		poll := createTestPoll(t, e, true, "Go", "Rust", "Zig")
		activateTestPoll(t, e, poll.ID)

		_, err := e.CastVote(context.Background(), voterA, poll.ID, 1)
		require.NoError(t, err)
		_, err = e.CastVote(context.Background(), voterA, poll.ID, 2)
		require.NoError(t, err)

		_, err = e.CastVote(context.Background(), voterA, poll.ID, 1)
		assert.ErrorIs(t, err, ErrDuplicateVote, "Voting twice for the same option must fail")
	})

	t.Run("Unhappy path - poll not active", func(t *testing.T) {
		draft := createTestPoll(t, e, false, "Go", "Rust")
		_, err := e.CastVote(context.Background(), voterA, draft.ID, 1)
		assert.ErrorIs(t, err, ErrPollNotActive)

		closed := createTestPoll(t, e, false, "Go", "Rust")
		_, err = e.SetStatus(context.Background(), admin, closed.ID, storage.PollStatusClosed)
		require.NoError(t, err)
		_, err = e.CastVote(context.Background(), voterA, closed.ID, 1)
		assert.ErrorIs(t, err, ErrPollNotActive)
	})

	t.Run("Unhappy path - only voters vote", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		activateTestPoll(t, e, poll.ID)

		_, err := e.CastVote(context.Background(), admin, poll.ID, 1)
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = e.CastVote(context.Background(), candidate, poll.ID, 1)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Unhappy path - unknown poll or option", func(t *testing.T) {
		poll := createTestPoll(t, e, false, "Go", "Rust")
		activateTestPoll(t, e, poll.ID)

		_, err := e.CastVote(context.Background(), voterA, "missing", 1)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = e.CastVote(context.Background(), voterA, poll.ID, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Unhappy path - option from another poll", func(t *testing.T) {
		first := createTestPoll(t, e, false, "Go", "Rust")
		second := createTestPoll(t, e, false, "A", "B", "C")
		activateTestPoll(t, e, first.ID)
		activateTestPoll(t, e, second.ID)

		// Option 3 exists on the second poll only
		_, err := e.CastVote(context.Background(), voterA, first.ID, 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserVote(t *testing.T) {
	e := setupTestEngine(t)

	poll := createTestPoll(t, e, false, "Go", "Rust")
	activateTestPoll(t, e, poll.ID)

	hasVoted, votes, err := e.UserVote(context.Background(), voterA, poll.ID)
	require.NoError(t, err)
	assert.False(t, hasVoted)
	assert.Empty(t, votes)

	_, err = e.CastVote(context.Background(), voterA, poll.ID, 2)
	require.NoError(t, err)

	hasVoted, votes, err = e.UserVote(context.Background(), voterA, poll.ID)
	require.NoError(t, err)
	assert.True(t, hasVoted)
	require.Len(t, votes, 1)
	assert.Equal(t, 2, votes[0].OptionID)

	// Another voter is unaffected
	hasVoted, _, err = e.UserVote(context.Background(), voterB, poll.ID)
	require.NoError(t, err)
	assert.False(t, hasVoted)
}

func TestConcurrentCastVote(t *testing.T) {
	e := setupTestEngine(t)

	poll := createTestPoll(t, e, false, "Go", "Rust")
	activateTestPoll(t, e, poll.ID)

	const attempts = 25
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = e.CastVote(context.Background(), voterA, poll.ID, 1+n%2)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateVote)
		}
	}
	assert.Equal(t, 1, succeeded, "Exactly one concurrent vote may commit")

	votes, err := e.votes.GetByPoll(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1, "Exactly one vote row may exist")
}
