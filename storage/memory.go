package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// In-memory implementations of the storage interfaces, used for local runs
// without AWS (storage.driver = memory) and by the test suite. Every method
// holds the store mutex across its whole check-and-write, so the same
// atomicity the DynamoDB conditional writes give is preserved here.

type MemoryPollStorage struct {
	mu    sync.RWMutex
	polls map[string]Poll
}

func NewMemoryPollStorage() *MemoryPollStorage {
	return &MemoryPollStorage{polls: make(map[string]Poll)}
}

func (s *MemoryPollStorage) Get(_ context.Context, id string) (*Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[id]
	if !ok {
		return nil, ErrPollNotFound
	}
	return &poll, nil
}

func (s *MemoryPollStorage) GetAll(_ context.Context, status PollStatus) ([]*Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := make([]*Poll, 0, len(s.polls))
	for _, poll := range s.polls {
		if status != "" && poll.Status != status {
			continue
		}
		p := poll
		polls = append(polls, &p)
	}
	sort.SliceStable(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *MemoryPollStorage) Create(_ context.Context, poll *Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[poll.ID]; ok {
		return ErrPollAlreadyExists
	}
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now().UTC()
	}
	poll.UpdatedAt = poll.CreatedAt
	poll.Status = PollStatusDraft
	s.polls[poll.ID] = *poll
	return nil
}

func (s *MemoryPollStorage) UpdateStatus(_ context.Context, id string, from, to PollStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[id]
	if !ok || poll.Status != from {
		return ErrStatusConflict
	}
	poll.Status = to
	poll.UpdatedAt = time.Now().UTC()
	s.polls[id] = poll
	return nil
}

type MemoryOptionStorage struct {
	mu      sync.RWMutex
	options map[string][]PollOption // keyed by poll ID
}

func NewMemoryOptionStorage() *MemoryOptionStorage {
	return &MemoryOptionStorage{options: make(map[string][]PollOption)}
}

func (s *MemoryOptionStorage) Get(_ context.Context, pollID string, optionID int) (*PollOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, option := range s.options[pollID] {
		if option.ID == optionID {
			o := option
			return &o, nil
		}
	}
	return nil, ErrOptionNotFound
}

func (s *MemoryOptionStorage) GetByPoll(_ context.Context, pollID string) ([]*PollOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	options := make([]*PollOption, 0, len(s.options[pollID]))
	for _, option := range s.options[pollID] {
		o := option
		options = append(options, &o)
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].ID < options[j].ID
	})
	return options, nil
}

func (s *MemoryOptionStorage) GetByCandidate(_ context.Context, candidateID string) ([]*PollOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]*PollOption, 0)
	for _, options := range s.options {
		for _, option := range options {
			if option.CandidateID != "" && option.CandidateID == candidateID {
				o := option
				filtered = append(filtered, &o)
			}
		}
	}
	return filtered, nil
}

func (s *MemoryOptionStorage) Create(_ context.Context, option *PollOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.options[option.PollID] {
		if existing.ID == option.ID {
			return ErrOptionAlreadyExists
		}
	}
	if option.CreatedAt.IsZero() {
		option.CreatedAt = time.Now().UTC()
	}
	s.options[option.PollID] = append(s.options[option.PollID], *option)
	return nil
}

type MemoryVoteStorage struct {
	mu    sync.RWMutex
	votes map[string]Vote // keyed by poll ID + sort key
}

func NewMemoryVoteStorage() *MemoryVoteStorage {
	return &MemoryVoteStorage{votes: make(map[string]Vote)}
}

func voteKey(pollID, sortKey string) string {
	return pollID + "|" + sortKey
}

func (s *MemoryVoteStorage) Create(_ context.Context, vote *Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(vote.PollID, vote.SortKey)
	if _, ok := s.votes[key]; ok {
		return ErrVoteAlreadyExists
	}
	s.votes[key] = *vote
	return nil
}

func (s *MemoryVoteStorage) GetAll(_ context.Context) ([]*Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]*Vote, 0, len(s.votes))
	for _, vote := range s.votes {
		v := vote
		votes = append(votes, &v)
	}
	return votes, nil
}

func (s *MemoryVoteStorage) GetByPoll(_ context.Context, pollID string) ([]*Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]*Vote, 0)
	for _, vote := range s.votes {
		if vote.PollID == pollID {
			v := vote
			votes = append(votes, &v)
		}
	}
	return votes, nil
}

func (s *MemoryVoteStorage) GetByPollAndUser(_ context.Context, pollID, userID string) ([]*Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]*Vote, 0)
	for _, vote := range s.votes {
		if vote.PollID == pollID && vote.UserID == userID {
			v := vote
			votes = append(votes, &v)
		}
	}
	return votes, nil
}

func (s *MemoryVoteStorage) CountByOption(_ context.Context, pollID string) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, vote := range s.votes {
		if vote.PollID == pollID {
			counts[vote.OptionID]++
		}
	}
	return counts, nil
}
