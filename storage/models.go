package storage

import (
	"fmt"
	"time"
)

type PollStatus string

const (
	PollStatusDraft  PollStatus = "draft"
	PollStatusActive PollStatus = "active"
	PollStatusClosed PollStatus = "closed"
)

type PollType string

const (
	PollTypeCandidateBased PollType = "candidate_based"
	PollTypeGeneric        PollType = "generic"
)

type Poll struct {
	ID                 string     `dynamodbav:"PK" json:"id"`
	Title              string     `dynamodbav:"Title" json:"title"`
	Description        string     `dynamodbav:"Description" json:"description"`
	PollType           PollType   `dynamodbav:"PollType" json:"pollType"`
	Status             PollStatus `dynamodbav:"PollStatus" json:"status"`
	AllowMultipleVotes bool       `dynamodbav:"AllowMultipleVotes" json:"allowMultipleVotes"`
	CreatedBy          string     `dynamodbav:"CreatedBy" json:"createdBy"`
	CreatedAt          time.Time  `dynamodbav:"CreatedAt" json:"createdAt"`
	UpdatedAt          time.Time  `dynamodbav:"UpdatedAt" json:"updatedAt"`
}

type PollOption struct {
	PollID      string    `dynamodbav:"PK" json:"pollId"`
	ID          int       `dynamodbav:"SK" json:"id"`
	OptionText  string    `dynamodbav:"OptionText" json:"optionText"`
	CandidateID string    `dynamodbav:"CandidateID,omitempty" json:"candidateId,omitempty"`
	OrderIndex  int       `dynamodbav:"OrderIndex" json:"orderIndex"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt" json:"createdAt"`
}

type Vote struct {
	PollID    string    `dynamodbav:"PK" json:"pollId"`
	SortKey   string    `dynamodbav:"SK" json:"-"` // uniqueness key, see VoteSortKey
	ID        string    `dynamodbav:"VoteID" json:"id"`
	UserID    string    `dynamodbav:"UserID" json:"userId"`
	OptionID  int       `dynamodbav:"OptionID" json:"optionId"`
	CreatedAt time.Time `dynamodbav:"CreatedAt" json:"createdAt"`
}

// VoteSortKey builds the vote uniqueness key. Single-vote polls key on the
// voter alone, multi-vote polls on (voter, option). The conditional insert in
// VoteStorage.Create rejects a second item with the same key, which is what
// keeps the one-vote invariant intact under concurrent writers.
func VoteSortKey(userID string, optionID int, allowMultipleVotes bool) string {
	if allowMultipleVotes {
		return fmt.Sprintf("user#%s#option#%d", userID, optionID)
	}
	return fmt.Sprintf("user#%s", userID)
}
