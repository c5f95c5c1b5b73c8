package voting

import "errors"

// Error kinds returned by the engine and aggregator. The HTTP layer maps each
// kind to a status code; a DuplicateVote raised by the storage layer after the
// pre-check passed (a genuine race) is reported as the same kind as one caught
// by the pre-check, so callers cannot tell the two layers apart.
var (
	ErrNotFound           = errors.New("poll, option or user not found")
	ErrForbidden          = errors.New("principal is not allowed to perform this action")
	ErrInvalidTransition  = errors.New("illegal poll status transition")
	ErrPreconditionFailed = errors.New("poll does not satisfy the preconditions for this operation")
	ErrPollNotActive      = errors.New("poll is not open for voting")
	ErrDuplicateVote      = errors.New("a vote for this poll was already cast")
)
