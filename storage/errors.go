package storage

import "errors"

var ErrPollNotFound = errors.New("poll not found in storage")
var ErrOptionNotFound = errors.New("poll option not found in storage")
var ErrPollAlreadyExists = errors.New("poll with ID already exists")
var ErrOptionAlreadyExists = errors.New("poll option with ID already exists")
var ErrVoteAlreadyExists = errors.New("vote already recorded for this voter")
var ErrStatusConflict = errors.New("stored poll status does not match expected status")
