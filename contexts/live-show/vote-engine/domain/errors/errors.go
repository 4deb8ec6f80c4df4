package errors

import "errors"

var (
	ErrSessionClosed       = errors.New("rating session is closed")
	ErrVotingNotOpen       = errors.New("voting has not started yet")
	ErrVotingExpired       = errors.New("voting has expired")
	ErrVotingPaused        = errors.New("voting is currently paused")
	ErrAlreadyVoted        = errors.New("user has already rated this performance")
	ErrInvalidRating       = errors.New("rating outside the allowed range")
	ErrInvalidVoteInput    = errors.New("invalid vote input")
	ErrPerformanceNotFound = errors.New("performance not found")
	ErrEventNotFound       = errors.New("event not found")
)
