package entities

import "time"

type PerformanceStatus string

const (
	PerformanceStatusLive   PerformanceStatus = "live"
	PerformanceStatusClosed PerformanceStatus = "closed"
)

// VotingState is the derived sub-state of a live performance's voting window.
type VotingState string

const (
	VotingStateOpen       VotingState = "open"
	VotingStateNotStarted VotingState = "not_started"
	VotingStateExpired    VotingState = "expired"
	VotingStatePaused     VotingState = "paused"
	VotingStateClosed     VotingState = "closed"
)

// Performance is one timed appearance of one artist on stage, the unit votes
// are cast against. At most one performance per event holds status=live; the
// lifecycle use cases serialize on the event to keep that true.
type Performance struct {
	PerformanceID   string
	ArtistID        string
	EventID         string
	Status          PerformanceStatus
	StartTime       time.Time
	EndTime         *time.Time
	VotingStartedAt *time.Time
	VotingEndsAt    *time.Time
	VotingPaused    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VotingState derives the window sub-state from stored fields and the supplied
// clock reading. The window is a stored deadline, not an active timer, so this
// must be recomputed at every admission or read; never cache the result across
// a request boundary.
func (p Performance) VotingState(now time.Time) VotingState {
	if p.Status != PerformanceStatusLive {
		return VotingStateClosed
	}
	if p.VotingStartedAt == nil || p.VotingStartedAt.After(now) {
		return VotingStateNotStarted
	}
	if p.VotingEndsAt != nil && !p.VotingEndsAt.After(now) {
		return VotingStateExpired
	}
	if p.VotingPaused {
		return VotingStatePaused
	}
	return VotingStateOpen
}

// IsVotingOpen is the single gate used everywhere voting eligibility is
// checked.
func (p Performance) IsVotingOpen(now time.Time) bool {
	return p.VotingState(now) == VotingStateOpen
}

// VotingSecondsLeft reports the remaining window, floored at zero. Zero also
// means "no window", which callers distinguish via VotingState.
func (p Performance) VotingSecondsLeft(now time.Time) int {
	if p.VotingEndsAt == nil {
		return 0
	}
	left := p.VotingEndsAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}
