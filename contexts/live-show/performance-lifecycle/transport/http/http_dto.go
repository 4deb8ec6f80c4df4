package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StartPerformanceRequest struct {
	ArtistID string `json:"artist_id"`
}

type OpenVotingRequest struct {
	DurationSeconds int `json:"duration_seconds,omitempty"`
}

type AdjustTimeRequest struct {
	DeltaSeconds int `json:"delta_seconds"`
}

type PerformanceResponse struct {
	PerformanceID   string `json:"performance_id"`
	ArtistID        string `json:"artist_id"`
	EventID         string `json:"event_id"`
	Status          string `json:"status"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time,omitempty"`
	VotingStartedAt string `json:"voting_started_at,omitempty"`
	VotingEndsAt    string `json:"voting_ends_at,omitempty"`
	VotingPaused    bool   `json:"is_voting_paused"`
	VotingState     string `json:"voting_state"`
}

type LiveStageResponse struct {
	Live        bool                 `json:"live"`
	Performance *PerformanceResponse `json:"performance,omitempty"`
	Artist      *ArtistResponse      `json:"artist,omitempty"`
}

type ArtistResponse struct {
	ArtistID    string `json:"artist_id"`
	Name        string `json:"name"`
	Bio         string `json:"bio,omitempty"`
	Photo       string `json:"photo,omitempty"`
	Status      string `json:"status"`
	LineupOrder int    `json:"lineup_order"`
}

type VotingStatusResponse struct {
	PerformanceID string `json:"performance_id"`
	State         string `json:"state"`
	SecondsLeft   int    `json:"seconds_left"`
	Paused        bool   `json:"is_paused"`
}

type ScheduleSlotResponse struct {
	ScheduleID     string `json:"schedule_id"`
	EventID        string `json:"event_id"`
	ArtistID       string `json:"artist_id"`
	ScheduledStart string `json:"scheduled_start"`
	DurationMin    int    `json:"duration_minutes"`
}

type ScheduleResponse struct {
	Items []ScheduleSlotResponse `json:"items"`
}

type ResetPerformanceResponse struct {
	PerformanceID string `json:"performance_id"`
	Reset         bool   `json:"reset"`
}
