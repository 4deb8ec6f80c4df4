package entities

import "time"

// Event is a company-scoped competition. At most one event is active
// system-wide; admin CRUD lives outside this core, which only reads it.
type Event struct {
	EventID            string
	CompanyID          string
	Name               string
	Active             bool
	PerformanceMinutes int
	BreakMinutes       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ScheduleSlot is one planned lineup entry, derived from the event's
// per-performance and break durations and the artists' lineup order.
type ScheduleSlot struct {
	ScheduleID     string
	EventID        string
	ArtistID       string
	ScheduledStart time.Time
	DurationMin    int
}
