package entities

import "time"

type ArtistStatus string

const (
	ArtistStatusUpcoming ArtistStatus = "upcoming"
	ArtistStatusLive     ArtistStatus = "live"
	ArtistStatusClosed   ArtistStatus = "closed"
)

// Artist is a contestant in the lineup. Exactly one artist may hold
// status=live at a time; StartPerformance demotes the rest.
type Artist struct {
	ArtistID    string
	Name        string
	Bio         string
	Photo       string
	Status      ArtistStatus
	LineupOrder int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
