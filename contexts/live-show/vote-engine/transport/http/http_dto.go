package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitVoteRequest struct {
	PerformanceID string            `json:"performance_id"`
	Ratings       map[string]string `json:"ratings"`
	Comment       string            `json:"comment,omitempty"`
}

type SubmitVoteResponse struct {
	PerformanceID string `json:"performance_id"`
	Accepted      int    `json:"accepted"`
	Skipped       int    `json:"skipped"`
}

type RankingItem struct {
	PerformanceID     string  `json:"performance_id"`
	RawRatingSum      float64 `json:"rating"`
	NormalizedVoters  float64 `json:"voters"`
	BiasAdjustedScore float64 `json:"bias_rating"`
	ShareOfTotal      float64 `json:"ratio"`
	Rank              int     `json:"rank"`
}

type RankingsResponse struct {
	EventID string        `json:"event_id"`
	Items   []RankingItem `json:"items"`
}

type PerformanceScoreResponse struct {
	PerformanceID     string  `json:"performance_id"`
	BiasAdjustedScore float64 `json:"bias_adjusted_score"`
}

type UserScoreResponse struct {
	PerformanceID     string `json:"performance_id"`
	UserID            string `json:"user_id"`
	RatedPoints       int    `json:"rated_points"`
	MaxPossiblePoints int    `json:"max_possible_points"`
}
