package entities

import "time"

// QuestionType distinguishes scored questions from free-text prompts.
type QuestionType string

const (
	QuestionTypeRating QuestionType = "rating"
	QuestionTypeText   QuestionType = "text"
)

// QuestionTarget names the audience a question is asked of.
type QuestionTarget string

const (
	QuestionTargetFan   QuestionTarget = "fan"
	QuestionTargetJudge QuestionTarget = "judge"
	QuestionTargetBoth  QuestionTarget = "both"
)

// AudienceBucket is the resolved audience of a voter. Admins collapse into
// the judge bucket for targeting purposes.
type AudienceBucket string

const (
	AudienceBucketFan   AudienceBucket = "fan"
	AudienceBucketJudge AudienceBucket = "judge"
)

type Question struct {
	QuestionID   string
	EventID      string
	Text         string
	Type         QuestionType
	Target       QuestionTarget
	LowLabel     string
	HighLabel    string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VisibleTo reports whether the question is asked of the given bucket.
func (q Question) VisibleTo(bucket AudienceBucket) bool {
	switch q.Target {
	case QuestionTargetBoth:
		return true
	case QuestionTargetFan:
		return bucket == AudienceBucketFan
	case QuestionTargetJudge:
		return bucket == AudienceBucketJudge
	default:
		return false
	}
}

// IsRating reports whether answers to the question are integer scores.
func (q Question) IsRating() bool {
	return q.Type == QuestionTypeRating
}
