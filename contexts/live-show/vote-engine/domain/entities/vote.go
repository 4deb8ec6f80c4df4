package entities

import (
	"time"

	registryentities "ovation/contexts/live-show/question-registry/domain/entities"
)

// Role is the voter's position in the show. Admins vote with judge weight.
type Role string

const (
	RoleFan   Role = "fan"
	RoleJudge Role = "judge"
	RoleAdmin Role = "admin"
)

// TargetBucket resolves the role into the audience bucket questions target.
func (r Role) TargetBucket() registryentities.AudienceBucket {
	switch r {
	case RoleJudge, RoleAdmin:
		return registryentities.AudienceBucketJudge
	default:
		return registryentities.AudienceBucketFan
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Vote is one answer to one question of one performance. Rating rows carry a
// non-nil Rating; text rows carry the answer in Comment instead. A voter gets
// at most one row per question, enforced by the ledger's unique index on
// (user_id, performance_id, question_id).
type Vote struct {
	VoteID        string
	UserID        string
	PerformanceID string
	QuestionID    string
	Rating        *int
	Comment       string
	CreatedAt     time.Time
}

// IsRating reports whether the row contributes to scoring.
func (v Vote) IsRating() bool {
	return v.Rating != nil
}
