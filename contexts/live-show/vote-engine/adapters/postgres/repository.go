package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ovation/contexts/live-show/vote-engine/domain/entities"
	domainerrors "ovation/contexts/live-show/vote-engine/domain/errors"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// InsertVotes writes the whole ballot in one transaction. The unique index on
// (user_id, performance_id, question_id) is the last line of defense against
// concurrent duplicate ballots; its violation comes back as ErrAlreadyVoted.
func (r *Repository) InsertVotes(ctx context.Context, votes []entities.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	rows := make([]voteModel, 0, len(votes))
	for _, vote := range votes {
		rows = append(rows, voteModelFromEntity(vote))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("vote_repo_insert_votes_failed", err,
			"performance_id", votes[0].PerformanceID,
			"vote_count", len(votes),
		)
	}
	return nil
}

func (r *Repository) HasUserVoted(ctx context.Context, userID string, performanceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("performance_id = ?", strings.TrimSpace(performanceID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("vote_repo_has_user_voted_failed", err,
			"user_id", strings.TrimSpace(userID),
			"performance_id", strings.TrimSpace(performanceID),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListPerformanceVotes(ctx context.Context, performanceID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("performance_id = ?", strings.TrimSpace(performanceID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_performance_votes_failed", err,
			"performance_id", strings.TrimSpace(performanceID),
		)
	}
	return mapVotes(rows), nil
}

func (r *Repository) ListVotesByPerformances(ctx context.Context, performanceIDs []string) ([]entities.Vote, error) {
	if len(performanceIDs) == 0 {
		return nil, nil
	}
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("performance_id IN ?", performanceIDs).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_votes_by_performances_failed", err,
			"performance_count", len(performanceIDs),
		)
	}
	return mapVotes(rows), nil
}

func (r *Repository) ListUserPerformanceVotes(
	ctx context.Context,
	userID string,
	performanceID string,
) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("performance_id = ?", strings.TrimSpace(performanceID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_user_votes_failed", err,
			"user_id", strings.TrimSpace(userID),
			"performance_id", strings.TrimSpace(performanceID),
		)
	}
	return mapVotes(rows), nil
}

func (r *Repository) PurgeVotesByPerformance(ctx context.Context, performanceID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("performance_id = ?", strings.TrimSpace(performanceID)).
		Delete(&voteModel{})
	if result.Error != nil {
		return 0, r.logError("vote_repo_purge_by_performance_failed", result.Error,
			"performance_id", strings.TrimSpace(performanceID),
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) PurgeVotesByQuestion(ctx context.Context, questionID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Delete(&voteModel{})
	if result.Error != nil {
		return 0, r.logError("vote_repo_purge_by_question_failed", result.Error,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("vote_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("vote_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("vote_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return outbox.ErrMessageNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "live-show/vote-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	UserID        string    `gorm:"column:user_id"`
	PerformanceID string    `gorm:"column:performance_id"`
	QuestionID    string    `gorm:"column:question_id"`
	Rating        *int      `gorm:"column:rating"`
	Comment       string    `gorm:"column:comment"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:            strings.TrimSpace(vote.VoteID),
		UserID:        strings.TrimSpace(vote.UserID),
		PerformanceID: strings.TrimSpace(vote.PerformanceID),
		QuestionID:    strings.TrimSpace(vote.QuestionID),
		Rating:        vote.Rating,
		Comment:       vote.Comment,
		CreatedAt:     vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:        m.ID,
		UserID:        m.UserID,
		PerformanceID: m.PerformanceID,
		QuestionID:    m.QuestionID,
		Rating:        m.Rating,
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func mapVotes(rows []voteModel) []entities.Vote {
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "vote_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
