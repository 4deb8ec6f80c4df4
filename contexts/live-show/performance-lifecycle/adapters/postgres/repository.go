package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	domainerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"

	"github.com/google/uuid"
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

func (r *Repository) GetActiveEvent(ctx context.Context) (entities.Event, error) {
	var row eventModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Event{}, domainerrors.ErrNoActiveEvent
		}
		return entities.Event{}, r.logError("lifecycle_repo_get_active_event_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetEvent(ctx context.Context, eventID string) (entities.Event, error) {
	var row eventModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(eventID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Event{}, domainerrors.ErrEventNotFound
		}
		return entities.Event{}, r.logError("lifecycle_repo_get_event_failed", err, "event_id", strings.TrimSpace(eventID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetArtist(ctx context.Context, artistID string) (entities.Artist, error) {
	var row artistModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(artistID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Artist{}, domainerrors.ErrArtistNotFound
		}
		return entities.Artist{}, r.logError("lifecycle_repo_get_artist_failed", err, "artist_id", strings.TrimSpace(artistID))
	}
	return row.toEntity(), nil
}

func (r *Repository) SetArtistStatus(
	ctx context.Context,
	artistID string,
	status entities.ArtistStatus,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&artistModel{}).
		Where("id = ?", strings.TrimSpace(artistID)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("lifecycle_repo_set_artist_status_failed", result.Error,
			"artist_id", strings.TrimSpace(artistID),
			"status", string(status),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrArtistNotFound
	}
	return nil
}

func (r *Repository) DemoteLiveArtists(
	ctx context.Context,
	to entities.ArtistStatus,
	updatedAt time.Time,
) ([]string, error) {
	var rows []artistModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.ArtistStatusLive)).
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_demote_live_artists_list_failed", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&artistModel{}).
		Where("status = ?", string(entities.ArtistStatusLive)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": updatedAt.UTC(),
		}).Error; err != nil {
		return nil, r.logError("lifecycle_repo_demote_live_artists_update_failed", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *Repository) ListLineup(ctx context.Context) ([]entities.Artist, error) {
	var rows []artistModel
	if err := r.db.WithContext(ctx).
		Order("lineup_order ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_list_lineup_failed", err)
	}
	items := make([]entities.Artist, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreatePerformance(ctx context.Context, performance entities.Performance) error {
	row := performanceModelFromEntity(performance)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("lifecycle_repo_create_performance_failed", err,
			"performance_id", strings.TrimSpace(performance.PerformanceID),
		)
	}
	return nil
}

func (r *Repository) GetPerformance(ctx context.Context, performanceID string) (entities.Performance, error) {
	var row performanceModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(performanceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Performance{}, domainerrors.ErrPerformanceNotFound
		}
		return entities.Performance{}, r.logError("lifecycle_repo_get_performance_failed", err,
			"performance_id", strings.TrimSpace(performanceID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetLivePerformance(ctx context.Context, eventID string) (entities.Performance, bool, error) {
	var row performanceModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Where("status = ?", string(entities.PerformanceStatusLive)).
		Order("start_time DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Performance{}, false, nil
		}
		return entities.Performance{}, false, r.logError("lifecycle_repo_get_live_performance_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CloseLivePerformances(
	ctx context.Context,
	eventID string,
	endedAt time.Time,
) ([]entities.Performance, error) {
	var rows []performanceModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Where("status = ?", string(entities.PerformanceStatusLive)).
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_close_live_list_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&performanceModel{}).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Where("status = ?", string(entities.PerformanceStatusLive)).
		Updates(map[string]any{
			"status":     string(entities.PerformanceStatusClosed),
			"end_time":   endedAt.UTC(),
			"updated_at": endedAt.UTC(),
		}).Error; err != nil {
		return nil, r.logError("lifecycle_repo_close_live_update_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}

	items := make([]entities.Performance, 0, len(rows))
	for _, row := range rows {
		ended := endedAt.UTC()
		row.Status = string(entities.PerformanceStatusClosed)
		row.EndTime = &ended
		row.UpdatedAt = ended
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdatePerformance(ctx context.Context, performance entities.Performance) error {
	row := performanceModelFromEntity(performance)
	result := r.db.WithContext(ctx).
		Model(&performanceModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"status":            row.Status,
			"end_time":          row.EndTime,
			"voting_started_at": row.VotingStartedAt,
			"voting_ends_at":    row.VotingEndsAt,
			"is_voting_paused":  row.VotingPaused,
			"updated_at":        row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("lifecycle_repo_update_performance_failed", result.Error,
			"performance_id", row.ID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPerformanceNotFound
	}
	return nil
}

func (r *Repository) DeletePerformance(ctx context.Context, performanceID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(performanceID)).
		Delete(&performanceModel{})
	if result.Error != nil {
		return r.logError("lifecycle_repo_delete_performance_failed", result.Error,
			"performance_id", strings.TrimSpace(performanceID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPerformanceNotFound
	}
	return nil
}

func (r *Repository) ListEventPerformances(ctx context.Context, eventID string) ([]entities.Performance, error) {
	var rows []performanceModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_list_event_performances_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	items := make([]entities.Performance, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ReplaceSchedule(ctx context.Context, eventID string, slots []entities.ScheduleSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("event_id = ?", strings.TrimSpace(eventID)).
			Delete(&scheduleModel{}).Error; err != nil {
			return r.logError("lifecycle_repo_replace_schedule_delete_failed", err,
				"event_id", strings.TrimSpace(eventID),
			)
		}
		for _, slot := range slots {
			row := scheduleModel{
				ID:             strings.TrimSpace(slot.ScheduleID),
				EventID:        strings.TrimSpace(slot.EventID),
				ArtistID:       strings.TrimSpace(slot.ArtistID),
				ScheduledStart: slot.ScheduledStart.UTC(),
				DurationMin:    slot.DurationMin,
			}
			if err := tx.Create(&row).Error; err != nil {
				return r.logError("lifecycle_repo_replace_schedule_insert_failed", err,
					"event_id", strings.TrimSpace(eventID),
					"schedule_id", row.ID,
				)
			}
		}
		return nil
	})
}

func (r *Repository) ListSchedule(ctx context.Context, eventID string) ([]entities.ScheduleSlot, error) {
	var rows []scheduleModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("scheduled_start ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_list_schedule_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	items := make([]entities.ScheduleSlot, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.ScheduleSlot{
			ScheduleID:     row.ID,
			EventID:        row.EventID,
			ArtistID:       row.ArtistID,
			ScheduledStart: row.ScheduledStart.UTC(),
			DurationMin:    row.DurationMin,
		})
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("lifecycle_repo_append_outbox_marshal_failed", err,
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
		return r.logError("lifecycle_repo_append_outbox_insert_failed", create.Error,
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
		return nil, r.logError("lifecycle_repo_list_pending_outbox_failed", err, "limit", limit)
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
		return r.logError("lifecycle_repo_mark_outbox_published_failed", result.Error,
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
		"module", "live-show/performance-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("lifecycle repository operation failed", fields...)
	return err
}

type eventModel struct {
	ID                 string    `gorm:"column:id;primaryKey"`
	CompanyID          string    `gorm:"column:company_id"`
	Name               string    `gorm:"column:name"`
	Active             bool      `gorm:"column:is_active"`
	PerformanceMinutes int       `gorm:"column:performance_minutes"`
	BreakMinutes       int       `gorm:"column:break_minutes"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (eventModel) TableName() string {
	return "events"
}

func (m eventModel) toEntity() entities.Event {
	return entities.Event{
		EventID:            m.ID,
		CompanyID:          m.CompanyID,
		Name:               m.Name,
		Active:             m.Active,
		PerformanceMinutes: m.PerformanceMinutes,
		BreakMinutes:       m.BreakMinutes,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

type artistModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Bio         string    `gorm:"column:bio"`
	Photo       string    `gorm:"column:photo"`
	Status      string    `gorm:"column:status"`
	LineupOrder int       `gorm:"column:lineup_order"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (artistModel) TableName() string {
	return "artists"
}

func (m artistModel) toEntity() entities.Artist {
	return entities.Artist{
		ArtistID:    m.ID,
		Name:        m.Name,
		Bio:         m.Bio,
		Photo:       m.Photo,
		Status:      entities.ArtistStatus(m.Status),
		LineupOrder: m.LineupOrder,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type performanceModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	ArtistID        string     `gorm:"column:artist_id"`
	EventID         string     `gorm:"column:event_id"`
	Status          string     `gorm:"column:status"`
	StartTime       time.Time  `gorm:"column:start_time"`
	EndTime         *time.Time `gorm:"column:end_time"`
	VotingStartedAt *time.Time `gorm:"column:voting_started_at"`
	VotingEndsAt    *time.Time `gorm:"column:voting_ends_at"`
	VotingPaused    bool       `gorm:"column:is_voting_paused"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (performanceModel) TableName() string {
	return "performances"
}

func performanceModelFromEntity(performance entities.Performance) performanceModel {
	row := performanceModel{
		ID:              strings.TrimSpace(performance.PerformanceID),
		ArtistID:        strings.TrimSpace(performance.ArtistID),
		EventID:         strings.TrimSpace(performance.EventID),
		Status:          string(performance.Status),
		StartTime:       performance.StartTime.UTC(),
		EndTime:         normalizeOptionalTime(performance.EndTime),
		VotingStartedAt: normalizeOptionalTime(performance.VotingStartedAt),
		VotingEndsAt:    normalizeOptionalTime(performance.VotingEndsAt),
		VotingPaused:    performance.VotingPaused,
		CreatedAt:       performance.CreatedAt.UTC(),
		UpdatedAt:       performance.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m performanceModel) toEntity() entities.Performance {
	return entities.Performance{
		PerformanceID:   m.ID,
		ArtistID:        m.ArtistID,
		EventID:         m.EventID,
		Status:          entities.PerformanceStatus(m.Status),
		StartTime:       m.StartTime.UTC(),
		EndTime:         normalizeOptionalTime(m.EndTime),
		VotingStartedAt: normalizeOptionalTime(m.VotingStartedAt),
		VotingEndsAt:    normalizeOptionalTime(m.VotingEndsAt),
		VotingPaused:    m.VotingPaused,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type scheduleModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	EventID        string    `gorm:"column:event_id"`
	ArtistID       string    `gorm:"column:artist_id"`
	ScheduledStart time.Time `gorm:"column:scheduled_start"`
	DurationMin    int       `gorm:"column:duration_minutes"`
}

func (scheduleModel) TableName() string {
	return "performance_schedules"
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
	return "performance_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
