package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// InteractionStore handles interaction persistence.
type InteractionStore struct {
	store *Store
}

// NewInteractionStore creates a new interaction store.
func NewInteractionStore(store *Store) *InteractionStore {
	return &InteractionStore{store: store}
}

// InteractionListParams describes filtering and pagination for List.
type InteractionListParams struct {
	Page     int
	Limit    int
	ClientID string
	Type     models.InteractionType
	Outcome  *models.Outcome // nil means no filter; empty outcome is a real value
	Priority models.InteractionPriority
}

// Create inserts a new interaction after verifying the owning client is live.
func (is *InteractionStore) Create(ctx context.Context, in *models.Interaction) (*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_create")
	defer cancel()

	row := fromModelInteraction(in)
	err := is.store.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&Client{}).Where("id = ?", in.ClientID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return tx.Create(row).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create interaction: %w", err)
	}
	return toModelInteraction(row), nil
}

// GetByID retrieves an interaction by its ID.
func (is *InteractionStore) GetByID(ctx context.Context, id string) (*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_get")
	defer cancel()

	var row Interaction
	err := is.store.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interaction %s: %w", id, err)
	}
	return toModelInteraction(&row), nil
}

// List returns a page of interactions plus the total match count,
// newest first.
func (is *InteractionStore) List(ctx context.Context, p InteractionListParams) ([]*models.Interaction, int64, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_list")
	defer cancel()

	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	q := is.store.DB.WithContext(ctx).Model(&Interaction{})
	if p.ClientID != "" {
		q = q.Where("client_id = ?", p.ClientID)
	}
	if p.Type != "" {
		q = q.Where("type = ?", p.Type)
	}
	if p.Outcome != nil {
		q = q.Where("outcome = ?", *p.Outcome)
	}
	if p.Priority != "" {
		q = q.Where("priority = ?", p.Priority)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count interactions: %w", err)
	}

	var rows []Interaction
	err := q.Order("occurred_at DESC").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list interactions: %w", err)
	}
	return toModelInteractions(rows), total, nil
}

// ListByClient returns every interaction for one client, newest first.
// This feeds the score calculator, which needs the full history.
func (is *InteractionStore) ListByClient(ctx context.Context, clientID string) ([]*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_list_by_client")
	defer cancel()

	var rows []Interaction
	err := is.store.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("occurred_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list interactions for client %s: %w", clientID, err)
	}
	return toModelInteractions(rows), nil
}

// ListAll returns every interaction. Used by the analytics aggregator.
func (is *InteractionStore) ListAll(ctx context.Context) ([]*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, SlowQueryTimeout, "interaction_list_all")
	defer cancel()

	var rows []Interaction
	if err := is.store.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list all interactions: %w", err)
	}
	return toModelInteractions(rows), nil
}

// Update replaces the user-supplied fields of an interaction.
func (is *InteractionStore) Update(ctx context.Context, id string, in *models.Interaction) (*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_update")
	defer cancel()

	var followUpAt sql.NullTime
	if !in.FollowUpAt.IsZero() {
		followUpAt = sql.NullTime{Time: in.FollowUpAt, Valid: true}
	}

	updates := map[string]interface{}{
		"type":               in.Type,
		"subject":            in.Subject,
		"content":            in.Content,
		"occurred_at":        in.OccurredAt,
		"duration_minutes":   in.DurationMinutes,
		"priority":           in.Priority,
		"outcome":            in.Outcome,
		"follow_up_required": in.FollowUpRequired,
		"follow_up_at":       followUpAt,
		"follow_up_notes":    in.FollowUpNotes,
		"tags":               in.Tags,
	}

	res := is.store.DB.WithContext(ctx).Model(&Interaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update interaction %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return is.GetByID(ctx, id)
}

// Delete removes an interaction permanently.
// Unlike clients, interactions are hard-deleted: they are event records with
// no children, and the owning client's score is recomputed afterward.
func (is *InteractionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_delete")
	defer cancel()

	res := is.store.DB.WithContext(ctx).Delete(&Interaction{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete interaction %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFollowUps returns interactions with a pending follow-up, soonest due
// first. A follow-up is pending while it is required, has a due date, and the
// interaction has not reached a terminal outcome. dueBefore bounds the due
// date when non-zero.
func (is *InteractionStore) ListFollowUps(ctx context.Context, dueBefore time.Time) ([]*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_list_follow_ups")
	defer cancel()

	q := is.store.DB.WithContext(ctx).
		Where("follow_up_required = ?", true).
		Where("follow_up_at IS NOT NULL").
		Where("outcome NOT IN ?", []models.Outcome{models.OutcomePositive, models.OutcomeNegative})
	if !dueBefore.IsZero() {
		q = q.Where("follow_up_at <= ?", dueBefore)
	}

	var rows []Interaction
	if err := q.Order("follow_up_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	return toModelInteractions(rows), nil
}

// CompleteFollowUp resolves a pending follow-up by clearing the required flag
// and recording the outcome.
func (is *InteractionStore) CompleteFollowUp(ctx context.Context, id string, outcome models.Outcome, notes string) (*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_complete_follow_up")
	defer cancel()

	updates := map[string]interface{}{
		"follow_up_required": false,
		"outcome":            outcome,
	}
	if notes != "" {
		updates["follow_up_notes"] = notes
	}

	res := is.store.DB.WithContext(ctx).Model(&Interaction{}).
		Where("id = ?", id).
		Where("follow_up_required = ?", true).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("complete follow-up %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return is.GetByID(ctx, id)
}

// SearchInteractions returns interaction candidates whose text fields match
// the query, optionally narrowed by type and date range. The search manager
// applies the exact predicate on top.
func (is *InteractionStore) SearchInteractions(ctx context.Context, query string, typ models.InteractionType, from, to time.Time, limit int) ([]*models.Interaction, error) {
	ctx, cancel := is.store.WithTimeout(ctx, DefaultQueryTimeout, "interaction_search")
	defer cancel()

	like := "%" + query + "%"
	b := sq.Select("*").
		From("interactions").
		Where(sq.Or{
			sq.ILike{"subject": like},
			sq.ILike{"content": like},
			sq.ILike{"follow_up_notes": like},
		}).
		OrderBy("occurred_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)
	if typ != "" {
		b = b.Where(sq.Eq{"type": typ})
	}
	if !from.IsZero() {
		b = b.Where(sq.GtOrEq{"occurred_at": from})
	}
	if !to.IsZero() {
		b = b.Where(sq.LtOrEq{"occurred_at": to})
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build interaction search query: %w", err)
	}

	var rows []Interaction
	if err := is.store.DB.WithContext(ctx).Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("search interactions: %w", err)
	}
	return toModelInteractions(rows), nil
}
