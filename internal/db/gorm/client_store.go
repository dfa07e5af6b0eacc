package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// ClientStore handles client persistence.
type ClientStore struct {
	store *Store
}

// NewClientStore creates a new client store.
func NewClientStore(store *Store) *ClientStore {
	return &ClientStore{store: store}
}

// ClientListParams describes filtering, sorting, and pagination for List.
type ClientListParams struct {
	Page     int
	Limit    int
	Status   models.ClientStatus
	Priority models.ClientPriority
	Search   string
	Sort     string // name, score, last_contact, created; optional "-" prefix for desc
}

// clientSortColumns maps API sort keys to ORDER BY expressions.
var clientSortColumns = map[string]string{
	"name":         "name",
	"score":        "engagement_score",
	"last_contact": "last_contact_at",
	"created":      "created_at",
}

// Create inserts a new client and returns the stored record.
func (cs *ClientStore) Create(ctx context.Context, in *models.ClientInput) (*models.Client, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_create")
	defer cancel()

	c := &Client{
		Name:     strings.TrimSpace(in.Name),
		Email:    models.NormalizeEmail(in.Email),
		Company:  strings.TrimSpace(in.Company),
		Phone:    strings.TrimSpace(in.Phone),
		Status:   models.ClientStatus(in.Status),
		Priority: models.ClientPriority(in.Priority),
		Tags:     models.NormalizeTags(in.Tags),
		Notes:    in.Notes,
	}

	if err := cs.store.DB.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create client: %w", err)
	}
	return toModelClient(c), nil
}

// GetByID retrieves a client by its ID. Soft-deleted clients are not found.
func (cs *ClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_get")
	defer cancel()

	var c Client
	err := cs.store.DB.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return toModelClient(&c), nil
}

// GetByEmail retrieves a client by normalized email.
func (cs *ClientStore) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_get_by_email")
	defer cancel()

	var c Client
	err := cs.store.DB.WithContext(ctx).First(&c, "email = ?", models.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client by email: %w", err)
	}
	return toModelClient(&c), nil
}

// List returns a page of clients plus the total match count.
func (cs *ClientStore) List(ctx context.Context, p ClientListParams) ([]*models.Client, int64, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_list")
	defer cancel()

	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	q := cs.store.DB.WithContext(ctx).Model(&Client{})
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	if p.Priority != "" {
		q = q.Where("priority = ?", p.Priority)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"lower(name) LIKE ? OR lower(email) LIKE ? OR lower(company) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	order := "created_at DESC"
	if p.Sort != "" {
		key, desc := strings.TrimPrefix(p.Sort, "-"), strings.HasPrefix(p.Sort, "-")
		if col, ok := clientSortColumns[key]; ok {
			order = col + " ASC"
			if desc {
				order = col + " DESC"
			}
		}
	}

	var rows []Client
	err := q.Order(order).
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	return toModelClients(rows), total, nil
}

// ListAll returns every live client. Used by the analytics aggregator.
func (cs *ClientStore) ListAll(ctx context.Context) ([]*models.Client, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, SlowQueryTimeout, "client_list_all")
	defer cancel()

	var rows []Client
	if err := cs.store.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	return toModelClients(rows), nil
}

// Update applies user-supplied fields to an existing client.
// Engagement score and last contact are owned by the recomputer and left alone.
func (cs *ClientStore) Update(ctx context.Context, id string, in *models.ClientInput) (*models.Client, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_update")
	defer cancel()

	// Omitted status and priority get the same defaults the create hook
	// applies, not empty strings the check constraints would reject.
	status := models.ClientStatus(in.Status)
	if status == "" {
		status = models.ClientStatusProspect
	}
	priority := models.ClientPriority(in.Priority)
	if priority == "" {
		priority = models.ClientPriorityMedium
	}

	updates := map[string]interface{}{
		"name":     strings.TrimSpace(in.Name),
		"email":    models.NormalizeEmail(in.Email),
		"company":  strings.TrimSpace(in.Company),
		"phone":    strings.TrimSpace(in.Phone),
		"status":   status,
		"priority": priority,
		"tags":     models.JSONStringArray(models.NormalizeTags(in.Tags)),
		"notes":    in.Notes,
	}

	res := cs.store.DB.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update client %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return cs.GetByID(ctx, id)
}

// SoftDelete marks a client deleted. Its interactions are kept for history
// but the client disappears from lists, search, and analytics.
func (cs *ClientStore) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_delete")
	defer cancel()

	res := cs.store.DB.WithContext(ctx).Delete(&Client{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete client %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEngagement persists a recomputed score. A nil lastContactAt leaves
// the stored last contact untouched.
func (cs *ClientStore) UpdateEngagement(ctx context.Context, id string, score int, lastContactAt *time.Time) error {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_update_engagement")
	defer cancel()

	updates := map[string]interface{}{
		"engagement_score":       score,
		"score_updated_at_epoch": sql.NullInt64{Int64: time.Now().UnixMilli(), Valid: true},
	}
	if lastContactAt != nil {
		updates["last_contact_at"] = *lastContactAt
	}

	res := cs.store.DB.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update engagement for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientsNeedingScoreUpdate returns IDs of clients whose score is older than
// the threshold (or never computed), for the periodic recompute sweep.
func (cs *ClientStore) ClientsNeedingScoreUpdate(ctx context.Context, threshold time.Duration, limit int) ([]string, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, SlowQueryTimeout, "clients_needing_score_update")
	defer cancel()

	cutoff := time.Now().Add(-threshold).UnixMilli()
	var ids []string
	err := cs.store.DB.WithContext(ctx).
		Model(&Client{}).
		Where("score_updated_at_epoch IS NULL OR score_updated_at_epoch < ?", cutoff).
		Order("score_updated_at_epoch ASC NULLS FIRST").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("clients needing score update: %w", err)
	}
	return ids, nil
}

// SearchClients returns client candidates whose text fields match the query,
// optionally narrowed by status. The search manager applies the exact
// predicate on top, so this only needs to over-match cheaply.
func (cs *ClientStore) SearchClients(ctx context.Context, query string, status models.ClientStatus, limit int) ([]*models.Client, error) {
	ctx, cancel := cs.store.WithTimeout(ctx, DefaultQueryTimeout, "client_search")
	defer cancel()

	like := "%" + query + "%"
	b := sq.Select("*").
		From("clients").
		Where(sq.Eq{"deleted_at": nil}).
		Where(sq.Or{
			sq.ILike{"name": like},
			sq.ILike{"email": like},
			sq.ILike{"company": like},
			sq.ILike{"notes": like},
		}).
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client search query: %w", err)
	}

	var rows []Client
	if err := cs.store.DB.WithContext(ctx).Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return toModelClients(rows), nil
}
