package gorm

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// GORM Models
//
// Both tables use UUID string primary keys so the API identifiers map
// directly onto storage without a surrogate-key translation layer.

// Client is the persisted form of a CRM client.
type Client struct {
	ID              string                 `gorm:"primaryKey;type:uuid"`
	Name            string                 `gorm:"not null"`
	Email           string                 `gorm:"uniqueIndex;not null"` // stored normalized lowercase
	Company         string                 `gorm:"not null"`
	Phone           string                 ``
	Status          models.ClientStatus    `gorm:"type:text;default:'prospect';check:status IN ('active', 'inactive', 'prospect', 'former');index"`
	Priority        models.ClientPriority  `gorm:"type:text;default:'medium';check:priority IN ('low', 'medium', 'high', 'critical');index"`
	Tags            models.JSONStringArray `gorm:"type:text"`
	Notes           string                 `gorm:"type:text"`
	EngagementScore int                    `gorm:"default:0;index:idx_clients_engagement,sort:desc"`
	ScoreUpdatedAt  sql.NullInt64          `gorm:"column:score_updated_at_epoch;index:idx_clients_score_updated"`
	LastContactAt   time.Time              `gorm:"not null"`
	CreatedAt       time.Time              `gorm:"autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt         `gorm:"index"`
}

func (Client) TableName() string { return "clients" }

// BeforeCreate hook to ensure defaults are set.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Email = models.NormalizeEmail(c.Email)
	if c.LastContactAt.IsZero() {
		// Last contact defaults to creation time until the first interaction.
		c.LastContactAt = time.Now()
	}
	if c.Status == "" {
		c.Status = models.ClientStatusProspect
	}
	if c.Priority == "" {
		c.Priority = models.ClientPriorityMedium
	}
	return nil
}

// Interaction is the persisted form of a logged client-facing event.
type Interaction struct {
	ID               string                     `gorm:"primaryKey;type:uuid"`
	ClientID         string                     `gorm:"type:uuid;index:idx_interactions_client;index:idx_interactions_client_date,priority:1;not null"`
	Type             models.InteractionType     `gorm:"type:text;check:type IN ('email', 'meeting', 'call', 'note');index;not null"`
	Subject          string                     `gorm:"not null"`
	Content          string                     `gorm:"type:text"`
	OccurredAt       time.Time                  `gorm:"index:idx_interactions_date,sort:desc;index:idx_interactions_client_date,priority:2,sort:desc;not null"`
	DurationMinutes  int                        `gorm:"default:0"`
	Priority         models.InteractionPriority `gorm:"type:text;default:'medium';check:priority IN ('low', 'medium', 'high')"`
	Outcome          models.Outcome             `gorm:"type:text;check:outcome IN ('positive', 'neutral', 'negative', 'follow_up_needed', '');index"`
	FollowUpRequired bool                       `gorm:"default:false;index:idx_interactions_follow_up"`
	FollowUpAt       sql.NullTime               ``
	FollowUpNotes    string                     `gorm:"type:text"`
	Tags             models.JSONStringArray     `gorm:"type:text"`
	CreatedAt        time.Time                  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                  `gorm:"autoUpdateTime"`
}

func (Interaction) TableName() string { return "interactions" }

// BeforeCreate hook to ensure defaults are set.
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.OccurredAt.IsZero() {
		i.OccurredAt = time.Now()
	}
	if i.Priority == "" {
		i.Priority = models.PriorityMedium
	}
	return nil
}

// toModelClient converts a DB client to the domain model.
func toModelClient(c *Client) *models.Client {
	return &models.Client{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Company:         c.Company,
		Phone:           c.Phone,
		Status:          c.Status,
		Priority:        c.Priority,
		Tags:            c.Tags,
		Notes:           c.Notes,
		EngagementScore: c.EngagementScore,
		LastContactAt:   c.LastContactAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// toModelClients converts a slice of DB clients to domain models.
func toModelClients(cs []Client) []*models.Client {
	out := make([]*models.Client, len(cs))
	for i := range cs {
		out[i] = toModelClient(&cs[i])
	}
	return out
}

// toModelInteraction converts a DB interaction to the domain model.
func toModelInteraction(in *Interaction) *models.Interaction {
	m := &models.Interaction{
		ID:               in.ID,
		ClientID:         in.ClientID,
		Type:             in.Type,
		Subject:          in.Subject,
		Content:          in.Content,
		OccurredAt:       in.OccurredAt,
		DurationMinutes:  in.DurationMinutes,
		Priority:         in.Priority,
		Outcome:          in.Outcome,
		FollowUpRequired: in.FollowUpRequired,
		FollowUpNotes:    in.FollowUpNotes,
		Tags:             in.Tags,
		CreatedAt:        in.CreatedAt,
		UpdatedAt:        in.UpdatedAt,
	}
	if in.FollowUpAt.Valid {
		m.FollowUpAt = in.FollowUpAt.Time
	}
	return m
}

// toModelInteractions converts a slice of DB interactions to domain models.
func toModelInteractions(ins []Interaction) []*models.Interaction {
	out := make([]*models.Interaction, len(ins))
	for i := range ins {
		out[i] = toModelInteraction(&ins[i])
	}
	return out
}

// fromModelInteraction converts a domain interaction to its DB form.
func fromModelInteraction(m *models.Interaction) *Interaction {
	in := &Interaction{
		ID:               m.ID,
		ClientID:         m.ClientID,
		Type:             m.Type,
		Subject:          m.Subject,
		Content:          m.Content,
		OccurredAt:       m.OccurredAt,
		DurationMinutes:  m.DurationMinutes,
		Priority:         m.Priority,
		Outcome:          m.Outcome,
		FollowUpRequired: m.FollowUpRequired,
		FollowUpNotes:    m.FollowUpNotes,
		Tags:             m.Tags,
	}
	if !m.FollowUpAt.IsZero() {
		in.FollowUpAt = sql.NullTime{Time: m.FollowUpAt, Valid: true}
	}
	return in
}
