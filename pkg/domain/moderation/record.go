package moderation

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ModerationRecord is the durable, immutable audit entry for one moderation
// decision. A record is created for every request, including pipeline
// failures; only the two notification fields may be updated, once, by the
// notification dispatcher.
type ModerationRecord struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ContentType     string         `json:"content_type" gorm:"index"`
	ContentID       string         `json:"content_id" gorm:"index"`
	UserID          string         `json:"user_id" gorm:"index"`
	SubjectID       *string        `json:"subject_id" gorm:"index"`
	OriginalText    string         `json:"original_text"`
	TransformedText *string        `json:"transformed_text"`
	Status          Status         `json:"status" gorm:"index"`
	Severity        Severity       `json:"severity"`
	Action          Action         `json:"action"`
	FlaggedWords    pq.StringArray `json:"flagged_words" gorm:"type:text[]"`
	FlaggedCats     pq.StringArray `json:"flagged_categories" gorm:"type:text[]"`
	PIIDetected     bool           `json:"pii_detected"`
	PIICategories   pq.StringArray `json:"pii_categories" gorm:"type:text[]"`
	Confidence      *float64       `json:"confidence"`
	GuardianNotify  bool           `json:"guardian_notify"`
	NotifiedAt      *time.Time     `json:"notified_at"`
	Note            string         `json:"note"`
	RequestIP       string         `json:"request_ip"`
	RequestClient   string         `json:"request_client"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (r ModerationRecord) TableName() string {
	return "public.moderation_records"
}
