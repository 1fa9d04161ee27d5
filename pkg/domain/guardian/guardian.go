package guardian

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Guardian links a child account to an adult who receives safety alerts.
type Guardian struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SubjectID   string    `json:"subject_id" gorm:"index"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (g Guardian) TableName() string {
	return "public.guardians"
}

type Repository interface {
	ActiveBySubject(ctx context.Context, subjectID string) ([]Guardian, error)
}
