package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project groups tasks under a single owning user. Only the owner may
// update or delete it.
type Project struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required for persistence.
func (p *Project) Validate() error {
	if p.Name == "" {
		return ErrProjectNameRequired
	}
	return nil
}
