package domain

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Species   string
	Breed     *string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
