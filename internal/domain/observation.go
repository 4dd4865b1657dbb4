package domain

import (
	"time"

	"github.com/google/uuid"
)

type ObservationCategory string

const (
	CategoryWeight     ObservationCategory = "weight"
	CategoryMeal       ObservationCategory = "meal"
	CategoryMedication ObservationCategory = "medication"
	CategorySymptom    ObservationCategory = "symptom"
	CategoryActivity   ObservationCategory = "activity"
)

func (c ObservationCategory) IsValid() bool {
	switch c {
	case CategoryWeight, CategoryMeal, CategoryMedication, CategorySymptom, CategoryActivity:
		return true
	}
	return false
}

// Observation is a single dated health note attached to a pet.
type Observation struct {
	ID         uuid.UUID
	PetID      uuid.UUID
	OwnerID    uuid.UUID
	Category   ObservationCategory
	Note       string
	ObservedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
