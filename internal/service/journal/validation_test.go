package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pawtrail/backend/internal/domain"
)

func TestCreatePetRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePetRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  CreatePetRequest{Name: "Maple", Species: "dog"},
		},
		{
			name:    "missing name",
			req:     CreatePetRequest{Species: "dog"},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "missing species",
			req:     CreatePetRequest{Name: "Maple"},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "whitespace name",
			req:     CreatePetRequest{Name: "   ", Species: "dog"},
			wantErr: domain.ErrInvalidRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateObservationRequestValidate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		req     CreateObservationRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  CreateObservationRequest{Category: domain.CategoryWeight, Note: "18 kg", ObservedAt: now},
		},
		{
			name:    "unknown category",
			req:     CreateObservationRequest{Category: "mood", Note: "happy", ObservedAt: now},
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name:    "empty note",
			req:     CreateObservationRequest{Category: domain.CategoryMeal, ObservedAt: now},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "zero observed_at",
			req:     CreateObservationRequest{Category: domain.CategoryMeal, Note: "kibble"},
			wantErr: domain.ErrInvalidRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
