package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/metering"
)

type CreateObservationRequest struct {
	OwnerID    uuid.UUID
	PetID      uuid.UUID
	Category   domain.ObservationCategory
	Note       string
	ObservedAt time.Time
}

func (r CreateObservationRequest) validate() error {
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, r.Category)
	}
	if strings.TrimSpace(r.Note) == "" {
		return fmt.Errorf("note is required: %w", domain.ErrInvalidRequest)
	}
	if r.ObservedAt.IsZero() {
		return fmt.Errorf("observed_at is required: %w", domain.ErrInvalidRequest)
	}
	return nil
}

type UpdateObservationRequest struct {
	OwnerID       uuid.UUID
	ObservationID uuid.UUID
	Category      domain.ObservationCategory
	Note          string
	ObservedAt    time.Time
}

func (r UpdateObservationRequest) validate() error {
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, r.Category)
	}
	if strings.TrimSpace(r.Note) == "" {
		return fmt.Errorf("note is required: %w", domain.ErrInvalidRequest)
	}
	if r.ObservedAt.IsZero() {
		return fmt.Errorf("observed_at is required: %w", domain.ErrInvalidRequest)
	}
	return nil
}

type observationSnapshot struct {
	Category   domain.ObservationCategory `json:"category"`
	Note       string                     `json:"note"`
	ObservedAt time.Time                  `json:"observed_at"`
}

func snapshotObservation(o *domain.Observation) observationSnapshot {
	return observationSnapshot{
		Category:   o.Category,
		Note:       o.Note,
		ObservedAt: o.ObservedAt,
	}
}

func (s *Service) CreateObservation(ctx context.Context, req CreateObservationRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("CreateObservation: %w", err)
	}

	// The observation hangs off a pet the caller must own.
	if _, err := s.pets.GetByIDAndOwner(ctx, req.PetID, req.OwnerID); err != nil {
		return nil, fmt.Errorf("CreateObservation: %w", err)
	}

	acct, err := s.accounts.GetByUserID(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("CreateObservation: %w", err)
	}

	cost := s.costs.Cost(domain.KindObservationCreated)
	if err := metering.Evaluate(acct, cost); err != nil {
		return nil, fmt.Errorf("CreateObservation: %w", err)
	}

	res, err := s.exec.Execute(ctx, acct.ID, metering.UnitOfWork{
		Kind:        domain.KindObservationCreated,
		Amount:      -cost,
		Description: fmt.Sprintf("%s observation logged", req.Category),
		AccrueUsage: true,
		Mutate: func(ctx context.Context, tx *sql.Tx) (*metering.MutationResult, error) {
			// The pet may have been deleted since the pre-check; the row
			// lock makes this authoritative.
			if _, err := s.pets.GetForUpdate(ctx, tx, req.PetID); err != nil {
				return nil, err
			}

			now := time.Now().UTC()
			o := &domain.Observation{
				ID:         uuid.New(),
				PetID:      req.PetID,
				OwnerID:    req.OwnerID,
				Category:   req.Category,
				Note:       req.Note,
				ObservedAt: req.ObservedAt,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.observations.CreateTx(ctx, tx, o); err != nil {
				return nil, err
			}
			return &metering.MutationResult{ResourceID: o.ID, Resource: o}, nil
		},
		Metadata: func(res *metering.MutationResult, _, _ int64) (json.RawMessage, error) {
			o := res.Resource.(*domain.Observation)
			return json.Marshal(struct {
				ObservationID uuid.UUID           `json:"observation_id"`
				PetID         uuid.UUID           `json:"pet_id"`
				After         observationSnapshot `json:"after"`
			}{o.ID, o.PetID, snapshotObservation(o)})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("CreateObservation: %w", err)
	}

	return &Result{
		Observation: res.Resource.(*domain.Observation),
		Balance:     res.Balance,
		UsageTotal:  res.UsageTotal,
	}, nil
}

func (s *Service) UpdateObservation(ctx context.Context, req UpdateObservationRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("UpdateObservation: %w", err)
	}

	if _, err := s.observations.GetByIDAndOwner(ctx, req.ObservationID, req.OwnerID); err != nil {
		return nil, fmt.Errorf("UpdateObservation: %w", err)
	}

	acct, err := s.accounts.GetByUserID(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("UpdateObservation: %w", err)
	}

	cost := s.costs.Cost(domain.KindObservationUpdated)
	if err := metering.Evaluate(acct, cost); err != nil {
		return nil, fmt.Errorf("UpdateObservation: %w", err)
	}

	var before observationSnapshot
	res, err := s.exec.Execute(ctx, acct.ID, metering.UnitOfWork{
		Kind:        domain.KindObservationUpdated,
		Amount:      -cost,
		Description: fmt.Sprintf("%s observation amended", req.Category),
		AccrueUsage: true,
		Mutate: func(ctx context.Context, tx *sql.Tx) (*metering.MutationResult, error) {
			o, err := s.observations.GetForUpdate(ctx, tx, req.ObservationID)
			if err != nil {
				return nil, err
			}
			if o.OwnerID != req.OwnerID {
				return nil, domain.ErrForbidden
			}
			before = snapshotObservation(o)

			o.Category = req.Category
			o.Note = req.Note
			o.ObservedAt = req.ObservedAt
			o.UpdatedAt = time.Now().UTC()
			if err := s.observations.UpdateTx(ctx, tx, o); err != nil {
				return nil, err
			}
			return &metering.MutationResult{ResourceID: o.ID, Resource: o}, nil
		},
		Metadata: func(res *metering.MutationResult, _, _ int64) (json.RawMessage, error) {
			o := res.Resource.(*domain.Observation)
			return json.Marshal(struct {
				ObservationID uuid.UUID           `json:"observation_id"`
				PetID         uuid.UUID           `json:"pet_id"`
				Before        observationSnapshot `json:"before"`
				After         observationSnapshot `json:"after"`
			}{o.ID, o.PetID, before, snapshotObservation(o)})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("UpdateObservation: %w", err)
	}

	return &Result{
		Observation: res.Resource.(*domain.Observation),
		Balance:     res.Balance,
		UsageTotal:  res.UsageTotal,
	}, nil
}

func (s *Service) DeleteObservation(ctx context.Context, observationID, ownerID uuid.UUID) (*Result, error) {
	if _, err := s.observations.GetByIDAndOwner(ctx, observationID, ownerID); err != nil {
		return nil, fmt.Errorf("DeleteObservation: %w", err)
	}

	acct, err := s.accounts.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("DeleteObservation: %w", err)
	}

	cost := s.costs.Cost(domain.KindObservationDeleted)
	if err := metering.Evaluate(acct, cost); err != nil {
		return nil, fmt.Errorf("DeleteObservation: %w", err)
	}

	var before observationSnapshot
	var petID uuid.UUID
	res, err := s.exec.Execute(ctx, acct.ID, metering.UnitOfWork{
		Kind:        domain.KindObservationDeleted,
		Amount:      -cost,
		Description: "observation deleted",
		AccrueUsage: true,
		Mutate: func(ctx context.Context, tx *sql.Tx) (*metering.MutationResult, error) {
			o, err := s.observations.GetForUpdate(ctx, tx, observationID)
			if err != nil {
				return nil, err
			}
			if o.OwnerID != ownerID {
				return nil, domain.ErrForbidden
			}
			before = snapshotObservation(o)
			petID = o.PetID

			if err := s.observations.DeleteTx(ctx, tx, observationID); err != nil {
				return nil, err
			}
			return &metering.MutationResult{ResourceID: observationID}, nil
		},
		Metadata: func(_ *metering.MutationResult, _, _ int64) (json.RawMessage, error) {
			return json.Marshal(struct {
				ObservationID uuid.UUID           `json:"observation_id"`
				PetID         uuid.UUID           `json:"pet_id"`
				Before        observationSnapshot `json:"before"`
			}{observationID, petID, before})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("DeleteObservation: %w", err)
	}

	return &Result{
		Balance:    res.Balance,
		UsageTotal: res.UsageTotal,
	}, nil
}
