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

type CreatePetRequest struct {
	OwnerID   uuid.UUID
	Name      string
	Species   string
	Breed     *string
	BirthDate *time.Time
}

func (r CreatePetRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Species) == "" {
		return fmt.Errorf("name and species are required: %w", domain.ErrInvalidRequest)
	}
	return nil
}

type UpdatePetRequest struct {
	OwnerID   uuid.UUID
	PetID     uuid.UUID
	Name      string
	Species   string
	Breed     *string
	BirthDate *time.Time
}

func (r UpdatePetRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Species) == "" {
		return fmt.Errorf("name and species are required: %w", domain.ErrInvalidRequest)
	}
	return nil
}

type petSnapshot struct {
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

func snapshotPet(p *domain.Pet) petSnapshot {
	return petSnapshot{
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
	}
}

func (s *Service) CreatePet(ctx context.Context, req CreatePetRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("CreatePet: %w", err)
	}

	acct, err := s.accounts.GetByUserID(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("CreatePet: %w", err)
	}

	cost := s.costs.Cost(domain.KindPetCreated)
	if err := metering.Evaluate(acct, cost); err != nil {
		return nil, fmt.Errorf("CreatePet: %w", err)
	}

	res, err := s.exec.Execute(ctx, acct.ID, metering.UnitOfWork{
		Kind:        domain.KindPetCreated,
		Amount:      -cost,
		Description: fmt.Sprintf("pet %q registered", req.Name),
		AccrueUsage: true,
		Mutate: func(ctx context.Context, tx *sql.Tx) (*metering.MutationResult, error) {
			now := time.Now().UTC()
			pet := &domain.Pet{
				ID:        uuid.New(),
				OwnerID:   req.OwnerID,
				Name:      req.Name,
				Species:   req.Species,
				Breed:     req.Breed,
				BirthDate: req.BirthDate,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.pets.CreateTx(ctx, tx, pet); err != nil {
				return nil, err
			}
			return &metering.MutationResult{ResourceID: pet.ID, Resource: pet}, nil
		},
		Metadata: func(res *metering.MutationResult, _, _ int64) (json.RawMessage, error) {
			pet := res.Resource.(*domain.Pet)
			return json.Marshal(struct {
				PetID uuid.UUID   `json:"pet_id"`
				After petSnapshot `json:"after"`
			}{pet.ID, snapshotPet(pet)})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("CreatePet: %w", err)
	}

	return &Result{
		Pet:        res.Resource.(*domain.Pet),
		Balance:    res.Balance,
		UsageTotal: res.UsageTotal,
	}, nil
}

func (s *Service) UpdatePet(ctx context.Context, req UpdatePetRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("UpdatePet: %w", err)
	}

	// Ownership check outside the transaction; re-verified under lock below.
	if _, err := s.pets.GetByIDAndOwner(ctx, req.PetID, req.OwnerID); err != nil {
		return nil, fmt.Errorf("UpdatePet: %w", err)
	}

	acct, err := s.accounts.GetByUserID(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("UpdatePet: %w", err)
	}

	cost := s.costs.Cost(domain.KindPetUpdated)
	if err := metering.Evaluate(acct, cost); err != nil {
		return nil, fmt.Errorf("UpdatePet: %w", err)
	}

	var before petSnapshot
	res, err := s.exec.Execute(ctx, acct.ID, metering.UnitOfWork{
		Kind:        domain.KindPetUpdated,
		Amount:      -cost,
		Description: fmt.Sprintf("pet %q updated", req.Name),
		AccrueUsage: true,
		Mutate: func(ctx context.Context, tx *sql.Tx) (*metering.MutationResult, error) {
			pet, err := s.pets.GetForUpdate(ctx, tx, req.PetID)
			if err != nil {
				return nil, err
			}
			if pet.OwnerID != req.OwnerID {
				return nil, domain.ErrForbidden
			}
			before = snapshotPet(pet)

			pet.Name = req.Name
			pet.Species = req.Species
			pet.Breed = req.Breed
			pet.BirthDate = req.BirthDate
			pet.UpdatedAt = time.Now().UTC()
			if err := s.pets.UpdateTx(ctx, tx, pet); err != nil {
				return nil, err
			}
			return &metering.MutationResult{ResourceID: pet.ID, Resource: pet}, nil
		},
		Metadata: func(res *metering.MutationResult, _, _ int64) (json.RawMessage, error) {
			pet := res.Resource.(*domain.Pet)
			return json.Marshal(struct {
				PetID  uuid.UUID   `json:"pet_id"`
				Before petSnapshot `json:"before"`
				After  petSnapshot `json:"after"`
			}{pet.ID, before, snapshotPet(pet)})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("UpdatePet: %w", err)
	}

	return &Result{
		Pet:        res.Resource.(*domain.Pet),
		Balance:    res.Balance,
		UsageTotal: res.UsageTotal,
	}, nil
}

func (s *Service) DeletePet(ctx context.Context, petID, ownerID uuid.UUID) (*Result, error) {
	if _, err := s.pets.GetByIDAndOwner(ctx, petID, ownerID); err != nil {
		return nil, fmt.Errorf("DeletePet: %w", err)
	}

	acct, err := s.accounts.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("DeletePet: %w", err)
	}

	cost := s.costs.Cost(domain.KindPetDeleted)
	if err := metering.Evaluate(acct, cost); err != nil {
		return nil, fmt.Errorf("DeletePet: %w", err)
	}

	var before petSnapshot
	res, err := s.exec.Execute(ctx, acct.ID, metering.UnitOfWork{
		Kind:        domain.KindPetDeleted,
		Amount:      -cost,
		Description: "pet deleted",
		AccrueUsage: true,
		Mutate: func(ctx context.Context, tx *sql.Tx) (*metering.MutationResult, error) {
			pet, err := s.pets.GetForUpdate(ctx, tx, petID)
			if err != nil {
				return nil, err
			}
			if pet.OwnerID != ownerID {
				return nil, domain.ErrForbidden
			}
			before = snapshotPet(pet)

			if err := s.pets.DeleteTx(ctx, tx, petID); err != nil {
				return nil, err
			}
			return &metering.MutationResult{ResourceID: petID}, nil
		},
		Metadata: func(_ *metering.MutationResult, _, _ int64) (json.RawMessage, error) {
			return json.Marshal(struct {
				PetID  uuid.UUID   `json:"pet_id"`
				Before petSnapshot `json:"before"`
			}{petID, before})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("DeletePet: %w", err)
	}

	return &Result{
		Balance:    res.Balance,
		UsageTotal: res.UsageTotal,
	}, nil
}
