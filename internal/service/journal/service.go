package journal

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/metering"
)

type accountRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}

type petRepo interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Pet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error)
	CreateTx(ctx context.Context, tx *sql.Tx, pet *domain.Pet) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Pet, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, pet *domain.Pet) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
}

type observationRepo interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Observation, error)
	ListByPet(ctx context.Context, petID uuid.UUID, limit, offset int) ([]domain.Observation, int, error)
	CreateTx(ctx context.Context, tx *sql.Tx, o *domain.Observation) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Observation, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, o *domain.Observation) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
}

// Service implements the metered journal operations. Every mutation follows
// the same pipeline: ownership check, guard evaluation against the current
// balance, then the atomic unit-of-work.
type Service struct {
	accounts     accountRepo
	pets         petRepo
	observations observationRepo
	costs        metering.CostTable
	exec         *metering.Executor
}

func NewService(accounts accountRepo, pets petRepo, observations observationRepo, costs metering.CostTable, exec *metering.Executor) *Service {
	return &Service{
		accounts:     accounts,
		pets:         pets,
		observations: observations,
		costs:        costs,
		exec:         exec,
	}
}

// Result is the caller-facing outcome of a metered action: the affected
// resource plus the account's fresh balance and usage counters.
type Result struct {
	Pet         *domain.Pet
	Observation *domain.Observation
	Balance     int64
	UsageTotal  int64
}

func (s *Service) ListPets(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error) {
	return s.pets.ListByOwner(ctx, ownerID)
}

func (s *Service) GetPet(ctx context.Context, petID, ownerID uuid.UUID) (*domain.Pet, error) {
	return s.pets.GetByIDAndOwner(ctx, petID, ownerID)
}

func (s *Service) ListObservations(ctx context.Context, petID, ownerID uuid.UUID, limit, offset int) ([]domain.Observation, int, error) {
	if _, err := s.pets.GetByIDAndOwner(ctx, petID, ownerID); err != nil {
		return nil, 0, err
	}
	return s.observations.ListByPet(ctx, petID, limit, offset)
}
