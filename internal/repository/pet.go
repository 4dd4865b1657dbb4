package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
)

const petColumns = `id, owner_id, name, species, breed, birth_date, created_at, updated_at`

type PetRepository struct {
	db *sql.DB
}

func NewPetRepository(db *sql.DB) *PetRepository {
	return &PetRepository{db: db}
}

// GetByIDAndOwner is the ownership check: ErrNotFound when the pet does not
// exist, ErrForbidden when it belongs to someone else.
func (r *PetRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Pet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE id = $1`, id,
	)
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByIDAndOwner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByIDAndOwner: %w", err)
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("GetByIDAndOwner: %w", domain.ErrForbidden)
	}
	return p, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE owner_id = $1 ORDER BY created_at`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: scan: %w", err)
		}
		pets = append(pets, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByOwner: rows: %w", err)
	}
	return pets, nil
}

// Tx-scoped mutations below run inside the metering unit-of-work so the
// resource change commits or rolls back together with balance and ledger.

func (r *PetRepository) CreateTx(ctx context.Context, tx *sql.Tx, pet *domain.Pet) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO pets (id, owner_id, name, species, breed, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pet.ID, pet.OwnerID, pet.Name, pet.Species, pet.Breed, pet.BirthDate,
		pet.CreatedAt, pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateTx: %w", err)
	}
	return nil
}

func (r *PetRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Pet, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE id = $1 FOR UPDATE`, id,
	)
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return p, nil
}

func (r *PetRepository) UpdateTx(ctx context.Context, tx *sql.Tx, pet *domain.Pet) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE pets SET name = $1, species = $2, breed = $3, birth_date = $4, updated_at = $5
		WHERE id = $6`,
		pet.Name, pet.Species, pet.Breed, pet.BirthDate, pet.UpdatedAt, pet.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateTx: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateTx: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateTx: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PetRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteTx: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteTx: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("DeleteTx: %w", domain.ErrNotFound)
	}
	return nil
}

func scanPet(s scanner) (*domain.Pet, error) {
	var p domain.Pet
	err := s.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.BirthDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
