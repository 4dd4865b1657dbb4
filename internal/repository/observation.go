package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
)

const observationColumns = `id, pet_id, owner_id, category, note, observed_at, created_at, updated_at`

type ObservationRepository struct {
	db *sql.DB
}

func NewObservationRepository(db *sql.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

func (r *ObservationRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Observation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE id = $1`, id,
	)
	o, err := scanObservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByIDAndOwner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByIDAndOwner: %w", err)
	}
	if o.OwnerID != ownerID {
		return nil, fmt.Errorf("GetByIDAndOwner: %w", domain.ErrForbidden)
	}
	return o, nil
}

func (r *ObservationRepository) ListByPet(ctx context.Context, petID uuid.UUID, limit, offset int) ([]domain.Observation, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM observations WHERE pet_id = $1`, petID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByPet: count: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+observationColumns+` FROM observations
		WHERE pet_id = $1 ORDER BY observed_at DESC LIMIT $2 OFFSET $3`,
		petID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByPet: %w", err)
	}
	defer rows.Close()

	var observations []domain.Observation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByPet: scan: %w", err)
		}
		observations = append(observations, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByPet: rows: %w", err)
	}
	return observations, total, nil
}

func (r *ObservationRepository) CreateTx(ctx context.Context, tx *sql.Tx, o *domain.Observation) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO observations (id, pet_id, owner_id, category, note, observed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.PetID, o.OwnerID, o.Category, o.Note, o.ObservedAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateTx: %w", err)
	}
	return nil
}

func (r *ObservationRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Observation, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE id = $1 FOR UPDATE`, id,
	)
	o, err := scanObservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return o, nil
}

func (r *ObservationRepository) UpdateTx(ctx context.Context, tx *sql.Tx, o *domain.Observation) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE observations SET category = $1, note = $2, observed_at = $3, updated_at = $4
		WHERE id = $5`,
		o.Category, o.Note, o.ObservedAt, o.UpdatedAt, o.ID,
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

func (r *ObservationRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM observations WHERE id = $1`, id)
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

func scanObservation(s scanner) (*domain.Observation, error) {
	var o domain.Observation
	err := s.Scan(
		&o.ID, &o.PetID, &o.OwnerID, &o.Category, &o.Note, &o.ObservedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
