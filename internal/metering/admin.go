package metering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
)

// AdjustmentRequest is a privileged out-of-band balance mutation. The acting
// admin's identity must already be verified by the caller; the core trusts
// it and records it in the audit trail.
type AdjustmentRequest struct {
	TargetAccountID uuid.UUID
	Amount          int64 // signed: positive credit, negative debit
	Reason          string
	ActingAdminID   uuid.UUID
}

type adjustmentMetadata struct {
	Reason          string    `json:"reason"`
	ActingAdminID   uuid.UUID `json:"acting_admin_id"`
	PreviousBalance int64     `json:"previous_balance"`
	NewBalance      int64     `json:"new_balance"`
}

// Adjuster is the privileged bypass around the Metering Guard. It still runs
// through the same atomic executor, so adjustments get identical atomicity
// and audit guarantees.
type Adjuster struct {
	exec *Executor
}

func NewAdjuster(exec *Executor) *Adjuster {
	return &Adjuster{exec: exec}
}

func (a *Adjuster) Adjust(ctx context.Context, req AdjustmentRequest) (*CommitResult, error) {
	if req.Amount == 0 {
		return nil, fmt.Errorf("Adjust: %w", &domain.InvalidAdjustmentError{Reason: "amount must be non-zero"})
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("Adjust: %w", &domain.InvalidAdjustmentError{Reason: "reason is required"})
	}

	res, err := a.exec.Execute(ctx, req.TargetAccountID, UnitOfWork{
		Kind:        domain.KindAdminAdjustment,
		Amount:      req.Amount,
		Description: req.Reason,
		AccrueUsage: false,
		Metadata: func(_ *MutationResult, previousBalance, newBalance int64) (json.RawMessage, error) {
			return json.Marshal(adjustmentMetadata{
				Reason:          req.Reason,
				ActingAdminID:   req.ActingAdminID,
				PreviousBalance: previousBalance,
				NewBalance:      newBalance,
			})
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, fmt.Errorf("Adjust: %w", &domain.InvalidAdjustmentError{
				Reason: "adjustment would overdraw the account",
			})
		}
		return nil, fmt.Errorf("Adjust: %w", err)
	}
	return res, nil
}
