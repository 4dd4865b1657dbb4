package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/metering"
	"github.com/pawtrail/backend/internal/repository"
)

type adjuster interface {
	Adjust(ctx context.Context, req metering.AdjustmentRequest) (*metering.CommitResult, error)
}

type tierUpdater interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier) error
}

// AdminService is the privileged surface: direct balance adjustments and
// tier changes. Privilege itself is enforced by the auth middleware; this
// service records who acted.
type AdminService struct {
	adjuster adjuster
	accounts tierUpdater
	ledger   ledgerReader
}

func NewAdminService(adj adjuster, accounts tierUpdater, ledger ledgerReader) *AdminService {
	return &AdminService{adjuster: adj, accounts: accounts, ledger: ledger}
}

type AdjustmentResult struct {
	Entry      *domain.LedgerEntry
	Balance    int64
	UsageTotal int64
}

func (s *AdminService) Adjust(ctx context.Context, targetAccountID uuid.UUID, amount int64, reason string, actingAdminID uuid.UUID) (*AdjustmentResult, error) {
	res, err := s.adjuster.Adjust(ctx, metering.AdjustmentRequest{
		TargetAccountID: targetAccountID,
		Amount:          amount,
		Reason:          reason,
		ActingAdminID:   actingAdminID,
	})
	if err != nil {
		return nil, fmt.Errorf("Adjust: %w", err)
	}

	logging.FromContext(ctx).Info("balance adjusted",
		"account_id", targetAccountID,
		"amount", amount,
		"acting_admin_id", actingAdminID,
	)

	return &AdjustmentResult{
		Entry:      res.Entry,
		Balance:    res.Balance,
		UsageTotal: res.UsageTotal,
	}, nil
}

func (s *AdminService) SetTier(ctx context.Context, accountID uuid.UUID, tier domain.Tier) (*domain.Account, error) {
	if !tier.IsValid() {
		return nil, fmt.Errorf("SetTier: %w", domain.ErrInvalidTier)
	}

	if err := s.accounts.UpdateTier(ctx, accountID, tier); err != nil {
		return nil, fmt.Errorf("SetTier: %w", err)
	}

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("SetTier: %w", err)
	}
	return acct, nil
}

func (s *AdminService) GetAccountLedger(ctx context.Context, accountID uuid.UUID, filter repository.LedgerFilter) ([]domain.LedgerEntry, int, error) {
	entries, total, err := s.ledger.List(ctx, accountID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("GetAccountLedger: %w", err)
	}
	return entries, total, nil
}
