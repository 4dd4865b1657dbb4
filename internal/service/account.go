package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/repository"
)

type accountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}

type ledgerReader interface {
	List(ctx context.Context, accountID uuid.UUID, filter repository.LedgerFilter) ([]domain.LedgerEntry, int, error)
}

// AccountService is the read side of the token account: balance, usage, and
// the append-only ledger stream consumed by dashboards.
type AccountService struct {
	accounts accountReader
	ledger   ledgerReader
}

func NewAccountService(accounts accountReader, ledger ledgerReader) *AccountService {
	return &AccountService{accounts: accounts, ledger: ledger}
}

func (s *AccountService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	a, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	return a, nil
}

func (s *AccountService) GetLedger(ctx context.Context, userID uuid.UUID, filter repository.LedgerFilter) ([]domain.LedgerEntry, int, error) {
	acct, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("GetLedger: %w", err)
	}

	entries, total, err := s.ledger.List(ctx, acct.ID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("GetLedger: %w", err)
	}
	return entries, total, nil
}
