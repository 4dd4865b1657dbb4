package metering

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/metrics"
)

type accountRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalanceUsage(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance, newUsageTotal, newVersion int64) error
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
}

// MutationResult is what a unit-of-work's domain mutation produced. Resource
// is returned to the caller untouched; ResourceID links the ledger entry to
// the mutated resource.
type MutationResult struct {
	ResourceID uuid.UUID
	Resource   any
}

// UnitOfWork bundles one metered action: the domain mutation, the signed
// token amount, and the ledger entry to append. Everything commits or rolls
// back together.
type UnitOfWork struct {
	Kind        domain.LedgerKind
	Amount      int64 // signed: negative debit, positive credit
	Description string

	// AccrueUsage adds the nominal cost to the account's usage counter.
	// Metered actions set it; admin adjustments do not.
	AccrueUsage bool

	// Mutate performs the domain mutation inside the transaction. Optional:
	// admin adjustments have no resource to mutate.
	Mutate func(ctx context.Context, tx *sql.Tx) (*MutationResult, error)

	// Metadata builds the ledger entry payload. It may depend on the
	// mutation's result and sees the balance transition.
	Metadata func(res *MutationResult, previousBalance, newBalance int64) (json.RawMessage, error)
}

// CommitResult returns the mutated resource together with the fresh balance
// and usage so callers can render up-to-date state without a second read.
type CommitResult struct {
	Resource   any
	ResourceID uuid.UUID
	Balance    int64
	UsageTotal int64
	Entry      *domain.LedgerEntry
}

type Executor struct {
	db          *sql.DB
	accounts    accountRepo
	ledger      ledgerRepo
	timeout     time.Duration
	journalFree bool
}

func NewExecutor(db *sql.DB, accounts accountRepo, ledger ledgerRepo, timeout time.Duration, journalFree bool) *Executor {
	return &Executor{
		db:          db,
		accounts:    accounts,
		ledger:      ledger,
		timeout:     timeout,
		journalFree: journalFree,
	}
}

// Execute runs the unit-of-work atomically: domain mutation, balance/usage
// update, and ledger append all persist or none do. The account row lock
// taken here is the authoritative overdraw gate; concurrent requests against
// the same account serialize on it.
func (e *Executor) Execute(ctx context.Context, accountID uuid.UUID, uow UnitOfWork) (*CommitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Execute: begin tx: %w", timeoutOr(ctx, err))
	}
	defer tx.Rollback()

	acct, err := e.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", timeoutOr(ctx, err))
	}

	var res *MutationResult
	if uow.Mutate != nil {
		res, err = uow.Mutate(ctx, tx)
		if err != nil {
			metrics.MeteringRollbacks.WithLabelValues(string(uow.Kind)).Inc()
			// The caller sees the domain failure, not a ledger error.
			return nil, fmt.Errorf("Execute: mutation: %w", timeoutOr(ctx, err))
		}
	}

	kind := uow.Kind
	balanceDelta := uow.Amount
	if acct.Tier == domain.TierUnlimited && uow.Amount < 0 {
		// Unlimited tier never pays, but the nominal amount is still
		// journaled under a kind reporting can tell apart.
		balanceDelta = 0
		kind = kind.TrackingOnly()
	}

	newBalance := acct.Balance + balanceDelta
	if newBalance < 0 {
		metrics.MeteringRejections.WithLabelValues("insufficient_balance").Inc()
		return nil, fmt.Errorf("Execute: %w", &domain.InsufficientBalanceError{
			Cost:    -uow.Amount,
			Balance: acct.Balance,
		})
	}

	newUsage := acct.UsageTotal
	if uow.AccrueUsage && uow.Amount < 0 {
		newUsage += -uow.Amount
	}

	if err := e.accounts.UpdateBalanceUsage(ctx, tx, accountID, newBalance, newUsage, acct.Version+1); err != nil {
		return nil, fmt.Errorf("Execute: %w", timeoutOr(ctx, err))
	}

	var entry *domain.LedgerEntry
	if uow.Amount != 0 || e.journalFree {
		var metadata json.RawMessage
		if uow.Metadata != nil {
			metadata, err = uow.Metadata(res, acct.Balance, newBalance)
			if err != nil {
				return nil, fmt.Errorf("Execute: metadata: %w", err)
			}
		}

		entry = &domain.LedgerEntry{
			ID:          uuid.New(),
			AccountID:   accountID,
			Kind:        kind,
			Amount:      uow.Amount,
			Description: uow.Description,
			Metadata:    metadata,
			CreatedAt:   time.Now().UTC(),
		}
		if err := e.ledger.Create(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("Execute: ledger: %w", timeoutOr(ctx, err))
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.MeteringRollbacks.WithLabelValues(string(uow.Kind)).Inc()
		return nil, fmt.Errorf("Execute: commit: %w", timeoutOr(ctx, err))
	}

	metrics.MeteringCommits.WithLabelValues(string(kind)).Inc()
	metrics.UnitOfWorkDuration.Observe(time.Since(start).Seconds())

	log := logging.FromContext(ctx)
	log.Info("unit of work committed",
		"account_id", accountID,
		"kind", kind,
		"amount", uow.Amount,
		"balance", newBalance,
		"usage_total", newUsage,
	)

	result := &CommitResult{
		Balance:    newBalance,
		UsageTotal: newUsage,
		Entry:      entry,
	}
	if res != nil {
		result.Resource = res.Resource
		result.ResourceID = res.ResourceID
	}
	return result, nil
}

// timeoutOr surfaces the deadline as a domain timeout so callers can
// distinguish an aborted unit-of-work from other failures.
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}
