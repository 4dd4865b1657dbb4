package metering

import "github.com/pawtrail/backend/internal/domain"

// Evaluate decides whether an action of the given cost may proceed against
// the account. Pure function: no side effects, safe to call repeatedly with
// the same inputs. nil means proceed.
//
// The decision is advisory. It reads a possibly stale balance snapshot; the
// authoritative, race-free check happens inside the executor's transaction
// while the account row is locked.
func Evaluate(acct *domain.Account, cost int64) error {
	if cost <= 0 {
		return nil
	}
	if acct.Tier == domain.TierUnlimited {
		return nil
	}
	if acct.Balance < cost {
		return &domain.InsufficientBalanceError{Cost: cost, Balance: acct.Balance}
	}
	return nil
}
