package domain

import (
	"time"

	"github.com/google/uuid"
)

type Tier string

const (
	// TierStandard accounts hold a finite token balance that every metered
	// action debits.
	TierStandard Tier = "standard"
	// TierUnlimited accounts (grandfathered plans) are never debited but
	// still accrue usage for reporting.
	TierUnlimited Tier = "unlimited"
)

func (t Tier) IsValid() bool {
	return t == TierStandard || t == TierUnlimited
}

// Account is the billable token wallet of a single guardian. Balance and
// UsageTotal are mutated only inside the metering executor's transaction.
type Account struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Tier       Tier
	Balance    int64
	UsageTotal int64
	Version    int64
	CreatedAt  time.Time
}
