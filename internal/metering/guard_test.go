package metering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/backend/internal/domain"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		tier    domain.Tier
		balance int64
		cost    int64
		wantErr bool
	}{
		{name: "sufficient balance", tier: domain.TierStandard, balance: 100, cost: 30},
		{name: "exact balance", tier: domain.TierStandard, balance: 30, cost: 30},
		{name: "insufficient balance", tier: domain.TierStandard, balance: 10, cost: 30, wantErr: true},
		{name: "zero balance nonzero cost", tier: domain.TierStandard, balance: 0, cost: 1, wantErr: true},
		{name: "zero cost always passes", tier: domain.TierStandard, balance: 0, cost: 0},
		{name: "negative cost is a credit", tier: domain.TierStandard, balance: 0, cost: -5},
		{name: "unlimited tier ignores balance", tier: domain.TierUnlimited, balance: 0, cost: 1000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct := &domain.Account{Tier: tc.tier, Balance: tc.balance}
			err := Evaluate(acct, tc.cost)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluate_NoSideEffects(t *testing.T) {
	acct := &domain.Account{Tier: domain.TierStandard, Balance: 10, UsageTotal: 5, Version: 3}

	first := Evaluate(acct, 30)
	second := Evaluate(acct, 30)

	// Same inputs, same decision, untouched account.
	assert.Equal(t, first, second)
	assert.Equal(t, int64(10), acct.Balance)
	assert.Equal(t, int64(5), acct.UsageTotal)
	assert.Equal(t, int64(3), acct.Version)
}

func TestEvaluate_ShortfallDetail(t *testing.T) {
	acct := &domain.Account{Tier: domain.TierStandard, Balance: 10}

	err := Evaluate(acct, 30)
	require.Error(t, err)

	var insufficient *domain.InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(30), insufficient.Cost)
	assert.Equal(t, int64(10), insufficient.Balance)
	assert.Equal(t, int64(20), insufficient.Shortfall())
}

func TestCostTable(t *testing.T) {
	costs := DefaultCosts()

	assert.Equal(t, int64(10), costs.Cost(domain.KindPetCreated))
	assert.Equal(t, int64(5), costs.Cost(domain.KindObservationCreated))
	assert.Equal(t, int64(0), costs.Cost(domain.KindPetDeleted))
	// Unknown kinds are free rather than an error.
	assert.Equal(t, int64(0), costs.Cost(domain.LedgerKind("grooming_booked")))
}

func TestTrackingOnlyKind(t *testing.T) {
	kind := domain.KindPetCreated.TrackingOnly()
	assert.Equal(t, domain.LedgerKind("pet_created_tracking_only"), kind)
	assert.True(t, kind.IsTrackingOnly())
	assert.False(t, domain.KindPetCreated.IsTrackingOnly())
}
