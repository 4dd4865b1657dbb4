package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/metering"
	"github.com/pawtrail/backend/internal/repository"
	"github.com/pawtrail/backend/internal/service"
	"github.com/pawtrail/backend/internal/testutil"
)

func TestSignup_ProvisionsAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	svc := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		100,
	)

	user, account, err := svc.Signup(ctx, "new@test.com", "New Guardian", "password123")
	require.NoError(t, err)

	assert.Equal(t, domain.UserRoleMember, user.Role)
	assert.Equal(t, domain.TierStandard, account.Tier)
	assert.Equal(t, int64(100), account.Balance)
	assert.Equal(t, int64(0), account.UsageTotal)
	assert.Equal(t, user.ID, account.UserID)

	assert.Equal(t, int64(100), testutil.GetAccountBalance(t, db, account.ID))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	svc := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		100,
	)

	_, _, err := svc.Signup(ctx, "dup@test.com", "First", "password123")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "dup@test.com", "Second", "password123")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAdminService_AdjustAndLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	exec := metering.NewExecutor(db, accountRepo, ledgerRepo, 10*time.Second, true)
	admin := service.NewAdminService(metering.NewAdjuster(exec), accountRepo, ledgerRepo)

	actingAdmin := testutil.SeedTestUser(t, db, "admin@test.com", "Admin", domain.UserRoleAdmin)
	user := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, user.ID, domain.TierStandard, 10)

	res, err := admin.Adjust(ctx, acct.ID, 500, "goodwill credit", actingAdmin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(510), res.Balance)
	assert.Equal(t, int64(0), res.UsageTotal)
	require.NotNil(t, res.Entry)
	assert.Equal(t, domain.KindAdminAdjustment, res.Entry.Kind)

	entries, total, err := admin.GetAccountLedger(ctx, acct.ID, repository.LedgerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(500), entries[0].Amount)

	// Filter by kind excludes the adjustment.
	_, total, err = admin.GetAccountLedger(ctx, acct.ID, repository.LedgerFilter{Kind: domain.KindPetCreated})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestAdminService_SetTier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	exec := metering.NewExecutor(db, accountRepo, ledgerRepo, 10*time.Second, true)
	admin := service.NewAdminService(metering.NewAdjuster(exec), accountRepo, ledgerRepo)

	user := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, user.ID, domain.TierStandard, 10)

	updated, err := admin.SetTier(ctx, acct.ID, domain.TierUnlimited)
	require.NoError(t, err)
	assert.Equal(t, domain.TierUnlimited, updated.Tier)

	_, err = admin.SetTier(ctx, acct.ID, domain.Tier("platinum"))
	require.ErrorIs(t, err, domain.ErrInvalidTier)
}

func TestAccountService_LedgerScopedToOwnAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	accounts := service.NewAccountService(accountRepo, ledgerRepo)

	user := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, user.ID, domain.TierStandard, 100)

	got, err := accounts.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	entries, total, err := accounts.GetLedger(ctx, user.ID, repository.LedgerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, entries)
}
