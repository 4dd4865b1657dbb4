package journal_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/metering"
	"github.com/pawtrail/backend/internal/repository"
	"github.com/pawtrail/backend/internal/service/journal"
	"github.com/pawtrail/backend/internal/testutil"
)

func setupJournalService(t *testing.T, db *sql.DB, costs metering.CostTable) *journal.Service {
	t.Helper()

	accountRepo := repository.NewAccountRepository(db)
	exec := metering.NewExecutor(
		db,
		accountRepo,
		repository.NewLedgerRepository(db),
		10*time.Second,
		true,
	)
	return journal.NewService(
		accountRepo,
		repository.NewPetRepository(db),
		repository.NewObservationRepository(db),
		costs,
		exec,
	)
}

func TestCreatePet_DebitsAndJournals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.CostTable{domain.KindPetCreated: 30})
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)

	res, err := svc.CreatePet(ctx, journal.CreatePetRequest{
		OwnerID: owner.ID,
		Name:    "Maple",
		Species: "dog",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Pet)

	assert.Equal(t, int64(70), res.Balance)
	assert.Equal(t, int64(30), res.UsageTotal)
	assert.Equal(t, int64(70), testutil.GetAccountBalance(t, db, acct.ID))

	entry := testutil.LatestLedgerEntry(t, db, acct.ID)
	assert.Equal(t, domain.KindPetCreated, entry.Kind)
	assert.Equal(t, int64(-30), entry.Amount)
}

func TestCreatePet_RejectedWhenBalanceTooLow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.CostTable{domain.KindPetCreated: 30})
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)

	// Drain the balance to 10, then the next attempt is 20 short.
	for range 3 {
		_, err := svc.CreatePet(ctx, journal.CreatePetRequest{
			OwnerID: owner.ID,
			Name:    "Maple",
			Species: "dog",
		})
		require.NoError(t, err)
	}
	require.Equal(t, int64(10), testutil.GetAccountBalance(t, db, acct.ID))

	_, err := svc.CreatePet(ctx, journal.CreatePetRequest{
		OwnerID: owner.ID,
		Name:    "Clover",
		Species: "cat",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Nothing moved: no pet, no debit, no ledger entry.
	assert.Equal(t, int64(10), testutil.GetAccountBalance(t, db, acct.ID))
	assert.Equal(t, int64(90), testutil.GetAccountUsage(t, db, acct.ID))
	assert.Equal(t, 3, testutil.CountLedgerEntries(t, db, acct.ID))

	var pets int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pets WHERE owner_id = $1`, owner.ID).Scan(&pets))
	assert.Equal(t, 3, pets)
}

func TestUpdatePet_OwnershipEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.DefaultCosts())
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	stranger := testutil.SeedTestUser(t, db, "stranger@test.com", "Stranger", domain.UserRoleMember)
	testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)
	strangerAcct := testutil.SeedTestAccount(t, db, stranger.ID, domain.TierStandard, 100)

	pet := testutil.SeedTestPet(t, db, owner.ID, "Maple", "dog")

	_, err := svc.UpdatePet(ctx, journal.UpdatePetRequest{
		OwnerID: stranger.ID,
		PetID:   pet.ID,
		Name:    "Stolen",
		Species: "dog",
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// The stranger paid nothing for the attempt.
	assert.Equal(t, int64(100), testutil.GetAccountBalance(t, db, strangerAcct.ID))
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, strangerAcct.ID))

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM pets WHERE id = $1`, pet.ID).Scan(&name))
	assert.Equal(t, "Maple", name)
}

func TestUpdatePet_JournalsBeforeAndAfter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.DefaultCosts())
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)
	pet := testutil.SeedTestPet(t, db, owner.ID, "Maple", "dog")

	res, err := svc.UpdatePet(ctx, journal.UpdatePetRequest{
		OwnerID: owner.ID,
		PetID:   pet.ID,
		Name:    "Maple Jr",
		Species: "dog",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maple Jr", res.Pet.Name)
	assert.Equal(t, int64(98), res.Balance)

	entry := testutil.LatestLedgerEntry(t, db, acct.ID)
	assert.Equal(t, domain.KindPetUpdated, entry.Kind)
	assert.Contains(t, string(entry.Metadata), `"before"`)
	assert.Contains(t, string(entry.Metadata), `"after"`)
	assert.Contains(t, string(entry.Metadata), "Maple Jr")
}

func TestDeletePet_FreeButJournaled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.DefaultCosts())
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)
	pet := testutil.SeedTestPet(t, db, owner.ID, "Maple", "dog")

	res, err := svc.DeletePet(ctx, pet.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Balance)
	assert.Equal(t, int64(100), testutil.GetAccountBalance(t, db, acct.ID))

	entry := testutil.LatestLedgerEntry(t, db, acct.ID)
	assert.Equal(t, domain.KindPetDeleted, entry.Kind)
	assert.Equal(t, int64(0), entry.Amount)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pets WHERE id = $1`, pet.ID).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestObservations_FullLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.DefaultCosts())
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)
	pet := testutil.SeedTestPet(t, db, owner.ID, "Maple", "dog")

	created, err := svc.CreateObservation(ctx, journal.CreateObservationRequest{
		OwnerID:    owner.ID,
		PetID:      pet.ID,
		Category:   domain.CategoryWeight,
		Note:       "18.4 kg",
		ObservedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Observation)
	assert.Equal(t, int64(95), created.Balance)

	updated, err := svc.UpdateObservation(ctx, journal.UpdateObservationRequest{
		OwnerID:       owner.ID,
		ObservationID: created.Observation.ID,
		Category:      domain.CategoryWeight,
		Note:          "18.6 kg, re-weighed",
		ObservedAt:    created.Observation.ObservedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(93), updated.Balance)
	assert.Equal(t, "18.6 kg, re-weighed", updated.Observation.Note)

	deleted, err := svc.DeleteObservation(ctx, created.Observation.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(93), deleted.Balance)

	// create(5) + update(2) + free delete(0)
	assert.Equal(t, int64(7), testutil.GetAccountUsage(t, db, acct.ID))
	assert.Equal(t, 3, testutil.CountLedgerEntries(t, db, acct.ID))

	observations, total, err := svc.ListObservations(ctx, pet.ID, owner.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, observations)
}

func TestCreateObservation_UnlimitedTierAccruesUsage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.DefaultCosts())
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	acct := testutil.SeedTestAccount(t, db, owner.ID, domain.TierUnlimited, 0)
	pet := testutil.SeedTestPet(t, db, owner.ID, "Maple", "dog")

	res, err := svc.CreateObservation(ctx, journal.CreateObservationRequest{
		OwnerID:    owner.ID,
		PetID:      pet.ID,
		Category:   domain.CategoryMeal,
		Note:       "ate everything",
		ObservedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Balance)
	assert.Equal(t, int64(5), res.UsageTotal)

	entry := testutil.LatestLedgerEntry(t, db, acct.ID)
	assert.Equal(t, domain.KindObservationCreated.TrackingOnly(), entry.Kind)
	assert.Equal(t, int64(-5), entry.Amount)
}

func TestCreateObservation_PetOfAnotherOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupJournalService(t, db, metering.DefaultCosts())
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com", "Owner", domain.UserRoleMember)
	stranger := testutil.SeedTestUser(t, db, "stranger@test.com", "Stranger", domain.UserRoleMember)
	testutil.SeedTestAccount(t, db, owner.ID, domain.TierStandard, 100)
	testutil.SeedTestAccount(t, db, stranger.ID, domain.TierStandard, 100)
	pet := testutil.SeedTestPet(t, db, owner.ID, "Maple", "dog")

	_, err := svc.CreateObservation(ctx, journal.CreateObservationRequest{
		OwnerID:    stranger.ID,
		PetID:      pet.ID,
		Category:   domain.CategorySymptom,
		Note:       "limping",
		ObservedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
