package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawtrail/backend/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string, role domain.UserRole) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID uuid.UUID, tier domain.Tier, balance int64) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Tier:      tier,
		Balance:   balance,
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, tier, balance, usage_total, version, created_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6)`,
		a.ID, a.UserID, a.Tier, a.Balance, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test account for %s: %v", userID, err)
	}
	return a
}

func SeedTestPet(t *testing.T, db *sql.DB, ownerID uuid.UUID, name, species string) *domain.Pet {
	t.Helper()

	now := time.Now().UTC()
	p := &domain.Pet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := db.Exec(
		`INSERT INTO pets (id, owner_id, name, species, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		p.ID, p.OwnerID, p.Name, p.Species, now,
	)
	if err != nil {
		t.Fatalf("seed test pet %s: %v", name, err)
	}
	return p
}

func SeedTestObservation(t *testing.T, db *sql.DB, petID, ownerID uuid.UUID, category domain.ObservationCategory, note string) *domain.Observation {
	t.Helper()

	now := time.Now().UTC()
	o := &domain.Observation{
		ID:         uuid.New(),
		PetID:      petID,
		OwnerID:    ownerID,
		Category:   category,
		Note:       note,
		ObservedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := db.Exec(
		`INSERT INTO observations (id, pet_id, owner_id, category, note, observed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		o.ID, o.PetID, o.OwnerID, o.Category, o.Note, o.ObservedAt, now,
	)
	if err != nil {
		t.Fatalf("seed test observation: %v", err)
	}
	return o
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func GetAccountUsage(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var usage int64
	err := db.QueryRow(`SELECT usage_total FROM accounts WHERE id = $1`, accountID).Scan(&usage)
	if err != nil {
		t.Fatalf("get account usage %s: %v", accountID, err)
	}
	return usage
}

func CountLedgerEntries(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for account %s: %v", accountID, err)
	}
	return count
}

func LatestLedgerEntry(t *testing.T, db *sql.DB, accountID uuid.UUID) *domain.LedgerEntry {
	t.Helper()

	var e domain.LedgerEntry
	err := db.QueryRow(
		`SELECT id, account_id, kind, amount, description, metadata, created_at
		 FROM ledger_entries WHERE account_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		accountID,
	).Scan(&e.ID, &e.AccountID, &e.Kind, &e.Amount, &e.Description, &e.Metadata, &e.CreatedAt)
	if err != nil {
		t.Fatalf("latest ledger entry for account %s: %v", accountID, err)
	}
	return &e
}
