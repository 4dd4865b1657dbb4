package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawtrail/backend/internal/config"
	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/repository"
)

// Seeds a demo guardian, an admin, and a pet with a few observations so a
// fresh environment has something to look at. Safe to re-run: it skips
// seeding when users already exist.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("pawtrail-seeder", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     5,
		MaxIdleConns:     2,
		ConnMaxLifetimeS: 300,
		ConnMaxIdleTimeS: 60,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		slog.Error("failed to check existing users", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping", "users", count)
		return
	}

	users := repository.NewUserRepository(db)
	accounts := repository.NewAccountRepository(db)

	now := time.Now().UTC()

	admin := &domain.User{
		ID:           uuid.New(),
		Email:        "admin@pawtrail.dev",
		Name:         "Pawtrail Admin",
		PasswordHash: mustHash("admin-password"),
		Role:         domain.UserRoleAdmin,
		CreatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		slog.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	guardian := &domain.User{
		ID:           uuid.New(),
		Email:        "demo@pawtrail.dev",
		Name:         "Demo Guardian",
		PasswordHash: mustHash("demo-password"),
		Role:         domain.UserRoleMember,
		CreatedAt:    now,
	}
	if err := users.Create(ctx, guardian); err != nil {
		slog.Error("failed to seed guardian", "error", err)
		os.Exit(1)
	}

	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    guardian.ID,
		Tier:      domain.TierStandard,
		Balance:   cfg.StartingBalance,
		Version:   1,
		CreatedAt: now,
	}
	if err := accounts.Create(ctx, account); err != nil {
		slog.Error("failed to seed account", "error", err)
		os.Exit(1)
	}

	breed := "border collie"
	petID := uuid.New()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO pets (id, owner_id, name, species, breed, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		petID, guardian.ID, "Maple", "dog", breed, now.AddDate(-3, 0, 0), now,
	); err != nil {
		slog.Error("failed to seed pet", "error", err)
		os.Exit(1)
	}

	observations := []struct {
		category domain.ObservationCategory
		note     string
	}{
		{domain.CategoryWeight, "18.4 kg at the vet"},
		{domain.CategoryMeal, "morning kibble, ate everything"},
		{domain.CategoryActivity, "45 minute walk around the park"},
	}
	for i, o := range observations {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO observations (id, pet_id, owner_id, category, note, observed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			uuid.New(), petID, guardian.ID, o.category, o.note, now.Add(-time.Duration(i)*time.Hour), now,
		); err != nil {
			slog.Error("failed to seed observation", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("seeding complete",
		"admin_email", admin.Email,
		"guardian_email", guardian.Email,
		"starting_balance", account.Balance,
	)
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}
	return string(hash)
}
