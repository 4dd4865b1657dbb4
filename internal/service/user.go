package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
)

type userRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type accountCreator interface {
	Create(ctx context.Context, account *domain.Account) error
}

type UserService struct {
	users           userRepo
	accounts        accountCreator
	startingBalance int64
}

func NewUserService(users userRepo, accounts accountCreator, startingBalance int64) *UserService {
	return &UserService{
		users:           users,
		accounts:        accounts,
		startingBalance: startingBalance,
	}
}

// Signup registers a guardian and provisions their token account with the
// configured starting balance.
func (s *UserService) Signup(ctx context.Context, email, name, password string) (*domain.User, *domain.Account, error) {
	log := logging.FromContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("Signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.UserRoleMember,
		CreatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("Signup: %w", err)
	}

	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    user.ID,
		Tier:      domain.TierStandard,
		Balance:   s.startingBalance,
		Version:   1,
		CreatedAt: now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, nil, fmt.Errorf("Signup: provision account: %w", err)
	}

	log.Info("guardian registered",
		"user_id", user.ID,
		"account_id", account.ID,
		"starting_balance", account.Balance,
	)

	return user, account, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}
