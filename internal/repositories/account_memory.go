package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

// AccountMemoryRepository is an in-process account store with the same
// contract as the Postgres repositories: unique emails, atomic per-account
// updates and nil results for missing accounts. It backs tests and the
// "memory://" storage URL.
type AccountMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.AccountDB
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewAccountMemoryRepository() *AccountMemoryRepository {
	return &AccountMemoryRepository{
		byID:    make(map[uuid.UUID]*models.AccountDB),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *AccountMemoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *AccountMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.AccountDB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return copyAccount(r.byID[id]), nil
}

func (r *AccountMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountDB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(account), nil
}

func (r *AccountMemoryRepository) Create(
	ctx context.Context,
	email, passwordHash, code string,
	expiresAt time.Time,
) (*models.AccountDB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}

	now := r.now().UTC()
	exp := expiresAt.UTC()
	account := &models.AccountDB{
		ID:                      uuid.New(),
		Email:                   email,
		PasswordHash:            passwordHash,
		ActivationCode:          &code,
		ActivationCodeExpiresAt: &exp,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	r.byID[account.ID] = account
	r.byEmail[email] = account.ID

	return copyAccount(account), nil
}

func (r *AccountMemoryRepository) SetActivated(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok || account.IsActive || account.ActivationCode == nil || *account.ActivationCode != code {
		return false, nil
	}
	account.IsActive = true
	account.ActivationCode = nil
	account.ActivationCodeExpiresAt = nil
	r.touch(account)
	return true, nil
}

func (r *AccountMemoryRepository) SetActivationCode(
	ctx context.Context,
	id uuid.UUID,
	code string,
	expiresAt time.Time,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok || account.IsActive {
		return false, nil
	}
	exp := expiresAt.UTC()
	account.ActivationCode = &code
	account.ActivationCodeExpiresAt = &exp
	r.touch(account)
	return true, nil
}

// Ping always succeeds.
func (r *AccountMemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// touch bumps updated_at without ever moving it backwards.
func (r *AccountMemoryRepository) touch(account *models.AccountDB) {
	if now := r.now().UTC(); now.After(account.UpdatedAt) {
		account.UpdatedAt = now
	}
}

func copyAccount(a *models.AccountDB) *models.AccountDB {
	c := *a
	if a.ActivationCode != nil {
		code := *a.ActivationCode
		c.ActivationCode = &code
	}
	if a.ActivationCodeExpiresAt != nil {
		exp := *a.ActivationCodeExpiresAt
		c.ActivationCodeExpiresAt = &exp
	}
	return &c
}
