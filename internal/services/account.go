package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-activation/internal/logger"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
	"github.com/sbilibin2017/gw-user-activation/internal/repositories"
)

//go:generate mockgen -source=account.go -destination=account_mock.go -package=services

const (
	// DefaultActivationTTL is how long an issued code stays valid.
	DefaultActivationTTL = 60 * time.Second
	// DefaultNotifyTimeout bounds a single delivery attempt.
	DefaultNotifyTimeout = 5 * time.Second

	maxCodeAttempts = 10
)

// ErrCodeExhausted is returned when the generator keeps repeating the previous code.
var ErrCodeExhausted = errors.New("failed to generate a fresh activation code")

// AccountReader defines read-only operations for accounts.
// Missing accounts are reported as (nil, nil).
type AccountReader interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.AccountDB, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccountDB, error)
}

// AccountWriter defines atomic write operations for accounts.
type AccountWriter interface {
	Create(ctx context.Context, email, passwordHash, code string, expiresAt time.Time) (*models.AccountDB, error)
	SetActivated(ctx context.Context, id uuid.UUID, code string) (bool, error)
	SetActivationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) (bool, error)
}

// PasswordHasher hashes passwords and verifies them against stored hashes.
// DummyHash is a hash of the same cost as Hash produces, verified in place
// of a missing account's hash.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
	DummyHash() string
}

// CodeGenerator produces activation codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Notifier delivers an activation code to the account owner.
type Notifier interface {
	SendActivationCode(ctx context.Context, n models.ActivationNotification) error
}

// AccountService owns the activation lifecycle of accounts:
// Unverified(code, expiry) -> Active. It keeps no state between calls;
// ordering of concurrent writes is left to the store.
type AccountService struct {
	reader        AccountReader
	writer        AccountWriter
	hasher        PasswordHasher
	codes         CodeGenerator
	notifier      Notifier
	ttl           time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
}

// Option configures an AccountService.
type Option func(*AccountService)

// WithActivationTTL sets how long issued codes stay valid.
func WithActivationTTL(ttl time.Duration) Option {
	return func(s *AccountService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNotifyTimeout bounds each notifier call.
func WithNotifyTimeout(timeout time.Duration) Option {
	return func(s *AccountService) {
		if timeout > 0 {
			s.notifyTimeout = timeout
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	reader AccountReader,
	writer AccountWriter,
	hasher PasswordHasher,
	codes CodeGenerator,
	notifier Notifier,
	opts ...Option,
) *AccountService {
	s := &AccountService{
		reader:        reader,
		writer:        writer,
		hasher:        hasher,
		codes:         codes,
		notifier:      notifier,
		ttl:           DefaultActivationTTL,
		notifyTimeout: DefaultNotifyTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an inactive account and sends it an activation code.
// Delivery failures are logged; the account stays registered.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.AccountDB, error) {
	exists, err := s.reader.EmailExists(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email exists", "err", err)
		return nil, unavailable(err)
	}
	if exists {
		logger.Log.Infow("email already registered", "email", email)
		return nil, ErrEmailConflict
	}

	code, expiresAt, err := s.issueCode(nil)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.writer.Create(ctx, email, hash, code, expiresAt)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			logger.Log.Infow("email registered concurrently", "email", email)
			return nil, ErrEmailConflict
		}
		logger.Log.Errorw("failed to create account", "err", err)
		return nil, unavailable(err)
	}

	s.notify(ctx, models.ActivationNotification{Email: account.Email, Code: code, ExpiresAt: expiresAt})

	return account, nil
}

// Authenticate returns the account matching email and password. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials, and both cost
// one hash verification.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.AccountDB, error) {
	account, err := s.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get account", "err", err)
		return nil, unavailable(err)
	}

	hash := s.hasher.DummyHash()
	if account != nil {
		hash = account.PasswordHash
	}

	ok, err := s.hasher.Verify(ctx, password, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if account == nil || !ok {
		logger.Log.Infow("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// Activate confirms the account with the code it was sent. Checks run in a
// fixed order: credentials, already active, code mismatch, expiry.
// A code submitted exactly at its expiry instant is accepted.
func (s *AccountService) Activate(ctx context.Context, email, password, code string) error {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}

	if account.IsActive {
		return ErrAlreadyActive
	}

	if account.ActivationCode == nil ||
		subtle.ConstantTimeCompare([]byte(*account.ActivationCode), []byte(code)) != 1 {
		logger.Log.Infow("invalid activation code", "account_id", account.ID)
		return ErrInvalidCode
	}

	if !account.HasActivationCode() {
		logger.Log.Warnw("activation code without expiry", "account_id", account.ID)
		return ErrInvalidCode
	}

	if s.now().After(*account.ActivationCodeExpiresAt) {
		logger.Log.Infow("activation code expired", "account_id", account.ID,
			"expired_at", *account.ActivationCodeExpiresAt)
		return ErrCodeExpired
	}

	// The write only succeeds while the stored code is still the one checked
	// above, so a concurrent resend or activation makes it report false.
	ok, err := s.writer.SetActivated(ctx, account.ID, code)
	if err != nil {
		logger.Log.Errorw("failed to activate account", "account_id", account.ID, "err", err)
		return unavailable(err)
	}
	if !ok {
		current, err := s.reader.GetByID(ctx, account.ID)
		if err != nil {
			return unavailable(err)
		}
		switch {
		case current == nil:
			logger.Log.Warnw("account disappeared during activation", "account_id", account.ID)
			return ErrAccountNotFound
		case current.IsActive:
			return ErrAlreadyActive
		default:
			logger.Log.Infow("activation code replaced during activation", "account_id", account.ID)
			return ErrInvalidCode
		}
	}

	logger.Log.Infow("account activated", "account_id", account.ID)
	return nil
}

// Resend replaces the account's activation code with a fresh one and sends
// it. The previous code stops working.
func (s *AccountService) Resend(ctx context.Context, email, password string) error {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}

	if account.IsActive {
		return ErrAlreadyActive
	}

	code, expiresAt, err := s.issueCode(account.ActivationCode)
	if err != nil {
		return err
	}

	ok, err := s.writer.SetActivationCode(ctx, account.ID, code, expiresAt)
	if err != nil {
		logger.Log.Errorw("failed to update activation code", "account_id", account.ID, "err", err)
		return unavailable(err)
	}
	if !ok {
		// The store refuses to set a code on an active account, so a
		// concurrent activation lands here too.
		current, err := s.reader.GetByID(ctx, account.ID)
		if err != nil {
			return unavailable(err)
		}
		if current != nil && current.IsActive {
			return ErrAlreadyActive
		}
		return ErrAccountNotFound
	}

	s.notify(ctx, models.ActivationNotification{Email: account.Email, Code: code, ExpiresAt: expiresAt})

	return nil
}

// issueCode generates a code different from previous and its expiry.
func (s *AccountService) issueCode(previous *string) (string, time.Time, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.codes.Generate()
		if err != nil {
			logger.Log.Errorw("failed to generate activation code", "err", err)
			return "", time.Time{}, err
		}
		if previous == nil || code != *previous {
			return code, s.now().UTC().Add(s.ttl), nil
		}
	}
	logger.Log.Errorw("activation code generator keeps repeating the previous code", "attempts", maxCodeAttempts)
	return "", time.Time{}, ErrCodeExhausted
}

// notify delivers n once the state change is committed. The attempt is
// bounded by notifyTimeout and survives cancellation of ctx.
func (s *AccountService) notify(ctx context.Context, n models.ActivationNotification) {
	if s.notifier == nil {
		logger.Log.Warnw("notifier not configured, skipping delivery", "email", n.Email)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.SendActivationCode(ctx, n); err != nil {
		logger.Log.Errorw("failed to deliver activation code", "email", n.Email, "err", err)
		return
	}
	logger.Log.Infow("activation code delivered", "email", n.Email)
}
