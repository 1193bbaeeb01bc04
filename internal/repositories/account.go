package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-user-activation/internal/logger"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

// ErrDuplicateEmail is returned by Create when the unique email index rejects the insert.
var ErrDuplicateEmail = errors.New("email already exists")

// uniqueViolation is the SQLSTATE of unique_violation.
const uniqueViolation = "23505"

const accountColumns = `id, email, password_hash, is_active, activation_code,
		activation_code_expires_at, created_at, updated_at`

// logQuery logs a statement in a single line. Arguments never include
// password hashes or activation codes.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

type AccountReadRepository struct {
	db *sqlx.DB
}

func NewAccountReadRepository(db *sqlx.DB) *AccountReadRepository {
	return &AccountReadRepository{db: db}
}

// EmailExists reports whether an account is registered with email.
func (r *AccountReadRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	logQuery(query, []any{email}, exists, err)

	return exists, err
}

// GetByEmail returns the account for email, or nil when there is none.
func (r *AccountReadRepository) GetByEmail(ctx context.Context, email string) (*models.AccountDB, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetByID returns the account with id, or nil when there is none.
func (r *AccountReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountDB, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *AccountReadRepository) getOne(ctx context.Context, query string, arg any) (*models.AccountDB, error) {
	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		logQuery(query, []any{arg}, nil, nil)
		return nil, nil
	}
	logQuery(query, []any{arg}, account.ID, err)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Ping checks the database connection.
func (r *AccountReadRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type AccountWriteRepository struct {
	db *sqlx.DB
}

func NewAccountWriteRepository(db *sqlx.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

// Create inserts an inactive account holding the given activation code.
// A concurrent insert of the same email fails with ErrDuplicateEmail.
func (r *AccountWriteRepository) Create(
	ctx context.Context,
	email, passwordHash, code string,
	expiresAt time.Time,
) (*models.AccountDB, error) {
	const query = `
		INSERT INTO users (id, email, password_hash, is_active, activation_code,
		                   activation_code_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5, NOW(), NOW())
		RETURNING ` + accountColumns

	id := uuid.New()

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, id, email, passwordHash, code, expiresAt.UTC())
	logQuery(query, []any{id, email, expiresAt}, account.ID, err)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &account, nil
}

// SetActivated marks the account active and clears its code. It returns
// false unless an inactive account has id and still holds code.
func (r *AccountWriteRepository) SetActivated(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	const query = `
		UPDATE users
		SET is_active = TRUE,
		    activation_code = NULL,
		    activation_code_expires_at = NULL,
		    updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1 AND is_active = FALSE AND activation_code = $2
		RETURNING id
	`
	return r.updateOne(ctx, query, id, code)
}

// SetActivationCode replaces the code of an inactive account. It returns
// false when no inactive account has id.
func (r *AccountWriteRepository) SetActivationCode(
	ctx context.Context,
	id uuid.UUID,
	code string,
	expiresAt time.Time,
) (bool, error) {
	const query = `
		UPDATE users
		SET activation_code = $2,
		    activation_code_expires_at = $3,
		    updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1 AND is_active = FALSE
		RETURNING id
	`
	return r.updateOne(ctx, query, id, code, expiresAt.UTC())
}

func (r *AccountWriteRepository) updateOne(ctx context.Context, query string, id uuid.UUID, args ...any) (bool, error) {
	var updated uuid.UUID
	err := r.db.GetContext(ctx, &updated, query, append([]any{id}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		logQuery(query, []any{id}, false, nil)
		return false, nil
	}
	logQuery(query, []any{id}, err == nil, err)
	if err != nil {
		return false, err
	}
	return true, nil
}
