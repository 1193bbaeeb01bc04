package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var accountRowColumns = []string{
	"id", "email", "password_hash", "is_active", "activation_code",
	"activation_code_expires_at", "created_at", "updated_at",
}

func TestAccountReadRepository_EmailExists(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		dbErr   error
		wantErr bool
	}{
		{name: "exists", exists: true},
		{name: "missing", exists: false},
		{name: "db error", dbErr: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAccountReadRepository(db)

			exp := mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
				WithArgs("a@x.com")
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))
			}

			got, err := repo.EmailExists(context.Background(), "a@x.com")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.exists, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountReadRepository_GetByEmail(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()
	exp := now.Add(time.Minute)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountReadRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows(accountRowColumns).
				AddRow(id.String(), "a@x.com", "hash", false, "0734", exp, now, now))

		account, err := repo.GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, id, account.ID)
		assert.Equal(t, "a@x.com", account.Email)
		assert.False(t, account.IsActive)
		require.NotNil(t, account.ActivationCode)
		assert.Equal(t, "0734", *account.ActivationCode)
		require.NotNil(t, account.ActivationCodeExpiresAt)
		assert.True(t, exp.Equal(*account.ActivationCodeExpiresAt))
	})

	t.Run("active account has no code", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountReadRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows(accountRowColumns).
				AddRow(id.String(), "a@x.com", "hash", true, nil, nil, now, now))

		account, err := repo.GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.True(t, account.IsActive)
		assert.Nil(t, account.ActivationCode)
		assert.Nil(t, account.ActivationCodeExpiresAt)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountReadRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("ghost@x.com").
			WillReturnRows(sqlmock.NewRows(accountRowColumns))

		account, err := repo.GetByEmail(context.Background(), "ghost@x.com")
		assert.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountReadRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("a@x.com").
			WillReturnError(errors.New("db down"))

		account, err := repo.GetByEmail(context.Background(), "a@x.com")
		assert.EqualError(t, err, "db down")
		assert.Nil(t, account)
	})
}

func TestAccountReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountReadRepository(db)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow(id.String(), "a@x.com", "hash", true, nil, nil, now, now))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	account, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, id, account.ID)

	account, err = repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, account)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountWriteRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	exp := now.Add(time.Minute)

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountWriteRepository(db)
		id := uuid.New()

		mock.ExpectQuery(`INSERT INTO users .+ RETURNING`).
			WithArgs(sqlmock.AnyArg(), "a@x.com", "hash", "0734", exp).
			WillReturnRows(sqlmock.NewRows(accountRowColumns).
				AddRow(id.String(), "a@x.com", "hash", false, "0734", exp, now, now))

		account, err := repo.Create(context.Background(), "a@x.com", "hash", "0734", exp)
		require.NoError(t, err)
		assert.Equal(t, id, account.ID)
		assert.Equal(t, "0734", *account.ActivationCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountWriteRepository(db)

		mock.ExpectQuery(`INSERT INTO users .+ RETURNING`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		account, err := repo.Create(context.Background(), "a@x.com", "hash", "0734", exp)
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Nil(t, account)
	})

	t.Run("other db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountWriteRepository(db)

		mock.ExpectQuery(`INSERT INTO users .+ RETURNING`).
			WillReturnError(errors.New("connection reset"))

		account, err := repo.Create(context.Background(), "a@x.com", "hash", "0734", exp)
		assert.EqualError(t, err, "connection reset")
		assert.NotErrorIs(t, err, ErrDuplicateEmail)
		assert.Nil(t, account)
	})
}

func TestAccountWriteRepository_SetActivated(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		dbErr   error
		want    bool
		wantErr bool
	}{
		{name: "updated", rows: sqlmock.NewRows([]string{"id"}).AddRow(id.String()), want: true},
		{name: "not found or code replaced", rows: sqlmock.NewRows([]string{"id"}), want: false},
		{name: "db error", dbErr: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAccountWriteRepository(db)

			exp := mock.ExpectQuery(`UPDATE users\s+SET is_active = TRUE.+WHERE id = \$1 AND is_active = FALSE AND activation_code = \$2`).
				WithArgs(id, "1234")
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			ok, err := repo.SetActivated(context.Background(), id, "1234")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountWriteRepository_SetActivationCode(t *testing.T) {
	id := uuid.New()
	exp := time.Now().UTC().Add(time.Minute)

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountWriteRepository(db)

		mock.ExpectQuery(`UPDATE users\s+SET activation_code = \$2.+WHERE id = \$1 AND is_active = FALSE`).
			WithArgs(id, "1234", exp).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

		ok, err := repo.SetActivationCode(context.Background(), id, "1234", exp)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing or active", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountWriteRepository(db)

		mock.ExpectQuery(`UPDATE users\s+SET activation_code = \$2`).
			WithArgs(id, "1234", exp).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		ok, err := repo.SetActivationCode(context.Background(), id, "1234", exp)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
