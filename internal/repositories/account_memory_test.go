package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountMemoryRepository_Lifecycle(t *testing.T) {
	repo := NewAccountMemoryRepository()
	ctx := context.Background()
	exp := time.Now().Add(time.Minute)

	exists, err := repo.EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, exists)

	created, err := repo.Create(ctx, "a@x.com", "hash", "0007", exp)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.IsActive)
	assert.Equal(t, "0007", *created.ActivationCode)
	assert.True(t, created.ActivationCodeExpiresAt.Equal(exp))
	assert.Equal(t, time.UTC, created.ActivationCodeExpiresAt.Location())

	exists, err = repo.EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Create(ctx, "a@x.com", "hash2", "1111", exp)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	ok, err := repo.SetActivationCode(ctx, created.ID, "4321", exp.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "4321", *byEmail.ActivationCode)
	assert.False(t, byEmail.UpdatedAt.Before(byEmail.CreatedAt))

	// The replaced code no longer activates.
	ok, err = repo.SetActivated(ctx, created.ID, "0007")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetActivated(ctx, created.ID, "4321")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetActivated(ctx, created.ID, "4321")
	require.NoError(t, err)
	assert.False(t, ok)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsActive)
	assert.Nil(t, byID.ActivationCode)
	assert.Nil(t, byID.ActivationCodeExpiresAt)

	// Active accounts never get a code back.
	ok, err = repo.SetActivationCode(ctx, created.ID, "9999", exp)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccountMemoryRepository_Missing(t *testing.T) {
	repo := NewAccountMemoryRepository()
	ctx := context.Background()
	id := uuid.New()

	account, err := repo.GetByEmail(ctx, "ghost@x.com")
	assert.NoError(t, err)
	assert.Nil(t, account)

	account, err = repo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, account)

	ok, err := repo.SetActivated(ctx, id, "1234")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetActivationCode(ctx, id, "1234", time.Now())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAccountMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, "a@x.com", "hash", "1234", time.Now().Add(time.Minute))
	require.NoError(t, err)

	*created.ActivationCode = "0000"
	created.IsActive = true

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234", *stored.ActivationCode)
	assert.False(t, stored.IsActive)
}

func TestAccountMemoryRepository_UpdatedAtNeverMovesBack(t *testing.T) {
	repo := NewAccountMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	created, err := repo.Create(ctx, "a@x.com", "hash", "1234", base.Add(time.Minute))
	require.NoError(t, err)

	repo.now = func() time.Time { return base.Add(-time.Hour) }
	ok, err := repo.SetActivated(ctx, created.ID, "1234")
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, base, stored.UpdatedAt)
}

func TestAccountMemoryRepository_ConcurrentCreate(t *testing.T) {
	repo := NewAccountMemoryRepository()
	ctx := context.Background()

	const n = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		dup     int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "race@x.com", "hash", "1234", time.Now().Add(time.Minute))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
			} else if err == ErrDuplicateEmail {
				dup++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, n-1, dup)
}

func TestAccountMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewAccountMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, "a@x.com", "hash", "1234", time.Now())
	assert.ErrorIs(t, err, context.Canceled)

	exists, err := repo.EmailExists(context.Background(), "a@x.com")
	assert.NoError(t, err)
	assert.False(t, exists, "a cancelled create must not leave a partial record")
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}
