// Package passwords hashes and verifies account passwords with bcrypt.
// Hashing is CPU bound, so every call takes a slot from a weighted semaphore
// sized to the worker budget; callers beyond the budget wait (or give up when
// their context is cancelled) instead of starving unrelated requests.
package passwords

import (
	"context"
	"crypto/rand"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher is a bcrypt based credential verifier.
type Hasher struct {
	cost  int
	sem   *semaphore.Weighted
	dummy string
}

// NewHasher creates a Hasher. A cost outside bcrypt's range falls back to
// bcrypt.DefaultCost and workers <= 0 means GOMAXPROCS.
func NewHasher(cost, workers int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to build dummy hash: %w", err)
	}

	return &Hasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(workers)),
		dummy: string(dummy),
	}, nil
}

// DummyHash returns a hash of a random secret at the hasher's cost.
// Verifying against it takes as long as verifying a real password, which
// hides whether an account exists.
func (h *Hasher) DummyHash() string {
	return h.dummy
}

// Hash returns a salted bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. A malformed hash is a
// mismatch, not an error; the error is only set when ctx ends before a
// worker slot frees up.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
