package auth

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher is the credential store. bcrypt salts per call, so hashing the
// same password twice yields different stored values that both verify.
// Plaintext is never stored or logged.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher builds a Hasher whose bcrypt work runs behind a bounded
// worker pool of the given size. workers <= 0 means GOMAXPROCS.
func NewHasher(workers int) *Hasher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{
		cost: bcrypt.DefaultCost,
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

// Hash derives a salted one-way hash of the password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. A malformed
// stored hash is treated as "no match"; Verify never panics or errors.
func (h *Hasher) Verify(ctx context.Context, hashedPassword, password string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
