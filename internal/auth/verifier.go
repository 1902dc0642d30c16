package auth

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned for any verification failure, hiding
// whether the username exists or the password mismatched.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Verifier checks a username/password pair against a user directory and
// returns the canonical identity on success. Implementations may involve
// network I/O; callers bound them with BoundVerifier.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (*Identity, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, username, password string) (*Identity, error)

func (f VerifierFunc) Verify(ctx context.Context, username, password string) (*Identity, error) {
	return f(ctx, username, password)
}

// BoundVerifier wraps a Verifier with a per-call timeout. An expired
// deadline surfaces as ErrInvalidCredentials: ambiguous verifier state
// never grants access.
func BoundVerifier(v Verifier, timeout time.Duration) Verifier {
	if timeout <= 0 {
		return v
	}
	return VerifierFunc(func(ctx context.Context, username, password string) (*Identity, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		id, err := v.Verify(ctx, username, password)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		return id, nil
	})
}
