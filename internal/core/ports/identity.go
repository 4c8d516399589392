package ports

import (
	"context"

	"github.com/prepinter/prepinter/internal/core/domain"
)

// IdentityVerifier validates a bearer credential and resolves who presented it.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
