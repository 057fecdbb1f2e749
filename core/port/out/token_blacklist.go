package out

import (
	"context"
	"time"
)

// TokenBlacklist tracks revoked session token ids until they expire on their
// own. Like the role cache, it must be safe to skip on backend errors.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}
