package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Access tokens are stateless JWTs, so logout cannot invalidate them by
// itself; instead the logout handler blacklists the presented token for the
// remainder of its lifetime and the auth middleware checks the list before
// verifying. The client is package-level because the middleware has no
// construction-time hook for it.
var blacklistClient *redis.Client

// SetBlacklistClient configures the Redis client used for the blacklist.
// Passing nil disables blacklisting (tokens then stay valid until expiry).
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

// BlacklistAccessToken marks the token revoked until ttl elapses. A no-op
// returning nil when no Redis client is configured.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if blacklistClient == nil {
		return nil
	}
	return blacklistClient.Set(ctx, "blacklist:access:"+token, "1", ttl).Err()
}

// IsAccessTokenBlacklisted reports whether the token was revoked. Returns
// (false, nil) when no Redis client is configured.
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	exists, err := blacklistClient.Exists(ctx, "blacklist:access:"+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
