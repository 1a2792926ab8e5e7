// Package claims keeps cached session claims consistent with the store.
//
// A claims snapshot summarizes a user's identity, roles, and derived counters
// (article count) so the request path does not re-query the store. Whenever a
// permission strategy changes such a counter or a role assignment, it notifies
// a [Refresher]. The refresher distinguishes two cases: for the caller's own
// record it rebuilds the cached snapshot; for anybody else it cannot rewrite a
// session it does not own, so it rotates the target's security stamp and drops
// the stale cache entry, forcing re-authentication.
package claims

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/inkwell/inkwell/pkg/apperr"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/models"
)

// Refresher is notified after any operation that changes a user's article
// count or roles, with the updated user view.
type Refresher interface {
	Refresh(ctx context.Context, caller models.UserID, view models.UserView) error
}

// Discard is a Refresher that drops every notification. Used when no session
// cache is configured.
type Discard struct{}

func (Discard) Refresh(ctx context.Context, caller models.UserID, view models.UserView) error {
	return nil
}

// DefaultTTL bounds how long a claims snapshot may serve before the session
// layer revalidates against the store.
const DefaultTTL = 12 * time.Hour

// Cache is a redis-backed claims store. Snapshots are msgpack-encoded under
// "claims:<user id>".
type Cache struct {
	rdb      redis.UniversalClient
	provider identity.Provider
	ttl      time.Duration
	log      zerolog.Logger
}

// NewCache returns a Cache with the default TTL.
func NewCache(rdb redis.UniversalClient, provider identity.Provider, log zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, provider: provider, ttl: DefaultTTL, log: log}
}

// WithTTL overrides the snapshot lifetime.
func (c *Cache) WithTTL(ttl time.Duration) *Cache {
	c.ttl = ttl
	return c
}

func key(id models.UserID) string {
	return "claims:" + id.String()
}

// Refresh resynchronizes cached claims after a counter or role change. When
// the affected user is the caller, the snapshot is rebuilt in place;
// otherwise the target's security stamp is rotated and the cached entry
// invalidated.
func (c *Cache) Refresh(ctx context.Context, caller models.UserID, view models.UserView) error {
	if view.UserID == caller {
		return c.Put(ctx, view)
	}

	c.log.Info().
		Str("user_id", view.UserID.String()).
		Msg("claims: invalidating session of another user")
	if err := c.provider.UpdateSecurityStamp(ctx, view.UserID); err != nil && !apperr.IsNotFound(err) {
		return err
	}
	return c.Invalidate(ctx, view.UserID)
}

// Put stores the claims snapshot derived from the user view.
func (c *Cache) Put(ctx context.Context, view models.UserView) error {
	snapshot := models.Claims{
		UserID:       view.UserID.String(),
		Email:        view.Email,
		FullName:     view.FullName(),
		Roles:        view.Roles,
		ArticleCount: view.ArticleCount,
		RefreshedAt:  time.Now().UTC(),
	}
	payload, err := msgpack.Marshal(&snapshot)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key(view.UserID), payload, c.ttl).Err(); err != nil {
		return apperr.Unavailable("claims cache write failed", err)
	}
	c.log.Debug().
		Str("user_id", view.UserID.String()).
		Int("article_count", view.ArticleCount).
		Strs("roles", view.Roles).
		Msg("claims: snapshot refreshed")
	return nil
}

// Get loads the cached snapshot, returning nil when absent.
func (c *Cache) Get(ctx context.Context, id models.UserID) (*models.Claims, error) {
	payload, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperr.Unavailable("claims cache read failed", err)
	}
	var snapshot models.Claims
	if err := msgpack.Unmarshal(payload, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Invalidate removes the cached snapshot.
func (c *Cache) Invalidate(ctx context.Context, id models.UserID) error {
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		return apperr.Unavailable("claims cache delete failed", err)
	}
	return nil
}

var _ Refresher = (*Cache)(nil)
var _ Refresher = Discard{}
