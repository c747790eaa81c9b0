package session

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/dmitrijs2005/medquery/internal/client/storage"
	"github.com/dmitrijs2005/medquery/internal/logging"
)

// userCache is the cached user record under storage.KeyCachedUser.
type userCache struct {
	storage *storage.Safe
	log     logging.Logger
}

// load returns the cached user. A record that does not decode, or decodes
// to a user with no email, is treated as absent and removed.
func (c *userCache) load(ctx context.Context) (*models.User, bool) {
	raw, ok := c.storage.Get(ctx, storage.KeyCachedUser)
	if !ok {
		return nil, false
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || u.Email == "" {
		c.log.Warn(ctx, "discarding unreadable cached user", "error", err)
		c.storage.Delete(ctx, storage.KeyCachedUser)
		return nil, false
	}
	u = u.Normalize()
	return &u, true
}

func (c *userCache) save(ctx context.Context, u *models.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		c.log.Warn(ctx, "encode cached user", "error", err)
		return
	}
	c.storage.Set(ctx, storage.KeyCachedUser, raw)
}

func (c *userCache) erase(ctx context.Context) {
	c.storage.Delete(ctx, storage.KeyCachedUser)
}
