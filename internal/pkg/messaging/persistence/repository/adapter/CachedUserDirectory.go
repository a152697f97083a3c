package adapter

import (
	"context"
	"encoding/json"
	"time"

	cacheport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/port"
	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"
)

const profileCacheTTL = 5 * time.Minute

// CachedUserDirectory fronts a UserDirectory with the cache port. Profiles are
// looked up once per reconciled message in each direction, so even a short TTL
// takes most of that load off the users table. Cache failures fall through to
// the inner directory and are never surfaced.
type CachedUserDirectory struct {
	inner repository.UserDirectory
	cache cacheport.Cache
}

func NewCachedUserDirectory(inner repository.UserDirectory, cache cacheport.Cache) *CachedUserDirectory {
	return &CachedUserDirectory{inner: inner, cache: cache}
}

var _ repository.UserDirectory = (*CachedUserDirectory)(nil)

func (d *CachedUserDirectory) GetProfile(ctx context.Context, userID string) (messaging.Profile, error) {
	key := "profile:" + userID

	if raw, err := d.cache.Get(ctx, key); err == nil {
		var p messaging.Profile
		if json.Unmarshal([]byte(raw), &p) == nil {
			return p, nil
		}
	}

	p, err := d.inner.GetProfile(ctx, userID)
	if err != nil {
		return messaging.Profile{}, err
	}

	if raw, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, key, string(raw), profileCacheTTL)
	}
	return p, nil
}
