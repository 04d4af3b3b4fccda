package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voltboard/backend/services/dashboard-service/internal/models"
)

// SnapshotCache memoizes snapshot tables in redis for a fixed TTL so repeated
// dashboard loads do not hammer the store. Deltas are never cached; only the
// initial snapshot is.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache returns redis-backed cache.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) key(collection string) string {
	return fmt.Sprintf("dashboard:snapshot:%s", collection)
}

// Get returns the cached snapshot for the collection. The second return is
// false on a cache miss. A cached empty table is still a hit: "no data yet"
// is a valid snapshot.
func (c *SnapshotCache) Get(ctx context.Context, collection string) (models.Table, bool, error) {
	result, err := c.client.Get(ctx, c.key(collection)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var table models.Table
	if err := json.Unmarshal([]byte(result), &table); err != nil {
		return nil, false, err
	}
	return table, true, nil
}

// Save caches the snapshot under the collection key.
func (c *SnapshotCache) Save(ctx context.Context, collection string, table models.Table) error {
	if table == nil {
		table = models.Table{}
	}
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(collection), data, c.ttl).Err()
}
