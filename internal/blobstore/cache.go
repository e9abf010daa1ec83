package blobstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/codalotl/blobdiff/internal/logging"
	redis "github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "blobdiff:blob:"

// Cache stores blobs in Redis hashes keyed by identifier. Blob revisions are immutable, so entries are only ever written whole and expire after the TTL.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache returns a Cache on rdb. ttl <= 0 means entries never expire.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

// Get returns the cached blob and whether it was present.
func (c *Cache) Get(ctx context.Context, id string) (Blob, bool, error) {
	m, err := c.rdb.HGetAll(ctx, cacheKey(id)).Result()
	if err != nil {
		return Blob{}, false, fmt.Errorf("cache get %s: %w", id, err)
	}
	if len(m) == 0 {
		return Blob{}, false, nil
	}

	size, _ := strconv.ParseInt(m["size"], 10, 64)
	var uploaded time.Time
	if ns, err := strconv.ParseInt(m["upload_time"], 10, 64); err == nil && ns != 0 {
		uploaded = time.Unix(0, ns).UTC()
	}
	return Blob{
		ID:           id,
		Name:         m["name"],
		Type:         m["type"],
		Size:         size,
		UploadTime:   uploaded,
		LatestConfig: m["latest_config"],
		Content:      m["content"],
	}, true, nil
}

// Put stores b under b.ID.
func (c *Cache) Put(ctx context.Context, b Blob) error {
	var uploaded int64
	if !b.UploadTime.IsZero() {
		uploaded = b.UploadTime.UnixNano()
	}

	key := cacheKey(b.ID)
	tx := c.rdb.TxPipeline()
	tx.HSet(ctx, key,
		"name", b.Name,
		"type", b.Type,
		"size", strconv.FormatInt(b.Size, 10),
		"upload_time", strconv.FormatInt(uploaded, 10),
		"latest_config", b.LatestConfig,
		"content", b.Content,
	)
	if c.ttl > 0 {
		tx.Expire(ctx, key, c.ttl)
	}
	if _, err := tx.Exec(ctx); err != nil {
		return fmt.Errorf("cache put %s: %w", b.ID, err)
	}
	return nil
}

// CachedFetcher serves blobs from a Cache, falling back to another Fetcher and filling the cache on a miss. Cache errors are logged and never fail a fetch.
type CachedFetcher struct {
	Fetcher Fetcher
	Cache   *Cache
}

func (f CachedFetcher) Fetch(ctx context.Context, id string) (Blob, error) {
	logger := logging.FromContext(ctx)

	b, ok, err := f.Cache.Get(ctx, id)
	if err != nil {
		logger.Warn("blob cache unavailable", logging.FieldBlobID, id, logging.FieldError, err)
	} else if ok {
		logger.Debug("blob cache", logging.FieldBlobID, id, logging.FieldCacheHit, true)
		return b, nil
	}

	b, err = f.Fetcher.Fetch(ctx, id)
	if err != nil {
		return Blob{}, err
	}
	logger.Debug("blob cache", logging.FieldBlobID, id, logging.FieldCacheHit, false)

	entry := b
	entry.ID = id
	if err := f.Cache.Put(ctx, entry); err != nil {
		logger.Warn("blob cache write failed", logging.FieldBlobID, id, logging.FieldError, err)
	}
	return b, nil
}
