package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"bias-assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the catalog from a backing store (embedded seed, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

const catalogKey = "assessment:catalog"

// CatalogRepository caches the catalog in Redis as a single JSON document so every
// instance serves the same copy, and falls back to a loader on cache miss.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	if c, ok := r.cached(ctx); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if c, ok := r.cached(ctx); ok {
			return c, nil
		}

		c, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := c.Validate(); err != nil {
			return domain.Catalog{}, err
		}

		if data, err := json.Marshal(c); err == nil {
			// best-effort: a failed write only costs a reload next time
			_ = r.client.Set(ctx, catalogKey, data, r.ttlWithJitter()).Err()
		}
		return c, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(ctx context.Context) (domain.Catalog, bool) {
	data, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil || len(data) == 0 {
		return domain.Catalog{}, false
	}
	var c domain.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, false
	}
	return c, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
