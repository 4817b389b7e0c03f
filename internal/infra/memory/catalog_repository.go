package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"bias-assessment-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the catalog from a backing store (embedded seed, YAML file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

const catalogKey = "catalog"

// CatalogRepository caches the catalog with TTL to avoid repeated backing store hits.
// A zero TTL caches forever.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    *domain.Catalog
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	if c, ok := r.fresh(r.clock()); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		now := r.clock()
		if c, ok := r.fresh(now); ok {
			return c, nil
		}

		c, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := c.Validate(); err != nil {
			return domain.Catalog{}, err
		}

		r.mu.Lock()
		r.cached = &c
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) fresh(now time.Time) (domain.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached == nil {
		return domain.Catalog{}, false
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return domain.Catalog{}, false
	}
	return *r.cached, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations across instances
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader serves a fixed catalog (embedded seed, tests, demos).
type StaticCatalogLoader struct {
	catalog domain.Catalog
}

func NewStaticCatalogLoader(c domain.Catalog) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalog: c}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	return l.catalog, nil
}
