package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/clinicconnect/clinicconnect-api/pkg/retry"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// CatalogDataSource loads the full static catalog document
type CatalogDataSource interface {
	Load(ctx context.Context) (*models.Catalog, error)
}

const (
	providerKeyPrefix    = "provider:id:"
	serviceKeyPrefix     = "service:id:"
	articleKeyPrefix     = "article:slug:"
	articleIDKeyPrefix   = "article:id:"
	allProvidersKey      = "provider:all"
	allServicesKey       = "service:all"
	allArticlesKey       = "article:all"
	clinicKey            = "clinic"
	metadataKey          = "catalog:metadata"
	cacheCheckPeriod     = 10 * time.Second
	defaultCatalogTTLSec = 600
)

// CacheMetadata stores cache-wide information
type CacheMetadata struct {
	LastRefreshTime time.Time `json:"lastRefresh"`
	ProviderCount   int       `json:"providers"`
	ServiceCount    int       `json:"services"`
	ArticleCount    int       `json:"articles"`
	Version         int64     `json:"version"`
}

// CatalogCache keeps the static catalog in memory with per-entity keys.
// Entity entries never expire; the list keys carry the TTL and a background
// loop reloads the source when it elapses.
type CatalogCache struct {
	cache       *gocache.Cache
	dataSource  CatalogDataSource
	retryConfig retry.Config
	mu          sync.RWMutex
	refreshing  bool
	ready       bool
	ttl         time.Duration
	lastRefresh time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewCatalogCache creates a new catalog cache
func NewCatalogCache(dataSource CatalogDataSource, ttlSeconds int) *CatalogCache {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultCatalogTTLSec
	}

	return &CatalogCache{
		cache:       gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource:  dataSource,
		retryConfig: retry.CatalogConfig(),
		ttl:         time.Duration(ttlSeconds) * time.Second,
		stop:        make(chan struct{}),
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready)
// Should be called during application startup before accepting requests
func (cc *CatalogCache) Initialize(ctx context.Context) error {
	logger.Info("Initializing catalog cache...")
	startTime := time.Now()

	catalog, err := retry.DoWithResult(ctx, cc.retryConfig, "catalog_load", func() (*models.Catalog, error) {
		return cc.dataSource.Load(ctx)
	})
	if err != nil {
		logger.Error("Failed to initialize catalog cache", zap.Error(err))
		return err
	}

	cc.populateCache(catalog)

	cc.mu.Lock()
	cc.ready = true
	cc.lastRefresh = time.Now()
	cc.mu.Unlock()

	logger.Info("Catalog cache initialized successfully",
		zap.Duration("duration", time.Since(startTime)))

	go cc.schedulePeriodicRefresh()

	return nil
}

// Close stops the background refresh loop
func (cc *CatalogCache) Close() {
	cc.stopOnce.Do(func() { close(cc.stop) })
}

// IsReady returns true if the cache has been successfully initialized
func (cc *CatalogCache) IsReady() bool {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.ready
}

// ProviderByID returns one provider
func (cc *CatalogCache) ProviderByID(id int) (*models.Provider, error) {
	return lookup[*models.Provider](cc, providerKeyPrefix+strconv.Itoa(id), "provider_by_id")
}

// ServiceByID returns one service
func (cc *CatalogCache) ServiceByID(id int) (*models.Service, error) {
	return lookup[*models.Service](cc, serviceKeyPrefix+strconv.Itoa(id), "service_by_id")
}

// ArticleBySlug returns one article
func (cc *CatalogCache) ArticleBySlug(slug string) (*models.Article, error) {
	return lookup[*models.Article](cc, articleKeyPrefix+slug, "article_by_slug")
}

// ArticleByID returns one article
func (cc *CatalogCache) ArticleByID(id int) (*models.Article, error) {
	return lookup[*models.Article](cc, articleIDKeyPrefix+strconv.Itoa(id), "article_by_id")
}

// Providers returns all providers in catalog order
func (cc *CatalogCache) Providers() ([]*models.Provider, error) {
	ids, err := cc.list(allProvidersKey, "provider_all")
	if err != nil {
		return nil, err
	}
	out := make([]*models.Provider, 0, len(ids))
	for _, id := range ids {
		if p, err := cc.ProviderByID(id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// Services returns all services in catalog order
func (cc *CatalogCache) Services() ([]*models.Service, error) {
	ids, err := cc.list(allServicesKey, "service_all")
	if err != nil {
		return nil, err
	}
	out := make([]*models.Service, 0, len(ids))
	for _, id := range ids {
		if s, err := cc.ServiceByID(id); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// Articles returns all articles in catalog order
func (cc *CatalogCache) Articles() ([]*models.Article, error) {
	ids, err := cc.list(allArticlesKey, "article_all")
	if err != nil {
		return nil, err
	}
	out := make([]*models.Article, 0, len(ids))
	for _, id := range ids {
		if a, err := cc.ArticleByID(id); err == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

// Clinic returns the clinic contact details
func (cc *CatalogCache) Clinic() (*models.ClinicInfo, error) {
	return lookup[*models.ClinicInfo](cc, clinicKey, "clinic")
}

// ForceRefresh triggers a background refresh and returns immediately
func (cc *CatalogCache) ForceRefresh() {
	logger.Info("Force refresh requested, triggering background refresh")
	go func() {
		if err := cc.refreshInBackground(); err != nil {
			logger.Error("Background refresh failed", zap.Error(err))
		}
	}()
}

// GetMetadata returns cache metadata
func (cc *CatalogCache) GetMetadata() (*CacheMetadata, error) {
	data, found := cc.cache.Get(metadataKey)
	if !found {
		return nil, fmt.Errorf("metadata not found")
	}

	metadata, ok := data.(*CacheMetadata)
	if !ok {
		return nil, fmt.Errorf("invalid metadata type")
	}

	return metadata, nil
}

// LastRefresh returns the time of the last successful load
func (cc *CatalogCache) LastRefresh() time.Time {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.lastRefresh
}

// lookup is a non-blocking single-key read; misses never reach the data source
func lookup[T any](cc *CatalogCache, key, metric string) (T, error) {
	var zero T
	if !cc.IsReady() {
		return zero, fmt.Errorf("cache not initialized")
	}

	data, found := cc.cache.Get(key)
	if !found {
		metrics.CacheMisses.WithLabelValues(metric).Inc()
		logger.Debug("Catalog entry not found in cache", zap.String("key", key))
		return zero, ErrNotFound
	}

	value, ok := data.(T)
	if !ok {
		logger.Error("Invalid cache data type", zap.String("key", key))
		cc.cache.Delete(key)
		return zero, fmt.Errorf("invalid cache data")
	}

	metrics.CacheHits.WithLabelValues(metric).Inc()
	return value, nil
}

func (cc *CatalogCache) list(key, metric string) ([]int, error) {
	if !cc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	data, found := cc.cache.Get(key)
	if !found {
		// List expired ahead of the refresh loop; serve empty rather than block
		metrics.CacheMisses.WithLabelValues(metric).Inc()
		logger.Warn("Catalog list not in cache (expired), returning empty", zap.String("key", key))
		return []int{}, nil
	}

	ids, ok := data.([]int)
	if !ok {
		logger.Error("Invalid cache data type for catalog list", zap.String("key", key))
		return []int{}, nil
	}

	metrics.CacheHits.WithLabelValues(metric).Inc()
	return ids, nil
}

// schedulePeriodicRefresh runs background refresh at TTL intervals
func (cc *CatalogCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(cc.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-cc.stop:
			return
		case <-ticker.C:
			logger.Info("Starting scheduled catalog refresh")
			if err := cc.refreshInBackground(); err != nil {
				logger.Error("Scheduled catalog refresh failed", zap.Error(err))
			}
		}
	}
}

// refreshInBackground performs non-blocking background refresh
func (cc *CatalogCache) refreshInBackground() error {
	cc.mu.Lock()
	if cc.refreshing {
		cc.mu.Unlock()
		logger.Debug("Refresh already in progress, skipping")
		return nil
	}
	cc.refreshing = true
	cc.mu.Unlock()

	defer func() {
		cc.mu.Lock()
		cc.refreshing = false
		cc.mu.Unlock()
	}()

	startTime := time.Now()

	catalog, err := cc.dataSource.Load(context.Background())
	if err != nil {
		logger.Error("Failed to load catalog in background refresh", zap.Error(err))
		return err
	}

	cc.populateCache(catalog)

	cc.mu.Lock()
	cc.lastRefresh = time.Now()
	cc.mu.Unlock()

	logger.Info("Background refresh completed", zap.Duration("duration", time.Since(startTime)))
	return nil
}

// populateCache stores every entity under its own key and the ordered ID
// lists under TTL-bound keys
func (cc *CatalogCache) populateCache(c *models.Catalog) {
	providerIDs := make([]int, 0, len(c.Providers))
	for _, p := range c.Providers {
		cc.cache.Set(providerKeyPrefix+strconv.Itoa(p.ID), p, gocache.NoExpiration)
		providerIDs = append(providerIDs, p.ID)
	}

	serviceIDs := make([]int, 0, len(c.Services))
	for _, s := range c.Services {
		cc.cache.Set(serviceKeyPrefix+strconv.Itoa(s.ID), s, gocache.NoExpiration)
		serviceIDs = append(serviceIDs, s.ID)
	}

	articleIDs := make([]int, 0, len(c.Articles))
	for _, a := range c.Articles {
		cc.cache.Set(articleKeyPrefix+a.Slug, a, gocache.NoExpiration)
		cc.cache.Set(articleIDKeyPrefix+strconv.Itoa(a.ID), a, gocache.NoExpiration)
		articleIDs = append(articleIDs, a.ID)
	}

	clinic := c.Clinic
	cc.cache.Set(clinicKey, &clinic, gocache.NoExpiration)

	cc.cache.Set(allProvidersKey, providerIDs, cc.ttl)
	cc.cache.Set(allServicesKey, serviceIDs, cc.ttl)
	cc.cache.Set(allArticlesKey, articleIDs, cc.ttl)

	cc.cache.Set(metadataKey, &CacheMetadata{
		LastRefreshTime: time.Now(),
		ProviderCount:   len(providerIDs),
		ServiceCount:    len(serviceIDs),
		ArticleCount:    len(articleIDs),
		Version:         time.Now().Unix(),
	}, gocache.NoExpiration)

	metrics.CacheSize.WithLabelValues("providers").Set(float64(len(providerIDs)))
	metrics.CacheSize.WithLabelValues("services").Set(float64(len(serviceIDs)))
	metrics.CacheSize.WithLabelValues("articles").Set(float64(len(articleIDs)))

	logger.Info("Catalog cache populated successfully",
		zap.Int("providers", len(providerIDs)),
		zap.Int("services", len(serviceIDs)),
		zap.Int("articles", len(articleIDs)))
}
