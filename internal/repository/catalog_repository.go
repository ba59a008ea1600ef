package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/clinicconnect/clinicconnect-api/internal/cache"
	"github.com/clinicconnect/clinicconnect-api/internal/models"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
)

// CatalogRepository handles catalog data access through the cache
type CatalogRepository struct {
	cache CatalogCache
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(c CatalogCache) *CatalogRepository {
	return &CatalogRepository{cache: c}
}

// IsReady reports whether the underlying cache finished its initial load
func (r *CatalogRepository) IsReady() bool {
	return r.cache.IsReady()
}

// Providers returns all providers
func (r *CatalogRepository) Providers(ctx context.Context) ([]*models.Provider, error) {
	return r.cache.Providers()
}

// ProviderByID returns a provider or a not-found error
func (r *CatalogRepository) ProviderByID(ctx context.Context, id int) (*models.Provider, error) {
	p, err := r.cache.ProviderByID(id)
	if err != nil {
		return nil, translate(err, "provider")
	}
	return p, nil
}

// Services returns all services
func (r *CatalogRepository) Services(ctx context.Context) ([]*models.Service, error) {
	return r.cache.Services()
}

// ServiceByID returns a service or a not-found error
func (r *CatalogRepository) ServiceByID(ctx context.Context, id int) (*models.Service, error) {
	s, err := r.cache.ServiceByID(id)
	if err != nil {
		return nil, translate(err, "service")
	}
	return s, nil
}

// Articles returns all articles
func (r *CatalogRepository) Articles(ctx context.Context) ([]*models.Article, error) {
	return r.cache.Articles()
}

// ArticleByKey resolves an article by slug, falling back to its numeric ID
func (r *CatalogRepository) ArticleByKey(ctx context.Context, key string) (*models.Article, error) {
	a, err := r.cache.ArticleBySlug(key)
	if err == nil {
		return a, nil
	}
	if id, convErr := strconv.Atoi(key); convErr == nil {
		if a, idErr := r.cache.ArticleByID(id); idErr == nil {
			return a, nil
		}
	}
	return nil, translate(err, "article")
}

// ArticleByID returns an article or a not-found error
func (r *CatalogRepository) ArticleByID(ctx context.Context, id int) (*models.Article, error) {
	a, err := r.cache.ArticleByID(id)
	if err != nil {
		return nil, translate(err, "article")
	}
	return a, nil
}

// Clinic returns the clinic contact details
func (r *CatalogRepository) Clinic(ctx context.Context) (*models.ClinicInfo, error) {
	return r.cache.Clinic()
}

func translate(err error, entity string) error {
	if errors.Is(err, cache.ErrNotFound) {
		return pkgerrors.NotFoundError(entity)
	}
	return err
}
