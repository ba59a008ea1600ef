package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	catalog  *models.Catalog
	failures int32
	calls    atomic.Int32
}

func (s *stubSource) Load(ctx context.Context) (*models.Catalog, error) {
	n := s.calls.Add(1)
	if n <= s.failures {
		return nil, errors.New("source unavailable")
	}
	return s.catalog, nil
}

func sampleCatalog() *models.Catalog {
	return &models.Catalog{
		Clinic: models.ClinicInfo{Name: "ClinicConnect", Phone: "(555) 123-4567"},
		Providers: []*models.Provider{
			{ID: 2, Name: "Dr. Michael Chen"},
			{ID: 1, Name: "Dr. Sarah Johnson"},
		},
		Services: []*models.Service{
			{ID: 1, Name: "General Check-up"},
		},
		Articles: []*models.Article{
			{ID: 1, Slug: "allergies", Title: "Allergies"},
		},
	}
}

func newReadyCache(t *testing.T, src CatalogDataSource) *CatalogCache {
	t.Helper()
	cc := NewCatalogCache(src, 60)
	cc.retryConfig.InitialDelay = time.Millisecond
	cc.retryConfig.MaxDelay = time.Millisecond
	require.NoError(t, cc.Initialize(context.Background()))
	t.Cleanup(cc.Close)
	return cc
}

func TestCatalogCache_NotReady(t *testing.T) {
	cc := NewCatalogCache(&stubSource{catalog: sampleCatalog()}, 60)

	assert.False(t, cc.IsReady())
	_, err := cc.Providers()
	assert.Error(t, err)
	_, err = cc.ProviderByID(1)
	assert.Error(t, err)
}

func TestCatalogCache_Lookups(t *testing.T) {
	cc := newReadyCache(t, &stubSource{catalog: sampleCatalog()})
	assert.True(t, cc.IsReady())

	providers, err := cc.Providers()
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, 2, providers[0].ID, "catalog order is preserved")

	p, err := cc.ProviderByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Sarah Johnson", p.Name)

	_, err = cc.ProviderByID(99)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := cc.ServiceByID(1)
	require.NoError(t, err)
	assert.Equal(t, "General Check-up", s.Name)

	a, err := cc.ArticleBySlug("allergies")
	require.NoError(t, err)
	assert.Equal(t, 1, a.ID)

	a, err = cc.ArticleByID(1)
	require.NoError(t, err)
	assert.Equal(t, "allergies", a.Slug)

	clinic, err := cc.Clinic()
	require.NoError(t, err)
	assert.Equal(t, "(555) 123-4567", clinic.Phone)

	meta, err := cc.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, 2, meta.ProviderCount)
	assert.Equal(t, 1, meta.ArticleCount)
}

func TestCatalogCache_InitializeRetries(t *testing.T) {
	src := &stubSource{catalog: sampleCatalog(), failures: 1}
	cc := newReadyCache(t, src)

	assert.True(t, cc.IsReady())
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCatalogCache_InitializeFails(t *testing.T) {
	src := &stubSource{catalog: sampleCatalog(), failures: 100}
	cc := NewCatalogCache(src, 60)
	cc.retryConfig.InitialDelay = time.Millisecond
	cc.retryConfig.MaxDelay = time.Millisecond

	err := cc.Initialize(context.Background())
	assert.Error(t, err)
	assert.False(t, cc.IsReady())
}

func TestCatalogCache_ForceRefreshReloads(t *testing.T) {
	src := &stubSource{catalog: sampleCatalog()}
	cc := newReadyCache(t, src)
	before := cc.LastRefresh()

	cc.ForceRefresh()

	assert.Eventually(t, func() bool {
		return src.calls.Load() == 2 && cc.LastRefresh().After(before)
	}, time.Second, 5*time.Millisecond)
}
