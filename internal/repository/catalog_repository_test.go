package repository

import (
	"context"
	"testing"

	"github.com/clinicconnect/clinicconnect-api/internal/cache"
	"github.com/clinicconnect/clinicconnect-api/internal/catalog"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRepository(t *testing.T) *CatalogRepository {
	t.Helper()
	c := cache.NewCatalogCache(catalog.NewSource(""), 600)
	require.NoError(t, c.Initialize(context.Background()))
	t.Cleanup(c.Close)
	return NewCatalogRepository(c)
}

func TestCatalogRepository_Lookups(t *testing.T) {
	repo := newCatalogRepository(t)
	ctx := context.Background()

	assert.True(t, repo.IsReady())

	p, err := repo.ProviderByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Michael Chen", p.Name)

	_, err = repo.ProviderByID(ctx, 42)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrNotFound))

	s, err := repo.ServiceByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", s.Name)

	_, err = repo.ServiceByID(ctx, 42)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrNotFound))

	services, err := repo.Services(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 5)

	clinic, err := repo.Clinic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "info@clinicconnect.com", clinic.Email)
}

func TestCatalogRepository_ArticleByKey(t *testing.T) {
	repo := newCatalogRepository(t)
	ctx := context.Background()

	bySlug, err := repo.ArticleByKey(ctx, "understanding-blood-pressure-readings")
	require.NoError(t, err)
	assert.Equal(t, 2, bySlug.ID)

	byID, err := repo.ArticleByKey(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "5 Tips for Managing Seasonal Allergies", byID.Title)

	_, err = repo.ArticleByKey(ctx, "missing")
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrNotFound))
}
