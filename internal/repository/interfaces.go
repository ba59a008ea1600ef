package repository

import (
	"context"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
)

// CatalogCache is the read side of the in-memory catalog
type CatalogCache interface {
	IsReady() bool
	Providers() ([]*models.Provider, error)
	ProviderByID(id int) (*models.Provider, error)
	Services() ([]*models.Service, error)
	ServiceByID(id int) (*models.Service, error)
	Articles() ([]*models.Article, error)
	ArticleBySlug(slug string) (*models.Article, error)
	ArticleByID(id int) (*models.Article, error)
	Clinic() (*models.ClinicInfo, error)
}

// PreferenceStore persists the per-client dark mode flag
type PreferenceStore interface {
	// GetDarkMode returns the stored flag and whether one exists
	GetDarkMode(ctx context.Context, clientID string) (darkMode bool, found bool, err error)

	// SetDarkMode stores the flag
	SetDarkMode(ctx context.Context, clientID string, darkMode bool) error
}

// SubscriberStore keeps newsletter subscribers
type SubscriberStore interface {
	// Add records email and reports whether it was new
	Add(ctx context.Context, email string) (added bool, err error)

	// Count returns the number of subscribers
	Count(ctx context.Context) (int, error)
}
