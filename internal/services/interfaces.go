package services

import (
	"context"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/notify"
)

// CatalogServiceInterface defines read access to the clinic content
type CatalogServiceInterface interface {
	IsReady() bool
	GetClinic(ctx context.Context) (*models.ClinicInfo, error)
	ListProviders(ctx context.Context) ([]*models.Provider, error)
	GetProvider(ctx context.Context, id int) (*models.Provider, error)
	ListServices(ctx context.Context) ([]*models.Service, error)
	GetService(ctx context.Context, id int) (*models.Service, error)
	ListArticles(ctx context.Context) ([]models.ArticleSummary, error)
	GetArticle(ctx context.Context, key string) (*models.Article, error)
	GenerateSlots(ctx context.Context, date string) (*SlotsResponse, error)
}

// VisitServiceInterface defines the page shell and booking wizard operations of a visit
type VisitServiceInterface interface {
	CreateVisit(ctx context.Context) (*VisitResponse, error)
	GetVisit(ctx context.Context, visitID string) (*VisitResponse, error)
	EndVisit(ctx context.Context, visitID string) error
	SwitchPanel(ctx context.Context, visitID, panel string) (*VisitResponse, error)
	Book(ctx context.Context, visitID string, req *models.BookRequest) (*VisitResponse, error)
	ToggleArticle(ctx context.Context, visitID string, articleID int) (*models.ArticleToggleResponse, error)
	DrainNotifications(ctx context.Context, visitID string) (*NotificationsResponse, error)
	Notifier(visitID string) (notify.Sink, error)

	GetWizard(ctx context.Context, visitID string) (*WizardResponse, error)
	SelectDate(ctx context.Context, visitID string, req *models.SelectDateRequest) (*WizardResponse, error)
	SelectSlot(ctx context.Context, visitID string, req *models.SelectSlotRequest) (*WizardResponse, error)
	SelectProvider(ctx context.Context, visitID string, req *models.SelectProviderRequest) (*WizardResponse, error)
	SelectService(ctx context.Context, visitID string, req *models.SelectServiceRequest) (*WizardResponse, error)
	UpdateContact(ctx context.Context, visitID string, req *models.UpdateContactRequest) (*WizardResponse, error)
	Next(ctx context.Context, visitID string) (*WizardResponse, error)
	Back(ctx context.Context, visitID string) (*WizardResponse, error)
	Submit(ctx context.Context, visitID string) (*WizardResponse, error)
	Reset(ctx context.Context, visitID string) (*WizardResponse, error)
}

// ContactServiceInterface defines the contact form operation
type ContactServiceInterface interface {
	SubmitContactMessage(ctx context.Context, req *models.ContactMessageRequest) (*models.ContactMessageResponse, error)
}

// NewsletterServiceInterface defines the newsletter signup operation
type NewsletterServiceInterface interface {
	Subscribe(ctx context.Context, req *models.NewsletterRequest) (*models.NewsletterResponse, error)
}

// PreferenceServiceInterface defines theme preference operations
type PreferenceServiceInterface interface {
	GetTheme(ctx context.Context, clientID, schemeHint string) (*models.ThemePreference, error)
	ToggleTheme(ctx context.Context, clientID, schemeHint string, sink notify.Sink) (*models.ThemeToggleResponse, error)
}

// Ensure implementations satisfy interfaces
var _ CatalogServiceInterface = (*CatalogService)(nil)
var _ VisitServiceInterface = (*VisitService)(nil)
var _ ContactServiceInterface = (*ContactService)(nil)
var _ NewsletterServiceInterface = (*NewsletterService)(nil)
var _ PreferenceServiceInterface = (*PreferenceService)(nil)
