package services

import (
	"context"
	"strings"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
)

// SlotGenerator produces the time grid of a day
type SlotGenerator interface {
	Generate(day time.Time) []models.TimeSlot
	Location() *time.Location
}

// SlotsResponse is the stateless slot grid of one day
type SlotsResponse struct {
	Date  string            `json:"date"`
	Slots []models.TimeSlot `json:"slots"`
}

// CatalogService serves the static clinic content
type CatalogService struct {
	repo  *repository.CatalogRepository
	slots SlotGenerator
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo *repository.CatalogRepository, slots SlotGenerator) *CatalogService {
	return &CatalogService{repo: repo, slots: slots}
}

func (s *CatalogService) IsReady() bool {
	return s.repo.IsReady()
}

func (s *CatalogService) GetClinic(ctx context.Context) (*models.ClinicInfo, error) {
	return s.repo.Clinic(ctx)
}

func (s *CatalogService) ListProviders(ctx context.Context) ([]*models.Provider, error) {
	return s.repo.Providers(ctx)
}

func (s *CatalogService) GetProvider(ctx context.Context, id int) (*models.Provider, error) {
	return s.repo.ProviderByID(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*models.Service, error) {
	return s.repo.Services(ctx)
}

func (s *CatalogService) GetService(ctx context.Context, id int) (*models.Service, error) {
	return s.repo.ServiceByID(ctx, id)
}

// ListArticles returns the collapsed article list
func (s *CatalogService) ListArticles(ctx context.Context) ([]models.ArticleSummary, error) {
	articles, err := s.repo.Articles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Summary())
	}
	return out, nil
}

// GetArticle resolves an article by slug or numeric ID
func (s *CatalogService) GetArticle(ctx context.Context, key string) (*models.Article, error) {
	return s.repo.ArticleByKey(ctx, key)
}

// GenerateSlots builds a slot grid for a YYYY-MM-DD date in the clinic time zone
func (s *CatalogService) GenerateSlots(ctx context.Context, date string) (*SlotsResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), s.slots.Location())
	if err != nil {
		return nil, pkgerrors.InvalidInputError("date", "expected YYYY-MM-DD")
	}
	return &SlotsResponse{
		Date:  day.Format("2006-01-02"),
		Slots: s.slots.Generate(day),
	}, nil
}
