package services

import (
	"context"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
)

const newsletterSubscribed = "Subscribed to health tips newsletter!"

// NewsletterService handles health tips subscriptions
type NewsletterService struct {
	store repository.SubscriberStore
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(store repository.SubscriberStore) *NewsletterService {
	return &NewsletterService{store: store}
}

// Subscribe is idempotent: a repeated address succeeds without a second entry
func (s *NewsletterService) Subscribe(ctx context.Context, req *models.NewsletterRequest) (*models.NewsletterResponse, error) {
	added, err := s.store.Add(ctx, req.Email)
	if err != nil {
		metrics.NewsletterSubscriptions.WithLabelValues("error").Inc()
		logger.LogError(err, "Failed to store newsletter subscriber")
		return nil, err
	}

	status := "subscribed"
	if !added {
		status = "duplicate"
	}
	metrics.NewsletterSubscriptions.WithLabelValues(status).Inc()

	if added {
		if count, err := s.store.Count(ctx); err == nil {
			metrics.NewsletterSubscribers.Set(float64(count))
		}
	}

	return &models.NewsletterResponse{
		Success:           true,
		Message:           newsletterSubscribed,
		AlreadySubscribed: !added,
	}, nil
}
