package services

import (
	"context"
	"strings"
	"time"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/clinicconnect/clinicconnect-api/pkg/tracing"
	"github.com/clinicconnect/clinicconnect-api/pkg/trigger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const contactMessageSent = "Message sent successfully! We will get back to you soon."

// TriggerCaller delivers domain events to webhooks
type TriggerCaller interface {
	CallAsync(ctx context.Context, name, triggerURL string, payload any)
}

// ContactMessagePayload is sent to the contact-message webhook
type ContactMessagePayload struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// ContactService handles the "send us a message" form of the contact panel
type ContactService struct {
	config  *config.Config
	trigger TriggerCaller
}

// NewContactService creates a new contact service instance
func NewContactService(cfg *config.Config, caller TriggerCaller) *ContactService {
	return &ContactService{config: cfg, trigger: caller}
}

func (s *ContactService) SubmitContactMessage(ctx context.Context, req *models.ContactMessageRequest) (*models.ContactMessageResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.SubmitContactMessage",
		attribute.Int("message.length", len(req.Message)))
	defer span.End()

	payload := ContactMessagePayload{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
		ReceivedAt: time.Now().UTC(),
	}

	if payload.Name == "" || payload.Subject == "" || payload.Message == "" {
		metrics.ContactMessages.WithLabelValues("invalid").Inc()
		return &models.ContactMessageResponse{
			Success: false,
			Error:   "Please fill in all fields",
		}, nil
	}

	s.trigger.CallAsync(ctx, trigger.ContactMessage, s.config.EventTriggers.ContactMessageTriggerURL, payload)

	metrics.ContactMessages.WithLabelValues("success").Inc()
	logger.Info("Contact message received",
		zap.String("subject", payload.Subject),
		zap.Int("length", len(payload.Message)))

	return &models.ContactMessageResponse{
		Success: true,
		Message: contactMessageSent,
	}, nil
}
