package services

import (
	"context"
	"strings"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	darkModeEnabled  = "Dark mode enabled"
	lightModeEnabled = "Light mode enabled"
)

// PreferenceService owns the dark mode flag of each client
type PreferenceService struct {
	store           repository.PreferenceStore
	defaultDarkMode bool
}

// NewPreferenceService creates a preference service
func NewPreferenceService(store repository.PreferenceStore, defaultDarkMode bool) *PreferenceService {
	return &PreferenceService{store: store, defaultDarkMode: defaultDarkMode}
}

// GetTheme resolves the flag: the stored value, else the client's color
// scheme hint ("dark" or "light"), else the configured default
func (s *PreferenceService) GetTheme(ctx context.Context, clientID, schemeHint string) (*models.ThemePreference, error) {
	dark, found, err := s.store.GetDarkMode(ctx, clientID)
	if err != nil {
		logger.LogError(err, "Failed to read theme preference", zap.String("client_id", clientID))
		return nil, err
	}
	if !found {
		dark = s.fallback(schemeHint)
	}
	return &models.ThemePreference{ClientID: clientID, DarkMode: dark}, nil
}

// ToggleTheme flips and stores the flag. The notice is also pushed to sink
// when one is given.
func (s *PreferenceService) ToggleTheme(ctx context.Context, clientID, schemeHint string, sink notify.Sink) (*models.ThemeToggleResponse, error) {
	current, err := s.GetTheme(ctx, clientID, schemeHint)
	if err != nil {
		return nil, err
	}

	next := !current.DarkMode
	if err := s.store.SetDarkMode(ctx, clientID, next); err != nil {
		logger.LogError(err, "Failed to store theme preference", zap.String("client_id", clientID))
		return nil, err
	}

	message, theme := lightModeEnabled, "light"
	if next {
		message, theme = darkModeEnabled, "dark"
	}
	metrics.ThemeToggles.WithLabelValues(theme).Inc()
	if sink != nil {
		sink.Notify(models.NotificationInfo, message)
	}

	return &models.ThemeToggleResponse{
		ThemePreference: models.ThemePreference{ClientID: clientID, DarkMode: next},
		Notification: models.Notification{
			Kind:    models.NotificationInfo,
			Message: message,
		},
	}, nil
}

func (s *PreferenceService) fallback(hint string) bool {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(hint), `"`)) {
	case "dark":
		return true
	case "light":
		return false
	default:
		return s.defaultDarkMode
	}
}
