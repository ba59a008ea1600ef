package services_test

import (
	"context"
	"sync"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockTriggerCaller is a mock implementation of TriggerCaller
type MockTriggerCaller struct {
	mock.Mock
}

func (m *MockTriggerCaller) CallAsync(ctx context.Context, name, triggerURL string, payload any) {
	m.Called(ctx, name, triggerURL, payload)
}

// MockPreferenceStore is a mock implementation of repository.PreferenceStore
type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) GetDarkMode(ctx context.Context, clientID string) (bool, bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockPreferenceStore) SetDarkMode(ctx context.Context, clientID string, darkMode bool) error {
	args := m.Called(ctx, clientID, darkMode)
	return args.Error(0)
}

// MockSubscriberStore is a mock implementation of repository.SubscriberStore
type MockSubscriberStore struct {
	mock.Mock
}

func (m *MockSubscriberStore) Add(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriberStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// recordingSink collects notices in arrival order
type recordingSink struct {
	mu    sync.Mutex
	items []models.Notification
}

func (s *recordingSink) Notify(kind models.NotificationKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, models.Notification{Kind: kind, Message: message})
}
