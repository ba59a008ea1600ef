package services_test

import (
	"context"
	"testing"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/clinicconnect/clinicconnect-api/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_SubmitContactMessage(t *testing.T) {
	caller := new(MockTriggerCaller)
	cfg := &config.Config{
		EventTriggers: config.EventTriggersConfig{
			ContactMessageTriggerURL: "http://hooks.local/contact",
		},
	}
	service := services.NewContactService(cfg, caller)
	ctx := context.Background()

	caller.On("CallAsync", mock.Anything, trigger.ContactMessage, "http://hooks.local/contact",
		mock.MatchedBy(func(p services.ContactMessagePayload) bool {
			return p.Name == "Jane Smith" && p.Subject == "Parking" && p.Email == "jane@example.com"
		})).Once()

	resp, err := service.SubmitContactMessage(ctx, &models.ContactMessageRequest{
		Name:    " Jane Smith ",
		Email:   "jane@example.com",
		Subject: "Parking",
		Message: "Is there parking near the clinic?",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Message sent successfully! We will get back to you soon.", resp.Message)
	caller.AssertExpectations(t)
}

func TestContactService_SubmitContactMessage_BlankFields(t *testing.T) {
	caller := new(MockTriggerCaller)
	service := services.NewContactService(&config.Config{}, caller)

	resp, err := service.SubmitContactMessage(context.Background(), &models.ContactMessageRequest{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "  ",
		Message: "Hello",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Please fill in all fields", resp.Error)
	caller.AssertNotCalled(t, "CallAsync", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
