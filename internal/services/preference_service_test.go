package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_GetThemeFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		hint        string
		defaultDark bool
		want        bool
	}{
		{name: "no hint uses default light", want: false},
		{name: "no hint uses default dark", defaultDark: true, want: true},
		{name: "dark hint", hint: "dark", want: true},
		{name: "quoted dark hint", hint: `"dark"`, want: true},
		{name: "light hint beats dark default", hint: "light", defaultDark: true, want: false},
		{name: "garbage hint uses default", hint: "sepia", defaultDark: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := services.NewPreferenceService(repository.NewMemoryPreferenceStore(), tt.defaultDark)

			pref, err := service.GetTheme(context.Background(), "client-1", tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pref.DarkMode)
			assert.Equal(t, "client-1", pref.ClientID)
		})
	}
}

func TestPreferenceService_ToggleTheme(t *testing.T) {
	service := services.NewPreferenceService(repository.NewMemoryPreferenceStore(), false)
	ctx := context.Background()
	sink := &recordingSink{}

	resp, err := service.ToggleTheme(ctx, "client-1", "", sink)
	require.NoError(t, err)
	assert.True(t, resp.DarkMode)
	assert.Equal(t, "Dark mode enabled", resp.Notification.Message)
	assert.Equal(t, models.NotificationInfo, resp.Notification.Kind)

	// stored value wins over the hint from now on
	pref, err := service.GetTheme(ctx, "client-1", "light")
	require.NoError(t, err)
	assert.True(t, pref.DarkMode)

	resp, err = service.ToggleTheme(ctx, "client-1", "", nil)
	require.NoError(t, err)
	assert.False(t, resp.DarkMode)
	assert.Equal(t, "Light mode enabled", resp.Notification.Message)

	require.Len(t, sink.items, 1)
	assert.Equal(t, "Dark mode enabled", sink.items[0].Message)
}

func TestPreferenceService_StoreErrors(t *testing.T) {
	store := new(MockPreferenceStore)
	service := services.NewPreferenceService(store, false)
	ctx := context.Background()

	store.On("GetDarkMode", ctx, "client-1").Return(false, false, nil).Once()
	store.On("SetDarkMode", ctx, "client-1", true).Return(errors.New("redis down")).Once()

	resp, err := service.ToggleTheme(ctx, "client-1", "", nil)
	assert.Error(t, err)
	assert.Nil(t, resp)

	store.On("GetDarkMode", ctx, "client-2").Return(false, false, errors.New("redis down")).Once()
	_, err = service.GetTheme(ctx, "client-2", "")
	assert.Error(t, err)

	store.AssertExpectations(t)
}
