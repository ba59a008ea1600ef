package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/cache"
	"github.com/clinicconnect/clinicconnect-api/internal/catalog"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	"github.com/clinicconnect/clinicconnect-api/internal/wizard"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// newCatalogRepository serves the embedded clinic catalog
func newCatalogRepository(t *testing.T) *repository.CatalogRepository {
	t.Helper()

	c := cache.NewCatalogCache(catalog.NewSource(""), 600)
	require.NoError(t, c.Initialize(context.Background()))
	t.Cleanup(c.Close)
	return repository.NewCatalogRepository(c)
}

// manualScheduler fires submission callbacks on demand
type manualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) wizard.Stopper {
	t := &manualTimer{f: f}
	s.pending = append(s.pending, t)
	return t
}

// FireAll runs every callback that was not stopped
func (s *manualScheduler) FireAll() {
	pending := s.pending
	s.pending = nil
	for _, t := range pending {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}
