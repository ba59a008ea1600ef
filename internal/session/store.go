// Package session keeps the live visit sessions of the service in memory.
package session

import (
	"fmt"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/shell"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultIdleTTL = 30 * time.Minute
	cleanupPeriod  = time.Minute
)

// ErrNotFound is returned for unknown or expired visits
var ErrNotFound = fmt.Errorf("visit %w", pkgerrors.ErrNotFound)

// Visit is one visitor's page shell and notification queue
type Visit struct {
	ID            string
	Shell         *shell.Shell
	Notifications *notify.Queue
	CreatedAt     time.Time
}

// Factory builds the shell of a new visit around its notification queue
type Factory func(queue *notify.Queue) *shell.Shell

// Store holds visits with a sliding idle TTL. Expired or deleted visits are
// closed, which cancels any pending booking submission.
type Store struct {
	cache            *gocache.Cache
	factory          Factory
	ttl              time.Duration
	maxNotifications int
}

// NewStore creates a visit store
func NewStore(factory Factory, ttl time.Duration, maxNotifications int) *Store {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}

	c := gocache.New(ttl, cleanupPeriod)
	c.OnEvicted(func(id string, v interface{}) {
		visit, ok := v.(*Visit)
		if !ok {
			return
		}
		visit.Shell.Close()
		metrics.ActiveVisits.Dec()
		logger.Debug("Visit closed", zap.String("visit_id", id))
	})

	return &Store{cache: c, factory: factory, ttl: ttl, maxNotifications: maxNotifications}
}

// Create starts a new visit
func (s *Store) Create() *Visit {
	queue := notify.NewQueue(s.maxNotifications)
	visit := &Visit{
		ID:            uuid.NewString(),
		Shell:         s.factory(queue),
		Notifications: queue,
		CreatedAt:     time.Now(),
	}

	s.cache.SetDefault(visit.ID, visit)
	metrics.ActiveVisits.Inc()
	logger.Debug("Visit created", zap.String("visit_id", visit.ID))
	return visit
}

// Get returns a visit and extends its idle TTL
func (s *Store) Get(id string) (*Visit, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	visit, ok := v.(*Visit)
	if !ok {
		s.cache.Delete(id)
		return nil, ErrNotFound
	}

	if err := s.touch(id, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// touch slides the idle TTL. Replace fails once the entry is gone, so a visit
// evicted since the lookup is never stored again.
func (s *Store) touch(id string, visit *Visit) error {
	if err := s.cache.Replace(id, visit, gocache.DefaultExpiration); err != nil {
		return ErrNotFound
	}
	return nil
}

// Delete ends a visit
func (s *Store) Delete(id string) error {
	if _, found := s.cache.Get(id); !found {
		return ErrNotFound
	}
	s.cache.Delete(id)
	return nil
}

// Count returns the number of live visits
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// Close ends every visit
func (s *Store) Close() {
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}

// DeleteExpired closes visits whose idle TTL elapsed. The store also does
// this periodically on its own.
func (s *Store) DeleteExpired() {
	s.cache.DeleteExpired()
}
