package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/slots"
	"github.com/clinicconnect/clinicconnect-api/internal/validation"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
)

var testNow = time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)

type stubCatalog struct {
	providers map[int]*models.Provider
	services  map[int]*models.Service
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		providers: map[int]*models.Provider{
			1: {ID: 1, Name: "Dr. Sarah Johnson", Specialty: "Cardiology"},
			2: {ID: 2, Name: "Dr. Michael Chen", Specialty: "Pediatrics"},
		},
		services: map[int]*models.Service{
			1: {ID: 1, Name: "General Check-up", Duration: "30 min", Price: "$120"},
			2: {ID: 2, Name: "Consultation", Duration: "45 min", Price: "$150"},
		},
	}
}

func (c *stubCatalog) ProviderByID(ctx context.Context, id int) (*models.Provider, error) {
	if p, ok := c.providers[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.NotFoundError("provider")
}

func (c *stubCatalog) ServiceByID(ctx context.Context, id int) (*models.Service, error) {
	if s, ok := c.services[id]; ok {
		return s, nil
	}
	return nil, pkgerrors.NotFoundError("service")
}

// alternating marks every other slot unavailable, starting with an available 9:00 AM
type alternating struct {
	mu sync.Mutex
	n  int
}

func (a *alternating) Float64() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.n++
	if a.n%2 == 1 {
		return 0
	}
	return 0.99
}

type manualTask struct {
	f       func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler runs callbacks only when the test says so
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{f: f, delay: d}
	s.tasks = append(s.tasks, t)
	return t
}

// fire runs every task that was scheduled, stopped or not; a stopped task
// models a timer that already fired when Stop was called
func (s *manualScheduler) fire(includeStopped bool) {
	s.mu.Lock()
	tasks := append([]*manualTask(nil), s.tasks...)
	s.mu.Unlock()

	for _, t := range tasks {
		if t.fired || (t.stopped && !includeStopped) {
			continue
		}
		t.fired = true
		t.f()
	}
}

type fixture struct {
	wizard    *Wizard
	queue     *notify.Queue
	scheduler *manualScheduler
	confirmed []models.Confirmation
}

func newFixture(pre Preselection) *fixture {
	f := &fixture{
		queue:     notify.NewQueue(50),
		scheduler: &manualScheduler{},
	}
	f.wizard = New(Options{
		Catalog:     newStubCatalog(),
		Slots:       slots.NewGeneratorWithSource(&alternating{}, 0.5, time.UTC),
		Validator:   validation.NewContactValidator(),
		Notifier:    f.queue,
		Scheduler:   f.scheduler,
		Now:         func() time.Time { return testNow },
		NewRef:      func() string { return "ref-123" },
		SubmitDelay: DefaultSubmitDelay,
		OnConfirmed: func(c models.Confirmation) { f.confirmed = append(f.confirmed, c) },
	}, pre)
	return f
}

func (f *fixture) toContactStep() {
	w := f.wizard
	must(w.SelectDateIndex(2))
	must(w.SelectSlot("9:00 AM"))
	must(w.Next())
	must(w.SelectProvider(context.Background(), 1))
	must(w.SelectService(context.Background(), 2))
	must(w.Next())
}

func (f *fixture) fillContact() {
	w := f.wizard
	must(w.UpdateContact(models.FieldFirstName, "Jane"))
	must(w.UpdateContact(models.FieldLastName, "Smith"))
	must(w.UpdateContact(models.FieldEmail, "jane@x.com"))
	must(w.UpdateContact(models.FieldPhone, "1234567890"))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
