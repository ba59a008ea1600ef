// Package slots produces the simulated daily appointment grid.
package slots

import (
	"math/rand"
	"sync"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
)

const (
	// FirstSlotHour is the start of the first slot (09:00)
	FirstSlotHour = 9
	// ClosingHour is exclusive; the last slot starts at 16:30
	ClosingHour = 17
	// Interval between consecutive slot starts
	Interval = 30 * time.Minute
	// PerDay is the number of slots generated for any day
	PerDay = (ClosingHour - FirstSlotHour) * 2

	// LabelLayout renders slot starts as "9:00 AM"
	LabelLayout = "3:04 PM"

	DefaultAvailability = 0.7
)

// Source supplies uniformly distributed values in [0, 1)
type Source interface {
	Float64() float64
}

// Generator builds slot grids. It is safe for concurrent use.
type Generator struct {
	mu           sync.Mutex
	src          Source
	availability float64
	loc          *time.Location
}

// NewGenerator creates a generator seeded with seed (0 seeds from the clock)
// whose slots are bookable with the given probability
func NewGenerator(seed int64, availability float64, loc *time.Location) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//nolint:gosec // G404: slot availability is a simulation, not a security decision
	return NewGeneratorWithSource(rand.New(rand.NewSource(seed)), availability, loc)
}

// NewGeneratorWithSource creates a generator on an explicit randomness source
func NewGeneratorWithSource(src Source, availability float64, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	if availability < 0 || availability > 1 {
		availability = DefaultAvailability
	}
	return &Generator{src: src, availability: availability, loc: loc}
}

// Location returns the clinic time zone the generator works in
func (g *Generator) Location() *time.Location {
	return g.loc
}

// Generate returns the 16 half-hour slots of day, 09:00 through 16:30, each
// independently available. Any time-of-day component of day is ignored.
// A zero day yields no slots.
func (g *Generator) Generate(day time.Time) []models.TimeSlot {
	if day.IsZero() {
		return []models.TimeSlot{}
	}

	y, m, d := day.In(g.loc).Date()

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.TimeSlot, 0, PerDay)
	for hour := FirstSlotHour; hour < ClosingHour; hour++ {
		for _, minute := range []int{0, 30} {
			start := time.Date(y, m, d, hour, minute, 0, 0, g.loc)
			out = append(out, models.TimeSlot{
				StartTime: start,
				Label:     start.Format(LabelLayout),
				Available: g.src.Float64() < g.availability,
			})
		}
	}

	metrics.SlotGenerations.Inc()
	return out
}

// StartOfDay truncates t to midnight in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
