package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/minaretapp/minaret/internal/logger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/utils"
)

// Service ties the computer and cache together: it answers "today's schedule
// for this coordinate" with a cache hit where permitted and a recomputation
// plus save where not.
type Service struct {
	computer *Computer
	cache    *Cache

	// Now is the clock; overridable in tests.
	Now func() time.Time

	mu              sync.Mutex
	tomorrowFajr    time.Time
	tomorrowFajrKey string
}

// NewService creates a Service over the given computer and cache.
func NewService(computer *Computer, cache *Cache) *Service {
	return &Service{computer: computer, cache: cache, Now: time.Now}
}

// Cache exposes the underlying cache for reuse decisions.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Refresh recomputes today's schedule for the coordinate and overwrites the
// snapshot. City/country labels are carried through as given; an unknown city
// stays empty until reverse geocoding completes.
func (s *Service) Refresh(ctx context.Context, coord models.Coordinate, city, country string) (models.ScheduleSnapshot, error) {
	sched, entries, err := s.computer.Compute(ctx, coord, s.Now())
	if err != nil {
		return models.ScheduleSnapshot{}, err
	}
	if err := s.cache.SaveToday(city, country, sched, entries, coord); err != nil {
		return models.ScheduleSnapshot{}, err
	}
	snap, _ := s.cache.LoadToday()
	return snap, nil
}

// Ensure returns today's snapshot, recomputing only when the cache says so.
// When reuse is permitted it refreshes the stored coordinate reference and
// reports recomputed=false.
func (s *Service) Ensure(ctx context.Context, coord models.Coordinate, city, country string) (snap models.ScheduleSnapshot, recomputed bool, err error) {
	if !s.cache.ShouldRecalculate(coord) {
		if snap, ok := s.cache.LoadToday(); ok {
			if err := s.cache.UpdateLocationOnly(coord); err != nil {
				logger.Warn("Failed to update snapshot coordinate", "error", err)
			}
			return snap, false, nil
		}
	}
	snap, err = s.Refresh(ctx, coord, city, country)
	return snap, true, err
}

// TomorrowFajr resolves the fajr instant of the next calendar day at the
// cached location, memoized per day so the post-isha countdown does not hit
// the astronomical boundary on every tick.
func (s *Service) TomorrowFajr(ctx context.Context) (time.Time, error) {
	snap, ok := s.cache.LoadToday()
	if !ok {
		return time.Time{}, ErrScheduleUnavailable
	}

	tomorrow := s.Now().AddDate(0, 0, 1)
	key := utils.DayKey(tomorrow)

	s.mu.Lock()
	if s.tomorrowFajrKey == key {
		t := s.tomorrowFajr
		s.mu.Unlock()
		return t, nil
	}
	s.mu.Unlock()

	sched, _, err := s.computer.Compute(ctx, snap.Coordinate, tomorrow)
	if err != nil {
		return time.Time{}, err
	}

	s.mu.Lock()
	s.tomorrowFajr = sched.Fajr
	s.tomorrowFajrKey = key
	s.mu.Unlock()

	return sched.Fajr, nil
}
