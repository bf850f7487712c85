package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minaretapp/minaret/internal/astro"
	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/models"
)

// ErrScheduleUnavailable wraps any failure of the astronomical boundary, e.g.
// an unsupported high-latitude date. Callers report an unavailable state and
// retry on the next location or date event.
var ErrScheduleUnavailable = errors.New("schedule unavailable")

// Computer wraps the astronomical provider and derives the day's schedule:
// the five obligatory instants in order, sunrise/sunset, and the zawal window
// bracketing solar noon. Deterministic given identical inputs.
type Computer struct {
	provider astro.Provider
	params   models.CalculationParameters
}

// NewComputer creates a Computer using the given provider and fixed
// calculation parameters.
func NewComputer(provider astro.Provider, params models.CalculationParameters) *Computer {
	return &Computer{provider: provider, params: params}
}

// Compute produces the schedule and sorted prayer entries for one day at one
// coordinate.
func (c *Computer) Compute(ctx context.Context, coord models.Coordinate, day time.Time) (models.DailySchedule, []models.PrayerEntry, error) {
	result, err := c.provider.Times(ctx, coord, day, c.params)
	if err != nil {
		return models.DailySchedule{}, nil, fmt.Errorf("%w: %v", ErrScheduleUnavailable, err)
	}

	half := constants.ZawalWindow / 2
	sched := models.DailySchedule{
		Fajr:       result.Fajr,
		Sunrise:    result.Sunrise,
		Dhuhr:      result.Dhuhr,
		Asr:        result.Asr,
		Maghrib:    result.Maghrib,
		Isha:       result.Isha,
		Sunset:     result.Sunset,
		ZawalStart: result.Dhuhr.Add(-half),
		ZawalEnd:   result.Dhuhr.Add(half),
		HijriLabel: result.HijriLabel,
		Timezone:   result.Timezone,
	}

	// Ascending by construction; never re-sorted.
	entries := []models.PrayerEntry{
		{Name: models.Fajr, Time: sched.Fajr},
		{Name: models.Dhuhr, Time: sched.Dhuhr},
		{Name: models.Asr, Time: sched.Asr},
		{Name: models.Maghrib, Time: sched.Maghrib},
		{Name: models.Isha, Time: sched.Isha},
	}

	return sched, entries, nil
}

// Params returns the fixed calculation parameters.
func (c *Computer) Params() models.CalculationParameters {
	return c.params
}
