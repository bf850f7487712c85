package astro

import (
	"context"
	"time"

	"github.com/minaretapp/minaret/internal/models"
)

// Result is the fully-typed output of the astronomical boundary. All instants
// are absolute and already placed in the location's timezone.
type Result struct {
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Sunset  time.Time
	Maghrib time.Time
	Isha    time.Time

	// Timezone is the IANA zone the instants were resolved in.
	Timezone string
	// HijriLabel is the readable Hijri date for the day, e.g. "10 Shaʿbān 1447 AH".
	HijriLabel string
}

// Provider turns (coordinate, date, calculation parameters) into the day's
// prayer instants. Implementations must be deterministic for identical inputs.
type Provider interface {
	Times(ctx context.Context, coord models.Coordinate, day time.Time, params models.CalculationParameters) (Result, error)
}
