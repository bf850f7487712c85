package astro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/utils"
)

const defaultBaseURL = "https://api.aladhan.com"

// methodIDs maps calculation method names to Al Adhan method identifiers.
var methodIDs = map[string]int{
	"Karachi": 1,
	"ISNA":    2,
	"MWL":     3,
	"Makkah":  4,
	"Egypt":   5,
	"Tehran":  7,
	"Dubai":   8,
	"Kuwait":  9,
	"Qatar":   10,
}

// AladhanClient implements Provider against the Al Adhan timings API.
type AladhanClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAladhanClient returns a client against the public Al Adhan API.
func NewAladhanClient() *AladhanClient {
	return &AladhanClient{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Times fetches the day's timings for the coordinate and resolves them into
// absolute instants in the zone the API reports for that location.
func (c *AladhanClient) Times(ctx context.Context, coord models.Coordinate, day time.Time, params models.CalculationParameters) (Result, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
	q.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
	if id, ok := methodIDs[params.Method]; ok {
		q.Set("method", fmt.Sprintf("%d", id))
	}
	if params.Madhab == models.MadhabHanafi {
		q.Set("school", "1")
	} else {
		q.Set("school", "0")
	}
	switch params.HighLatitudeRule {
	case models.HighLatMiddleOfNight:
		q.Set("latitudeAdjustmentMethod", "1")
	case models.HighLatSeventhOfNight:
		q.Set("latitudeAdjustmentMethod", "2")
	case models.HighLatTwilightAngle:
		q.Set("latitudeAdjustmentMethod", "3")
	}

	endpoint := fmt.Sprintf("%s/v1/timings/%s?%s",
		c.BaseURL, day.Format("02-01-2006"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building timings request: %w", err)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetching timings: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("timings request failed with status %d", res.StatusCode)
	}

	var body timingsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decoding timings response: %w", err)
	}
	if body.Code != http.StatusOK {
		return Result{}, fmt.Errorf("timings API returned code %d (%s)", body.Code, body.Status)
	}

	loc, err := utils.LoadLocation(body.Data.Meta.Timezone)
	if err != nil {
		loc = day.Location()
	}

	result := Result{
		Timezone:   body.Data.Meta.Timezone,
		HijriLabel: body.Data.Date.Hijri.format(),
	}

	fields := []struct {
		name  string
		raw   string
		field *time.Time
	}{
		{"fajr", body.Data.Timings.Fajr, &result.Fajr},
		{"sunrise", body.Data.Timings.Sunrise, &result.Sunrise},
		{"dhuhr", body.Data.Timings.Dhuhr, &result.Dhuhr},
		{"asr", body.Data.Timings.Asr, &result.Asr},
		{"sunset", body.Data.Timings.Sunset, &result.Sunset},
		{"maghrib", body.Data.Timings.Maghrib, &result.Maghrib},
		{"isha", body.Data.Timings.Isha, &result.Isha},
	}
	for _, f := range fields {
		t, err := parseClock(f.raw, day, loc)
		if err != nil {
			return Result{}, fmt.Errorf("parsing %s time %q: %w", f.name, f.raw, err)
		}
		*f.field = t
	}

	return result, nil
}

// parseClock turns an "HH:MM" string (optionally suffixed with a zone label
// like " (BST)") into an absolute instant on the given day in loc.
func parseClock(raw string, day time.Time, loc *time.Location) (time.Time, error) {
	clock := raw
	if i := strings.Index(clock, " "); i >= 0 {
		clock = clock[:i]
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
