package widget

import (
	"testing"
	"time"

	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newTestProjector(t *testing.T) *Projector {
	t.Helper()
	store := storage.NewSQLiteStore(":memory:")
	if err := store.Init(); err != nil {
		t.Fatalf("initializing test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store)
}

func testSnapshot() models.ScheduleSnapshot {
	return models.ScheduleSnapshot{
		DayKey:  "2026-03-02",
		City:    "London",
		Country: "UK",
		Entries: []models.PrayerEntry{
			{Name: models.Fajr, Time: testDay.Add(5*time.Hour + 12*time.Minute)},
			{Name: models.Dhuhr, Time: testDay.Add(12*time.Hour + 15*time.Minute)},
			{Name: models.Asr, Time: testDay.Add(15*time.Hour + 30*time.Minute)},
			{Name: models.Maghrib, Time: testDay.Add(17*time.Hour + 48*time.Minute)},
			{Name: models.Isha, Time: testDay.Add(19*time.Hour + 10*time.Minute)},
		},
	}
}

func TestRecompute_ProjectsScheduleAndCompletions(t *testing.T) {
	p := newTestProjector(t)
	now := testDay.Add(13 * time.Hour)
	p.Now = func() time.Time { return now }

	completions := map[models.PrayerName]bool{models.Fajr: true, models.Dhuhr: true}
	err := p.Recompute(testSnapshot(), completions, models.Asr, testDay.Add(15*time.Hour+30*time.Minute))
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	ws, err := p.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if ws.NextPrayerName != models.Asr {
		t.Errorf("NextPrayerName = %q", ws.NextPrayerName)
	}
	if ws.City != "London" || ws.Country != "UK" {
		t.Errorf("location = %q, %q", ws.City, ws.Country)
	}
	if len(ws.Prayers) != 5 {
		t.Fatalf("got %d prayer rows, want 5", len(ws.Prayers))
	}
	if !ws.Prayers[0].Completed || !ws.Prayers[1].Completed || ws.Prayers[2].Completed {
		t.Errorf("completion flags wrong: %+v", ws.Prayers)
	}
	if ws.Prayers[0].IconKey != "sunrise" {
		t.Errorf("fajr icon = %q", ws.Prayers[0].IconKey)
	}
	if !ws.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", ws.LastUpdated, now)
	}
}

func TestRecompute_SkipsUnchangedContent(t *testing.T) {
	p := newTestProjector(t)
	first := testDay.Add(13 * time.Hour)
	p.Now = func() time.Time { return first }

	completions := map[models.PrayerName]bool{models.Fajr: true}
	if err := p.Recompute(testSnapshot(), completions, models.Asr, testDay.Add(15*time.Hour+30*time.Minute)); err != nil {
		t.Fatalf("first Recompute failed: %v", err)
	}

	// Identical content a minute later must not churn the persisted row.
	p.Now = func() time.Time { return first.Add(time.Minute) }
	if err := p.Recompute(testSnapshot(), completions, models.Asr, testDay.Add(15*time.Hour+30*time.Minute)); err != nil {
		t.Fatalf("second Recompute failed: %v", err)
	}
	ws, err := p.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if !ws.LastUpdated.Equal(first) {
		t.Errorf("unchanged rebuild rewrote the snapshot at %v", ws.LastUpdated)
	}

	// A changed completion writes again.
	later := first.Add(2 * time.Minute)
	p.Now = func() time.Time { return later }
	completions[models.Dhuhr] = true
	if err := p.Recompute(testSnapshot(), completions, models.Asr, testDay.Add(15*time.Hour+30*time.Minute)); err != nil {
		t.Fatalf("third Recompute failed: %v", err)
	}
	ws, err = p.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if !ws.LastUpdated.Equal(later) {
		t.Errorf("changed content did not rewrite: %v", ws.LastUpdated)
	}
}

func TestLatest_Empty(t *testing.T) {
	p := newTestProjector(t)
	if _, err := p.Latest(); err == nil {
		t.Error("expected error with no persisted snapshot")
	}
}
