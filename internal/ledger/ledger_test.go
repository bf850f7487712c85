package ledger

import (
	"testing"
	"time"

	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func newTestLedger(t *testing.T, now time.Time) (*Ledger, storage.Store) {
	t.Helper()
	store := storage.NewSQLiteStore(":memory:")
	if err := store.Init(); err != nil {
		t.Fatalf("initializing test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	l := New(store)
	l.Now = func() time.Time { return now }
	return l, store
}

func dayEntries(day time.Time) []models.PrayerEntry {
	return []models.PrayerEntry{
		{Name: models.Fajr, Time: day.Add(5*time.Hour + 12*time.Minute)},
		{Name: models.Dhuhr, Time: day.Add(12*time.Hour + 15*time.Minute)},
		{Name: models.Asr, Time: day.Add(15*time.Hour + 30*time.Minute)},
		{Name: models.Maghrib, Time: day.Add(17*time.Hour + 48*time.Minute)},
		{Name: models.Isha, Time: day.Add(19*time.Hour + 10*time.Minute)},
	}
}

func TestToggle_MarkWithinGraceIsOnTime(t *testing.T) {
	// 12:30, fifteen minutes after dhuhr.
	l, _ := newTestLedger(t, testDay.Add(12*time.Hour+30*time.Minute))

	completed, err := l.Toggle(models.Dhuhr, dayEntries(testDay))
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !completed {
		t.Error("toggle should report completed")
	}

	status, ok, err := l.StatusFor("2026-03-02", models.Dhuhr)
	if err != nil || !ok {
		t.Fatalf("StatusFor gave ok=%v, err=%v", ok, err)
	}
	if status != models.StatusOnTime {
		t.Errorf("status = %q, want on_time", status)
	}
}

func TestToggle_MarkAfterGraceIsLate(t *testing.T) {
	// 13:00, forty-five minutes after dhuhr.
	l, _ := newTestLedger(t, testDay.Add(13*time.Hour))

	if _, err := l.Toggle(models.Dhuhr, dayEntries(testDay)); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	status, ok, err := l.StatusFor("2026-03-02", models.Dhuhr)
	if err != nil || !ok {
		t.Fatalf("StatusFor gave ok=%v, err=%v", ok, err)
	}
	if status != models.StatusLate {
		t.Errorf("status = %q, want late", status)
	}
}

func TestToggle_UnmarkWithinGraceDeletesRecord(t *testing.T) {
	l, _ := newTestLedger(t, testDay.Add(12*time.Hour+20*time.Minute))

	if _, err := l.Toggle(models.Dhuhr, dayEntries(testDay)); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	completed, err := l.Toggle(models.Dhuhr, dayEntries(testDay))
	if err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	if completed {
		t.Error("second toggle should report not completed")
	}

	// Within the grace window the slot reverts to "no data".
	_, ok, err := l.StatusFor("2026-03-02", models.Dhuhr)
	if err != nil {
		t.Fatalf("StatusFor failed: %v", err)
	}
	if ok {
		t.Error("record should be deleted, not rewritten")
	}
}

func TestToggle_UnmarkAfterGraceWritesExplicitMiss(t *testing.T) {
	l, _ := newTestLedger(t, testDay.Add(14*time.Hour))

	if _, err := l.Toggle(models.Dhuhr, dayEntries(testDay)); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if _, err := l.Toggle(models.Dhuhr, dayEntries(testDay)); err != nil {
		t.Fatalf("unmark failed: %v", err)
	}

	status, ok, err := l.StatusFor("2026-03-02", models.Dhuhr)
	if err != nil || !ok {
		t.Fatalf("StatusFor gave ok=%v, err=%v", ok, err)
	}
	if status != models.StatusNotPrayed {
		t.Errorf("status = %q, want explicit not_prayed", status)
	}

	completed, err := l.CompletionsOn("2026-03-02")
	if err != nil {
		t.Fatalf("CompletionsOn failed: %v", err)
	}
	if completed[models.Dhuhr] {
		t.Error("explicit miss must not count as completed")
	}
}

func TestToggle_FridayDhuhrRecordsJamaah(t *testing.T) {
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	l, store := newTestLedger(t, friday.Add(12*time.Hour+30*time.Minute))

	if _, err := l.Toggle(models.Dhuhr, dayEntries(friday)); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	rec, err := store.GetRecord("2026-03-06", models.Dhuhr)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !rec.InJamaah {
		t.Error("Friday dhuhr should record jamaah")
	}

	// The same toggle on a weekday does not.
	l2, store2 := newTestLedger(t, testDay.Add(12*time.Hour+30*time.Minute))
	if _, err := l2.Toggle(models.Dhuhr, dayEntries(testDay)); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	rec, err = store2.GetRecord("2026-03-02", models.Dhuhr)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if rec.InJamaah {
		t.Error("weekday dhuhr should not record jamaah")
	}
}

func TestToggle_NoScheduledEntry(t *testing.T) {
	l, _ := newTestLedger(t, testDay.Add(10*time.Hour))

	// With no entry for the prayer the grace window cannot be evaluated;
	// marking still records on_time and unmarking deletes.
	if _, err := l.Toggle(models.Fajr, nil); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	status, ok, err := l.StatusFor("2026-03-02", models.Fajr)
	if err != nil || !ok {
		t.Fatalf("StatusFor gave ok=%v, err=%v", ok, err)
	}
	if status != models.StatusOnTime {
		t.Errorf("status = %q, want on_time", status)
	}

	if _, err := l.Toggle(models.Fajr, nil); err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	if _, ok, _ := l.StatusFor("2026-03-02", models.Fajr); ok {
		t.Error("record should be deleted when no entry exists")
	}
}

func TestCompletionsOn_LegacyFallback(t *testing.T) {
	l, store := newTestLedger(t, testDay.Add(12*time.Hour))

	// A legacy set with no records at all still counts.
	err := store.SaveCompletedSet("2026-03-02", map[models.PrayerName]bool{
		models.Fajr: true,
	})
	if err != nil {
		t.Fatalf("SaveCompletedSet failed: %v", err)
	}

	completed, err := l.CompletionsOn("2026-03-02")
	if err != nil {
		t.Fatalf("CompletionsOn failed: %v", err)
	}
	if !completed[models.Fajr] {
		t.Error("legacy set membership should count as completed")
	}
	if completed[models.Dhuhr] {
		t.Error("absent slot should not count as completed")
	}

	// An explicit not_prayed record overrides legacy set membership.
	err = store.UpsertRecord(models.PrayerRecord{
		Day:       "2026-03-02",
		Prayer:    models.Fajr,
		Status:    models.StatusNotPrayed,
		UpdatedAt: testDay.Add(12 * time.Hour),
	})
	if err != nil {
		t.Fatalf("UpsertRecord failed: %v", err)
	}
	completed, err = l.CompletionsOn("2026-03-02")
	if err != nil {
		t.Fatalf("CompletionsOn failed: %v", err)
	}
	if completed[models.Fajr] {
		t.Error("record takes precedence over the legacy set")
	}
}

func TestAllCompletedOnDay(t *testing.T) {
	l, _ := newTestLedger(t, testDay.Add(22*time.Hour))
	entries := dayEntries(testDay)

	done, err := l.AllCompletedOnDay("2026-03-02")
	if err != nil {
		t.Fatalf("AllCompletedOnDay failed: %v", err)
	}
	if done {
		t.Error("empty day should not be complete")
	}

	for _, prayer := range models.AllPrayers() {
		if _, err := l.Toggle(prayer, entries); err != nil {
			t.Fatalf("Toggle(%s) failed: %v", prayer, err)
		}
	}
	done, err = l.AllCompletedOnDay("2026-03-02")
	if err != nil {
		t.Fatalf("AllCompletedOnDay failed: %v", err)
	}
	if !done {
		t.Error("all five marked should complete the day")
	}
}

func TestOnChange_FiresAfterToggle(t *testing.T) {
	l, _ := newTestLedger(t, testDay.Add(12*time.Hour+30*time.Minute))

	fired := 0
	l.OnChange(func() { fired++ })

	if _, err := l.Toggle(models.Dhuhr, dayEntries(testDay)); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("hook fired %d times, want 1", fired)
	}
}
