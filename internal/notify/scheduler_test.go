package notify

import (
	"testing"
	"time"

	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
)

// fakeDelivery records schedule and cancel calls in memory.
type fakeDelivery struct {
	available bool
	scheduled []models.NotificationRequest
	cancelled []string
}

func (f *fakeDelivery) Available() bool { return f.available }

func (f *fakeDelivery) Schedule(req models.NotificationRequest) error {
	f.scheduled = append(f.scheduled, req)
	return nil
}

func (f *fakeDelivery) Cancel(identifiers []string) error {
	f.cancelled = append(f.cancelled, identifiers...)
	return nil
}

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, delivery Delivery, now time.Time) *Scheduler {
	t.Helper()
	store := storage.NewSQLiteStore(":memory:")
	if err := store.Init(); err != nil {
		t.Fatalf("initializing test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s := NewScheduler(delivery, store)
	s.Now = func() time.Time { return now }
	return s
}

func testDays() []DayEntries {
	return []DayEntries{{
		DayKey: "2026-03-02",
		Entries: []models.PrayerEntry{
			{Name: models.Fajr, Time: testDay.Add(5*time.Hour + 12*time.Minute)},
			{Name: models.Dhuhr, Time: testDay.Add(12*time.Hour + 15*time.Minute)},
			{Name: models.Asr, Time: testDay.Add(15*time.Hour + 30*time.Minute)},
			{Name: models.Maghrib, Time: testDay.Add(17*time.Hour + 48*time.Minute)},
			{Name: models.Isha, Time: testDay.Add(19*time.Hour + 10*time.Minute)},
		},
	}}
}

func TestIdentifier(t *testing.T) {
	got := Identifier(models.Fajr, "2026-03-02")
	if got != "prayer_fajr_2026-03-02" {
		t.Errorf("Identifier = %q", got)
	}
}

func TestSchedule_DeliveryUnavailableIsNoOp(t *testing.T) {
	delivery := &fakeDelivery{available: false}
	s := newTestScheduler(t, delivery, testDay)

	scheduled, permitted, err := s.Schedule(testDays(), "London")
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if scheduled != 0 || permitted {
		t.Errorf("got scheduled=%d permitted=%v, want 0, false", scheduled, permitted)
	}
	if len(delivery.scheduled) != 0 || len(delivery.cancelled) != 0 {
		t.Error("unavailable delivery must not be touched")
	}
}

func TestSchedule_UnreadyCityIsNoOp(t *testing.T) {
	for _, city := range []string{"", "Locating..."} {
		delivery := &fakeDelivery{available: true}
		s := newTestScheduler(t, delivery, testDay)

		scheduled, permitted, err := s.Schedule(testDays(), city)
		if err != nil {
			t.Fatalf("Schedule(%q) failed: %v", city, err)
		}
		if scheduled != 0 || !permitted {
			t.Errorf("Schedule(%q) = %d, %v, want 0, true", city, scheduled, permitted)
		}
		if len(delivery.scheduled) != 0 {
			t.Errorf("Schedule(%q) registered reminders", city)
		}
	}
}

func TestSchedule_SkipsPastInstants(t *testing.T) {
	delivery := &fakeDelivery{available: true}
	// 13:00, fajr and dhuhr already passed.
	s := newTestScheduler(t, delivery, testDay.Add(13*time.Hour))

	scheduled, permitted, err := s.Schedule(testDays(), "London")
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if !permitted {
		t.Error("delivery is available")
	}
	if scheduled != 3 {
		t.Errorf("scheduled = %d, want 3 (asr, maghrib, isha)", scheduled)
	}
	for _, req := range delivery.scheduled {
		if !req.FireAt.After(testDay.Add(13 * time.Hour)) {
			t.Errorf("registered a past instant: %+v", req)
		}
	}
}

func TestSchedule_RescheduleCancelsOwnedReminders(t *testing.T) {
	delivery := &fakeDelivery{available: true}
	s := newTestScheduler(t, delivery, testDay.Add(time.Hour))

	if _, _, err := s.Schedule(testDays(), "London"); err != nil {
		t.Fatalf("first Schedule failed: %v", err)
	}
	first := len(delivery.scheduled)
	if first != 5 {
		t.Fatalf("first pass scheduled %d, want 5", first)
	}

	if _, _, err := s.Schedule(testDays(), "Manchester"); err != nil {
		t.Fatalf("second Schedule failed: %v", err)
	}

	// Every identifier from the first pass was cancelled before the second.
	if len(delivery.cancelled) != 5 {
		t.Fatalf("cancelled %d, want 5: %v", len(delivery.cancelled), delivery.cancelled)
	}
	for _, id := range delivery.cancelled {
		if id[:len("prayer_")] != "prayer_" {
			t.Errorf("cancelled identifier %q outside owned prefix", id)
		}
	}
	if len(delivery.scheduled) != 10 {
		t.Errorf("total scheduled = %d, want 10", len(delivery.scheduled))
	}
}

func TestCancelAll(t *testing.T) {
	delivery := &fakeDelivery{available: true}
	s := newTestScheduler(t, delivery, testDay.Add(time.Hour))

	if _, _, err := s.Schedule(testDays(), "London"); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := s.CancelAll(); err != nil {
		t.Fatalf("CancelAll failed: %v", err)
	}
	if len(delivery.cancelled) != 5 {
		t.Errorf("cancelled %d, want 5", len(delivery.cancelled))
	}

	// Nothing left to cancel.
	delivery.cancelled = nil
	if err := s.CancelAll(); err != nil {
		t.Fatalf("second CancelAll failed: %v", err)
	}
	if len(delivery.cancelled) != 0 {
		t.Errorf("second CancelAll touched %d ids", len(delivery.cancelled))
	}
}

func TestCancelOne(t *testing.T) {
	delivery := &fakeDelivery{available: true}
	s := newTestScheduler(t, delivery, testDay.Add(time.Hour))

	if _, _, err := s.Schedule(testDays(), "London"); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := s.CancelOne(models.Fajr, "2026-03-02"); err != nil {
		t.Fatalf("CancelOne failed: %v", err)
	}
	if len(delivery.cancelled) != 1 || delivery.cancelled[0] != "prayer_fajr_2026-03-02" {
		t.Errorf("cancelled = %v", delivery.cancelled)
	}
}
