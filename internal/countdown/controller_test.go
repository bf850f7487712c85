package countdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minaretapp/minaret/internal/models"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testSnapshot() models.ScheduleSnapshot {
	sched := models.DailySchedule{
		Fajr:    testDay.Add(5*time.Hour + 12*time.Minute),
		Sunrise: testDay.Add(6*time.Hour + 45*time.Minute),
		Dhuhr:   testDay.Add(12*time.Hour + 15*time.Minute),
		Asr:     testDay.Add(15*time.Hour + 30*time.Minute),
		Maghrib: testDay.Add(17*time.Hour + 48*time.Minute),
		Isha:    testDay.Add(19*time.Hour + 10*time.Minute),
		Sunset:  testDay.Add(17*time.Hour + 48*time.Minute),
	}
	return models.ScheduleSnapshot{
		DayKey:   "2026-03-02",
		City:     "London",
		Country:  "UK",
		Schedule: sched,
		Entries: []models.PrayerEntry{
			{Name: models.Fajr, Time: sched.Fajr},
			{Name: models.Dhuhr, Time: sched.Dhuhr},
			{Name: models.Asr, Time: sched.Asr},
			{Name: models.Maghrib, Time: sched.Maghrib},
			{Name: models.Isha, Time: sched.Isha},
		},
	}
}

func TestTick_StateMachine(t *testing.T) {
	tomorrowFajr := testDay.AddDate(0, 0, 1).Add(5*time.Hour + 10*time.Minute)

	cases := []struct {
		name        string
		now         time.Time
		wantCurrent models.PrayerName
		wantNext    models.PrayerName
		wantNextAt  time.Time
	}{
		{
			name:        "before fajr there is no current prayer",
			now:         testDay.Add(3 * time.Hour),
			wantCurrent: "",
			wantNext:    models.Fajr,
			wantNextAt:  testDay.Add(5*time.Hour + 12*time.Minute),
		},
		{
			name:        "between fajr and sunrise",
			now:         testDay.Add(5*time.Hour + 30*time.Minute),
			wantCurrent: models.Fajr,
			wantNext:    models.Dhuhr,
			wantNextAt:  testDay.Add(12*time.Hour + 15*time.Minute),
		},
		{
			name:        "post-sunrise window clears the current prayer",
			now:         testDay.Add(6*time.Hour + 50*time.Minute),
			wantCurrent: "",
			wantNext:    models.Dhuhr,
			wantNextAt:  testDay.Add(12*time.Hour + 15*time.Minute),
		},
		{
			name:        "afternoon",
			now:         testDay.Add(16 * time.Hour),
			wantCurrent: models.Asr,
			wantNext:    models.Maghrib,
			wantNextAt:  testDay.Add(17*time.Hour + 48*time.Minute),
		},
		{
			name:        "past isha rolls over to tomorrow's fajr",
			now:         testDay.Add(20 * time.Hour),
			wantCurrent: models.Isha,
			wantNext:    models.Fajr,
			wantNextAt:  tomorrowFajr,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := NewController(func(ctx context.Context) (time.Time, error) {
				return tomorrowFajr, nil
			})
			ctrl.Now = func() time.Time { return c.now }

			state := ctrl.SetSchedule(context.Background(), testSnapshot())
			if !state.Available {
				t.Fatal("state should be available")
			}
			if state.Current != c.wantCurrent {
				t.Errorf("Current = %q, want %q", state.Current, c.wantCurrent)
			}
			if state.Next != c.wantNext {
				t.Errorf("Next = %q, want %q", state.Next, c.wantNext)
			}
			if !state.NextTime.Equal(c.wantNextAt) {
				t.Errorf("NextTime = %v, want %v", state.NextTime, c.wantNextAt)
			}
			if want := c.wantNextAt.Sub(c.now); state.Countdown != want {
				t.Errorf("Countdown = %v, want %v", state.Countdown, want)
			}
		})
	}
}

func TestTick_NoSchedule(t *testing.T) {
	ctrl := NewController(nil)
	if state := ctrl.Tick(context.Background()); state.Available {
		t.Error("no schedule should report unavailable")
	}
}

func TestTick_StaleDayReportsUnavailable(t *testing.T) {
	ctrl := NewController(nil)
	ctrl.Now = func() time.Time { return testDay.AddDate(0, 0, 1).Add(time.Hour) }

	if state := ctrl.SetSchedule(context.Background(), testSnapshot()); state.Available {
		t.Error("yesterday's snapshot must never be served")
	}
}

func TestTick_NextDayFajrFailure(t *testing.T) {
	ctrl := NewController(func(ctx context.Context) (time.Time, error) {
		return time.Time{}, errors.New("upstream down")
	})
	ctrl.Now = func() time.Time { return testDay.Add(20 * time.Hour) }

	if state := ctrl.SetSchedule(context.Background(), testSnapshot()); state.Available {
		t.Error("post-isha state without tomorrow's fajr should be unavailable")
	}
}

func TestClearSchedule(t *testing.T) {
	ctrl := NewController(nil)
	ctrl.Now = func() time.Time { return testDay.Add(10 * time.Hour) }

	if state := ctrl.SetSchedule(context.Background(), testSnapshot()); !state.Available {
		t.Fatal("expected available state after SetSchedule")
	}
	ctrl.ClearSchedule()
	if state := ctrl.State(); state.Available {
		t.Error("cleared controller should report unavailable")
	}
}

func TestCountdownText(t *testing.T) {
	s := State{Countdown: 2*time.Hour + 5*time.Minute + 9*time.Second}
	if got := s.CountdownText(); got != "02:05:09" {
		t.Errorf("CountdownText = %q", got)
	}
}
