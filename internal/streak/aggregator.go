package streak

import (
	"fmt"
	"time"

	"github.com/minaretapp/minaret/internal/ledger"
	"github.com/minaretapp/minaret/internal/models"
	"github.com/minaretapp/minaret/internal/storage"
	"github.com/minaretapp/minaret/internal/utils"
)

// WeekStreak is the Monday-first view of the current ISO week. Days after
// today are never counted.
type WeekStreak struct {
	Days       [7]bool // Monday..Sunday
	TodayIndex int
	Count      int
	Perfect    bool
}

// Summary aggregates slot outcomes over an inclusive day range. Percentages
// are over TotalSlots = dayCount x 5.
type Summary struct {
	FromDay    string
	ToDay      string
	TotalSlots int
	OnTime     int
	Late       int
	NotPrayed  int
	NoData     int
	Jamaah     int

	OnTimePct    float64
	LatePct      float64
	NotPrayedPct float64
}

// Aggregator computes rolling streak and range statistics. It operates purely
// by querying the ledger and record store; it persists nothing of its own.
type Aggregator struct {
	ledger *ledger.Ledger
	store  storage.Store
}

// New creates an aggregator over the given ledger and store.
func New(l *ledger.Ledger, store storage.Store) *Aggregator {
	return &Aggregator{ledger: l, store: store}
}

// WeekStreak builds the current week's completion strip. Count is the number
// of fully completed days from Monday through today; Perfect means all of
// those days completed.
func (a *Aggregator) WeekStreak(today time.Time) (WeekStreak, error) {
	monday := utils.MondayOfWeek(today)
	todayIdx := (int(today.Weekday()) + 6) % 7

	ws := WeekStreak{TodayIndex: todayIdx, Perfect: true}
	for i := 0; i <= todayIdx; i++ {
		day := utils.DayKey(monday.AddDate(0, 0, i))
		done, err := a.ledger.AllCompletedOnDay(day)
		if err != nil {
			return WeekStreak{}, fmt.Errorf("checking day %s: %w", day, err)
		}
		ws.Days[i] = done
		if done {
			ws.Count++
		} else {
			ws.Perfect = false
		}
	}
	return ws, nil
}

// Summary classifies every (day, prayer) slot in the inclusive range by its
// record status, counting slots without a record as no-data.
func (a *Aggregator) Summary(from, to time.Time) (Summary, error) {
	days := utils.DaysBetween(from, to)
	if len(days) == 0 {
		return Summary{}, nil
	}

	records, err := a.store.RecordsInRange(days[0], days[len(days)-1])
	if err != nil {
		return Summary{}, fmt.Errorf("loading records: %w", err)
	}

	type slot struct {
		day    string
		prayer models.PrayerName
	}
	bySlot := make(map[slot]models.PrayerRecord, len(records))
	for _, rec := range records {
		bySlot[slot{rec.Day, rec.Prayer}] = rec
	}

	sum := Summary{
		FromDay:    days[0],
		ToDay:      days[len(days)-1],
		TotalSlots: len(days) * 5,
	}
	for _, day := range days {
		for _, prayer := range models.AllPrayers() {
			rec, ok := bySlot[slot{day, prayer}]
			if !ok {
				sum.NoData++
				continue
			}
			switch rec.Status {
			case models.StatusOnTime:
				sum.OnTime++
			case models.StatusLate:
				sum.Late++
			case models.StatusNotPrayed:
				sum.NotPrayed++
			default:
				sum.NoData++
			}
			if rec.InJamaah {
				sum.Jamaah++
			}
		}
	}

	total := float64(sum.TotalSlots)
	sum.OnTimePct = float64(sum.OnTime) / total * 100
	sum.LatePct = float64(sum.Late) / total * 100
	sum.NotPrayedPct = float64(sum.NotPrayed) / total * 100
	return sum, nil
}
