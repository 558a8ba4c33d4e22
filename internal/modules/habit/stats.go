package habit

import (
	"sort"
	"strconv"
	"time"

	"github.com/mx-space/dentalcare/internal/models"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
)

const (
	// ConsistencyWindowDays is both the look-back window and the fixed
	// denominator of the consistency percentages.
	ConsistencyWindowDays = 30
	// RecentRecordLimit bounds the records feeding checkup advice.
	RecentRecordLimit = 30
)

// Statistics summarizes a user's habit history.
type Statistics struct {
	CurrentStreak       int     `json:"current_streak"`
	LongestStreak       int     `json:"longest_streak"`
	BrushingConsistency float64 `json:"brushing_consistency"`
	FlossingConsistency float64 `json:"flossing_consistency"`
	AvgBrushingTime     float64 `json:"avg_brushing_time"`
	TotalTrackedDays    int     `json:"total_tracked_days"`
}

// Rounded returns s with percentages and the average at one decimal.
func (s Statistics) Rounded() Statistics {
	s.BrushingConsistency = round1(s.BrushingConsistency)
	s.FlossingConsistency = round1(s.FlossingConsistency)
	s.AvgBrushingTime = round1(s.AvgBrushingTime)
	return s
}

// Aggregate computes statistics over every record of one user. today is the
// user's current calendar day.
func Aggregate(records []models.DailyHabit, today time.Time) Statistics {
	sorted := append([]models.DailyHabit(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	stats := Statistics{TotalTrackedDays: len(sorted)}

	expected := today
	for _, h := range sorted {
		if !h.Brushed || h.Date != expected.Format(models.DateLayout) {
			break
		}
		stats.CurrentStreak++
		expected = expected.AddDate(0, 0, -1)
	}
	stats.LongestStreak = max(stats.CurrentStreak, 0)

	since := today.AddDate(0, 0, -ConsistencyWindowDays).Format(models.DateLayout)
	brushed, flossed := 0, 0
	for _, h := range sorted {
		if h.Date < since {
			continue
		}
		if h.Brushed {
			brushed++
		}
		if h.Flossed {
			flossed++
		}
	}
	stats.BrushingConsistency = consistency(brushed)
	stats.FlossingConsistency = consistency(flossed)

	total, n := 0, 0
	for _, h := range sorted {
		if h.BrushingTime != nil && *h.BrushingTime > 0 {
			total += *h.BrushingTime
			n++
		}
	}
	if n > 0 {
		stats.AvgBrushingTime = float64(total) / float64(n)
	}
	return stats
}

// AdviceInputs derives composer inputs from the most recent records. Unlike
// Aggregate, the percentages are relative to the number of records given.
func AdviceInputs(recent []models.DailyHabit) analysis.HabitInputs {
	brushed, flossed, total, timed := 0, 0, 0, 0
	for _, h := range recent {
		if h.Brushed {
			brushed++
		}
		if h.Flossed {
			flossed++
		}
		if h.BrushingTime != nil && *h.BrushingTime > 0 {
			total += *h.BrushingTime
			timed++
		}
	}
	n := float64(max(len(recent), 1))
	return analysis.HabitInputs{
		BrushingConsistency: float64(brushed) / n * 100,
		FlossingConsistency: float64(flossed) / n * 100,
		AvgBrushingTime:     float64(total) / float64(max(timed, 1)),
	}
}

// consistency is days/30 as a percentage. The window is inclusive of both
// ends, so it spans 31 days; the result is capped at 100.
func consistency(days int) float64 {
	return min(float64(days)/ConsistencyWindowDays*100, 100)
}

// round1 rounds the exact binary value of v to one decimal, ties to even,
// so 8.45 (stored as 8.4499...) gives 8.4 and 120.25 gives 120.2.
func round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
