package domain

import "time"

// CalendarDay is one cell column of the per-person completion calendar.
type CalendarDay struct {
	Date      time.Time
	Values    []int
	Chain     int
	WeekStart bool
}

type CalendarView struct {
	Person string
	Habits []string
	Days   []CalendarDay
}

type TimeSeriesPoint struct {
	Date   time.Time
	Values map[string]int
}

// BuildCalendar lays out a person's chained records by date and flags the first
// day of every week, where the calendar draws a separator.
func BuildCalendar(person string, habits []string, records []HabitRecord) CalendarView {
	view := CalendarView{
		Person: person,
		Habits: append([]string(nil), habits...),
		Days:   make([]CalendarDay, 0, len(records)),
	}

	var lastWeek time.Time
	for i, r := range DeriveChains(records) {
		week := WeekStart(r.Date)
		view.Days = append(view.Days, CalendarDay{
			Date:      r.Date,
			Values:    r.Values,
			Chain:     r.Chain,
			WeekStart: i == 0 || !week.Equal(lastWeek),
		})
		lastWeek = week
	}
	return view
}

// BuildTimeSeries maps each record to its per-habit values, keeping record order.
func BuildTimeSeries(habits []string, records []HabitRecord) []TimeSeriesPoint {
	points := make([]TimeSeriesPoint, 0, len(records))
	for _, r := range records {
		values := make(map[string]int, len(habits))
		for i, h := range habits {
			values[h] = r.Value(i)
		}
		points = append(points, TimeSeriesPoint{Date: r.Date, Values: values})
	}
	return points
}
