package domain

import (
	"fmt"
	"sort"
	"time"
)

const labelDateLayout = "02-01"

// Week groups the records of one Monday-to-Sunday calendar week.
// Start and End are the first and last dates actually present, not the week boundaries.
type Week struct {
	Ordinal int
	Start   time.Time
	End     time.Time
	Label   string
	Records []HabitRecord
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d time.Time) time.Time {
	day := DateOnly(d)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekLabel renders the display label of a week.
func WeekLabel(ordinal int, start, end time.Time) string {
	return fmt.Sprintf("%d. Hafta (%s -- %s)", ordinal, start.Format(labelDateLayout), end.Format(labelDateLayout))
}

// BucketWeeks partitions records into chronologically numbered weeks.
// Weeks without records are never produced, so ordinals can skip calendar weeks.
func BucketWeeks(records []HabitRecord) []Week {
	buckets := make(map[time.Time][]HabitRecord)
	for _, r := range records {
		start := WeekStart(r.Date)
		buckets[start] = append(buckets[start], r.Clone())
	}

	starts := make([]time.Time, 0, len(buckets))
	for s := range buckets {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Before(starts[j])
	})

	weeks := make([]Week, 0, len(starts))
	for i, s := range starts {
		members := buckets[s]
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].Date.Before(members[b].Date)
		})

		first := members[0].Date
		last := members[len(members)-1].Date
		ordinal := i + 1

		weeks = append(weeks, Week{
			Ordinal: ordinal,
			Start:   first,
			End:     last,
			Label:   WeekLabel(ordinal, first, last),
			Records: members,
		})
	}
	return weeks
}

// FindWeek returns the week with the given ordinal.
func FindWeek(weeks []Week, ordinal int) (Week, error) {
	if ordinal < 1 || ordinal > len(weeks) {
		return Week{}, fmt.Errorf("%w: %d", ErrWeekNotFound, ordinal)
	}
	return weeks[ordinal-1], nil
}

// WeekSummary is a week without its records, as listed in the week picker.
type WeekSummary struct {
	Ordinal int
	Label   string
	Start   time.Time
	End     time.Time
	Records int
}

func (w Week) Summary() WeekSummary {
	return WeekSummary{
		Ordinal: w.Ordinal,
		Label:   w.Label,
		Start:   w.Start,
		End:     w.End,
		Records: len(w.Records),
	}
}
