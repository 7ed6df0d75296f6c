package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var testHabits = []string{"Egzersiz", "Günlük rutin", "Nafile ibadet", "Bireysel"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(person string, date time.Time, values ...int) domain.HabitRecord {
	return domain.HabitRecord{Person: person, Date: date, Values: values}
}

func mustTable(t *testing.T, habits []string, records ...domain.HabitRecord) *domain.Table {
	t.Helper()
	table, err := domain.NewTable(habits, records)
	require.NoError(t, err)
	return table
}

// fullTable returns persons × days records starting at start, every habit set to 1.
func fullTable(t *testing.T, persons []string, start time.Time, days int) *domain.Table {
	t.Helper()
	var records []domain.HabitRecord
	for d := 0; d < days; d++ {
		for _, p := range persons {
			records = append(records, rec(p, start.AddDate(0, 0, d), 1, 1, 1, 1))
		}
	}
	return mustTable(t, testHabits, records...)
}
