package domain

import (
	"sort"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// HabitRecord is one row of the habit log: a person's habit flags for one day.
// Values[i] belongs to the i-th habit of the owning Table.
type HabitRecord struct {
	Person string
	Date   time.Time
	Values []int
}

// Clone returns a copy that shares no memory with r.
func (r HabitRecord) Clone() HabitRecord {
	values := make([]int, len(r.Values))
	copy(values, r.Values)
	return HabitRecord{Person: r.Person, Date: r.Date, Values: values}
}

// Value returns the i-th habit value, treating missing values as 0.
func (r HabitRecord) Value(i int) int {
	if i < 0 || i >= len(r.Values) {
		return 0
	}
	return r.Values[i]
}

// Table is the loaded habit log. A Table is never mutated after NewTable returns;
// every derivation hands back a new value.
type Table struct {
	Habits  []string
	Records []HabitRecord
}

// DateOnly drops the clock part of t, keeping its calendar day, as UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTable validates and copies habits and records into a new Table.
func NewTable(habits []string, records []HabitRecord) (*Table, error) {
	if len(habits) == 0 {
		return nil, &MalformedInputError{Reason: "no habit columns"}
	}

	seenHabit := make(map[string]bool, len(habits))
	ownedHabits := make([]string, 0, len(habits))
	for _, h := range habits {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, &MalformedInputError{Reason: "empty habit name"}
		}
		if seenHabit[name] {
			return nil, &MalformedInputError{Column: name, Reason: "duplicate habit column"}
		}
		seenHabit[name] = true
		ownedHabits = append(ownedHabits, name)
	}

	type key struct {
		person string
		date   string
	}
	seen := make(map[key]bool, len(records))
	owned := make([]HabitRecord, 0, len(records))

	for _, r := range records {
		person := strings.TrimSpace(r.Person)
		if person == "" {
			return nil, &MalformedInputError{Reason: "record without person"}
		}
		if r.Date.IsZero() {
			return nil, &MalformedInputError{Reason: "record for " + person + " has no date"}
		}
		if len(r.Values) > len(ownedHabits) {
			return nil, &MalformedInputError{Reason: "record for " + person + " has more values than habits"}
		}

		date := DateOnly(r.Date)
		k := key{person: person, date: date.Format(DateLayout)}
		if seen[k] {
			return nil, &MalformedInputError{Reason: "duplicate record for " + person + " on " + k.date}
		}
		seen[k] = true

		values := make([]int, len(ownedHabits))
		copy(values, r.Values)
		owned = append(owned, HabitRecord{Person: person, Date: date, Values: values})
	}

	return &Table{Habits: ownedHabits, Records: owned}, nil
}

// HabitIndex returns the column position of a habit.
func (t *Table) HabitIndex(name string) (int, bool) {
	for i, h := range t.Habits {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Persons returns the distinct persons in first-seen order.
func (t *Table) Persons() []string {
	seen := make(map[string]bool)
	persons := make([]string, 0)
	for _, r := range t.Records {
		if !seen[r.Person] {
			seen[r.Person] = true
			persons = append(persons, r.Person)
		}
	}
	return persons
}

// Without returns a copy of the table minus the records of the given persons.
func (t *Table) Without(persons []string) *Table {
	excluded := make(map[string]bool, len(persons))
	for _, p := range persons {
		excluded[p] = true
	}

	habits := make([]string, len(t.Habits))
	copy(habits, t.Habits)

	records := make([]HabitRecord, 0, len(t.Records))
	for _, r := range t.Records {
		if excluded[r.Person] {
			continue
		}
		records = append(records, r.Clone())
	}
	return &Table{Habits: habits, Records: records}
}

// ForPerson returns copies of a person's records sorted by date.
func (t *Table) ForPerson(person string) []HabitRecord {
	var out []HabitRecord
	for _, r := range t.Records {
		if r.Person == person {
			out = append(out, r.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// DistinctDates counts the calendar days present in the table. Aggregate uses it on
// the table with aggregate rows already removed.
func (t *Table) DistinctDates() int {
	days := make(map[string]bool)
	for _, r := range t.Records {
		days[r.Date.Format(DateLayout)] = true
	}
	return len(days)
}
