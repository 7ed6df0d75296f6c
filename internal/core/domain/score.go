package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DaysPerWeek is the day count used for the maximum score of a single week,
// regardless of how many days of that week have records.
const DaysPerWeek = 7

const allSelector = "all"

// Scope selects the aggregation window: one week (Week >= 1) or all weeks (Week == 0).
type Scope struct {
	Week int
}

var AllWeeks = Scope{}

func WeekScope(ordinal int) Scope {
	return Scope{Week: ordinal}
}

func (s Scope) IsAll() bool {
	return s.Week == 0
}

func (s Scope) String() string {
	if s.IsAll() {
		return allSelector
	}
	return strconv.Itoa(s.Week)
}

// ParseScope accepts "", "all" or a 1-based week ordinal.
func ParseScope(raw string) (Scope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, allSelector) {
		return AllWeeks, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Scope{}, fmt.Errorf("%w: week must be \"all\" or a positive number, got %q", ErrInvalidQuery, raw)
	}
	return WeekScope(n), nil
}

// HabitSelector selects one habit, or every habit when Habit is empty.
type HabitSelector struct {
	Habit string
}

var AllHabits = HabitSelector{}

func (h HabitSelector) IsAll() bool {
	return h.Habit == ""
}

func (h HabitSelector) String() string {
	if h.IsAll() {
		return allSelector
	}
	return h.Habit
}

// ParseHabitSelector accepts "", "all" or a habit name. Names are validated by Aggregate.
func ParseHabitSelector(raw string) HabitSelector {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, allSelector) {
		return AllHabits
	}
	return HabitSelector{Habit: raw}
}

type ScoreQuery struct {
	Scope Scope
	Habit HabitSelector
}

// ScoreRow is one leaderboard line.
// SuccessPercentage is nil when the maximum score of the scope is zero.
type ScoreRow struct {
	Rank              int            `json:"rank"`
	Person            string         `json:"person"`
	HabitSums         map[string]int `json:"habit_sums"`
	Score             int            `json:"score"`
	SuccessPercentage *float64       `json:"success_percentage"`
}

type ScoreTable struct {
	Scope            string     `json:"scope"`
	Week             int        `json:"week,omitempty"`
	Habit            string     `json:"habit"`
	DaysInScope      int        `json:"days_in_scope"`
	HabitsConsidered int        `json:"habits_considered"`
	MaxScore         int        `json:"max_score"`
	Rows             []ScoreRow `json:"rows"`
}

// SuccessPercentage returns score/maxScore*100 rounded to two decimals, or nil when
// maxScore is zero.
func SuccessPercentage(score, maxScore int) *float64 {
	if maxScore == 0 {
		return nil
	}
	p := math.Round(float64(score)*10000/float64(maxScore)) / 100
	return &p
}

// Aggregate builds the leaderboard for a query. Records of the aggregate marker
// persons are dropped first; weeks are bucketed on what remains.
func Aggregate(table *Table, query ScoreQuery, markers []string) (*ScoreTable, error) {
	clean := table.Without(markers)

	columns := make([]int, 0, len(clean.Habits))
	if query.Habit.IsAll() {
		for i := range clean.Habits {
			columns = append(columns, i)
		}
	} else {
		idx, ok := clean.HabitIndex(query.Habit.Habit)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHabit, query.Habit.Habit)
		}
		columns = append(columns, idx)
	}

	result := &ScoreTable{
		Habit:            query.Habit.String(),
		HabitsConsidered: len(columns),
		Rows:             make([]ScoreRow, 0),
	}

	var records []HabitRecord
	if query.Scope.IsAll() {
		records = clean.Records
		result.Scope = "Tüm Haftalar"
		// Days of the cleaned table: a date carried only by an aggregate row is not
		// counted, unlike a count over the raw dataset.
		result.DaysInScope = clean.DistinctDates()
	} else {
		week, err := FindWeek(BucketWeeks(clean.Records), query.Scope.Week)
		if err != nil {
			return nil, err
		}
		records = week.Records
		result.Scope = week.Label
		result.Week = week.Ordinal
		result.DaysInScope = DaysPerWeek
	}
	result.MaxScore = result.DaysInScope * result.HabitsConsidered

	order := make([]string, 0)
	sums := make(map[string][]int)
	for _, r := range records {
		personSums, ok := sums[r.Person]
		if !ok {
			personSums = make([]int, len(columns))
			sums[r.Person] = personSums
			order = append(order, r.Person)
		}
		for j, col := range columns {
			personSums[j] += r.Value(col)
		}
	}

	for _, person := range order {
		row := ScoreRow{
			Person:    person,
			HabitSums: make(map[string]int, len(columns)),
		}
		for j, col := range columns {
			row.HabitSums[clean.Habits[col]] = sums[person][j]
			row.Score += sums[person][j]
		}
		row.SuccessPercentage = SuccessPercentage(row.Score, result.MaxScore)
		result.Rows = append(result.Rows, row)
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		return result.Rows[i].Score > result.Rows[j].Score
	})
	for i := range result.Rows {
		result.Rows[i].Rank = i + 1
	}

	return result, nil
}
