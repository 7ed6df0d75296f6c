package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/metrics"
)

// DefaultAggregateMarkers are the person names used for group total rows.
var DefaultAggregateMarkers = []string{"Toplam", "Total"}

// DashboardService answers the dashboard queries. Every call loads the table through
// the repository and derives its answer from it without modifying it.
type DashboardService struct {
	repo    domain.TableRepository
	markers []string
}

func NewDashboardService(repo domain.TableRepository, markers []string) *DashboardService {
	if len(markers) == 0 {
		markers = DefaultAggregateMarkers
	}
	return &DashboardService{
		repo:    repo,
		markers: markers,
	}
}

func (s *DashboardService) load(ctx context.Context) (*domain.Table, error) {
	table, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard service: load table: %w", err)
	}
	return table, nil
}

// ListPersons returns every person in first-seen order, group total rows included.
func (s *DashboardService) ListPersons(ctx context.Context) ([]string, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return table.Persons(), nil
}

func (s *DashboardService) ListHabits(ctx context.Context) ([]string, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), table.Habits...), nil
}

func (s *DashboardService) personRecords(ctx context.Context, person string) (*domain.Table, []domain.HabitRecord, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	records := table.ForPerson(person)
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrPersonNotFound, person)
	}
	return table, records, nil
}

func (s *DashboardService) GetCalendarView(ctx context.Context, person string) (*domain.CalendarView, error) {
	table, records, err := s.personRecords(ctx, person)
	if err != nil {
		return nil, err
	}

	view := domain.BuildCalendar(person, table.Habits, records)
	return &view, nil
}

func (s *DashboardService) GetTimeSeries(ctx context.Context, person string) ([]domain.TimeSeriesPoint, error) {
	table, records, err := s.personRecords(ctx, person)
	if err != nil {
		return nil, err
	}
	return domain.BuildTimeSeries(table.Habits, records), nil
}

// ListWeeks buckets the table without the group total rows.
func (s *DashboardService) ListWeeks(ctx context.Context) ([]domain.WeekSummary, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	weeks := domain.BucketWeeks(table.Without(s.markers).Records)
	summaries := make([]domain.WeekSummary, 0, len(weeks))
	for _, w := range weeks {
		summaries = append(summaries, w.Summary())
	}
	return summaries, nil
}

func (s *DashboardService) GetScoreTable(ctx context.Context, query domain.ScoreQuery) (*domain.ScoreTable, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result, err := domain.Aggregate(table, query, s.markers)
	if err != nil {
		return nil, err
	}

	scope := "week"
	if query.Scope.IsAll() {
		scope = "all"
	}
	metrics.RecordScoreQuery(scope)
	return result, nil
}
