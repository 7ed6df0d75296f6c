package http

import (
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

type personsResponse struct {
	Persons []string `json:"persons"`
}

type habitsResponse struct {
	Habits []string `json:"habits"`
}

type weekResponse struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Records int    `json:"records"`
}

type weeksResponse struct {
	Weeks []weekResponse `json:"weeks"`
}

type calendarDayResponse struct {
	Date      string `json:"date"`
	Values    []int  `json:"values"`
	Chain     int    `json:"chain"`
	WeekStart bool   `json:"week_start"`
}

type calendarResponse struct {
	Person string                `json:"person"`
	Habits []string              `json:"habits"`
	Days   []calendarDayResponse `json:"days"`
}

type timeSeriesPointResponse struct {
	Date   string         `json:"date"`
	Values map[string]int `json:"values"`
}

type timeSeriesResponse struct {
	Person string                    `json:"person"`
	Points []timeSeriesPointResponse `json:"points"`
}

func toWeeksResponse(weeks []domain.WeekSummary) weeksResponse {
	out := weeksResponse{Weeks: make([]weekResponse, 0, len(weeks))}
	for _, w := range weeks {
		out.Weeks = append(out.Weeks, weekResponse{
			Ordinal: w.Ordinal,
			Label:   w.Label,
			Start:   w.Start.Format(domain.DateLayout),
			End:     w.End.Format(domain.DateLayout),
			Records: w.Records,
		})
	}
	return out
}

func toCalendarResponse(view *domain.CalendarView) calendarResponse {
	out := calendarResponse{
		Person: view.Person,
		Habits: view.Habits,
		Days:   make([]calendarDayResponse, 0, len(view.Days)),
	}
	for _, d := range view.Days {
		out.Days = append(out.Days, calendarDayResponse{
			Date:      d.Date.Format(domain.DateLayout),
			Values:    d.Values,
			Chain:     d.Chain,
			WeekStart: d.WeekStart,
		})
	}
	return out
}

func toTimeSeriesResponse(person string, points []domain.TimeSeriesPoint) timeSeriesResponse {
	out := timeSeriesResponse{
		Person: person,
		Points: make([]timeSeriesPointResponse, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, timeSeriesPointResponse{
			Date:   p.Date.Format(domain.DateLayout),
			Values: p.Values,
		})
	}
	return out
}
