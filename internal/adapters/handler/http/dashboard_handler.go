package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/persons", h.ListPersons)
	router.GET("/persons/:person/calendar", h.GetCalendar)
	router.GET("/persons/:person/timeseries", h.GetTimeSeries)
	router.GET("/habits", h.ListHabits)
	router.GET("/weeks", h.ListWeeks)
	router.GET("/scores", h.GetScores)
}

// ListPersons godoc
// @Summary      List persons
// @Description  Distinct persons in first-seen order, group total rows included.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  personsResponse
// @Failure      422  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /persons [get]
func (h *DashboardHandler) ListPersons(c *gin.Context) {
	persons, err := h.svc.ListPersons(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, personsResponse{Persons: persons})
}

// ListHabits godoc
// @Summary      List habits
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  habitsResponse
// @Router       /habits [get]
func (h *DashboardHandler) ListHabits(c *gin.Context) {
	habits, err := h.svc.ListHabits(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, habitsResponse{Habits: habits})
}

// GetCalendar godoc
// @Summary      Completion calendar of a person
// @Description  One column per day with the habit flags, the chain and a week separator flag.
// @Tags         dashboard
// @Produce      json
// @Param        person  path  string  true  "Person name"
// @Success      200  {object}  calendarResponse
// @Failure      404  {object}  map[string]string
// @Router       /persons/{person}/calendar [get]
func (h *DashboardHandler) GetCalendar(c *gin.Context) {
	view, err := h.svc.GetCalendarView(c.Request.Context(), c.Param("person"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCalendarResponse(view))
}

// GetTimeSeries godoc
// @Summary      Per-habit time series of a person
// @Tags         dashboard
// @Produce      json
// @Param        person  path  string  true  "Person name"
// @Success      200  {object}  timeSeriesResponse
// @Failure      404  {object}  map[string]string
// @Router       /persons/{person}/timeseries [get]
func (h *DashboardHandler) GetTimeSeries(c *gin.Context) {
	person := c.Param("person")
	points, err := h.svc.GetTimeSeries(c.Request.Context(), person)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimeSeriesResponse(person, points))
}

// ListWeeks godoc
// @Summary      List weeks
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  weeksResponse
// @Router       /weeks [get]
func (h *DashboardHandler) ListWeeks(c *gin.Context) {
	weeks, err := h.svc.ListWeeks(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWeeksResponse(weeks))
}

// GetScores godoc
// @Summary      Leaderboard
// @Description  Scores per person for one week or all weeks, over every habit or a single one.
// @Tags         dashboard
// @Produce      json
// @Param        week   query  string  false  "all or a 1-based week ordinal"  default(all)
// @Param        habit  query  string  false  "all or a habit name"            default(all)
// @Success      200  {object}  domain.ScoreTable
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /scores [get]
func (h *DashboardHandler) GetScores(c *gin.Context) {
	scope, err := domain.ParseScope(c.Query("week"))
	if err != nil {
		handleError(c, err)
		return
	}

	query := domain.ScoreQuery{
		Scope: scope,
		Habit: domain.ParseHabitSelector(c.Query("habit")),
	}

	table, err := h.svc.GetScoreTable(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}
