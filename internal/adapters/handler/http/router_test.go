package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
)

func newTestDeps(t *testing.T, withAuth bool) (RouterDependencies, *repository.InMemoryTableRepository, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table, err := domain.NewTable([]string{"Kitap"}, []domain.HabitRecord{
		{Person: "Ali", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Values: []int{1}},
	})
	require.NoError(t, err)
	repo := repository.NewInMemoryTableRepository(table)

	deps := RouterDependencies{
		DashboardHandler: NewDashboardHandler(services.NewDashboardService(repo, nil)),
		Source:           repo,
		Log:              logger.Nop(),
		StartTime:        time.Now(),
	}

	var tokens *services.TokenService
	if withAuth {
		hash, err := bcrypt.GenerateFromPassword([]byte("viewer-password"), bcrypt.MinCost)
		require.NoError(t, err)
		tokens = services.NewTokenService("router-secret", "kanso-test", time.Hour)
		deps.AuthHandler = NewAuthHandler(services.NewAuthService(string(hash), tokens))
		deps.TokenValidator = tokens
	}
	return deps, repo, tokens
}

func serve(router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	deps, repo, _ := newTestDeps(t, false)
	router := NewRouter(deps)

	w := serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"available"`)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	repo.Fail(domain.ErrSourceUnavailable)
	w = serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_MetricsAndDocs(t *testing.T) {
	deps, _, _ := newTestDeps(t, false)
	router := NewRouter(deps)

	serve(router, http.MethodGet, "/api/v1/persons", nil)

	w := serve(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kanso_dashboard_http_requests_total")

	w = serve(router, http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kanso Dashboard API")
}

func TestRouter_PublicAPI(t *testing.T) {
	deps, _, _ := newTestDeps(t, false)
	router := NewRouter(deps)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/persons", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/api/v1/auth/login", nil).Code)
}

func TestRouter_ProtectedAPI(t *testing.T) {
	deps, _, tokens := newTestDeps(t, true)
	router := NewRouter(deps)

	t.Run("No token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/persons", nil).Code)
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := tokens.GenerateToken(services.ViewerSubject)
		require.NoError(t, err)

		w := serve(router, http.MethodGet, "/api/v1/persons", http.Header{"Authorization": {"Bearer " + token}})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Login is reachable without a token", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/v1/auth/login", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Health stays public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", nil).Code)
	})
}

func TestRouter_Refresh(t *testing.T) {
	deps, _, tokens := newTestDeps(t, true)
	queue := new(MockRefreshQueue)
	queue.On("Enqueue", mock.Anything).Return(true)
	deps.RefreshHandler = NewRefreshHandler(queue)
	router := NewRouter(deps)

	t.Run("Requires a token when auth is enabled", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/api/v1/refresh", nil).Code)
		queue.AssertNotCalled(t, "Enqueue", mock.Anything)
	})

	t.Run("Accepted with a token", func(t *testing.T) {
		token, err := tokens.GenerateToken(services.ViewerSubject)
		require.NoError(t, err)

		w := serve(router, http.MethodPost, "/api/v1/refresh", http.Header{"Authorization": {"Bearer " + token}})
		assert.Equal(t, http.StatusAccepted, w.Code)
		queue.AssertNumberOfCalls(t, "Enqueue", 1)
	})

	t.Run("Not served without a handler", func(t *testing.T) {
		deps, _, _ := newTestDeps(t, false)
		assert.Equal(t, http.StatusNotFound, serve(NewRouter(deps), http.MethodPost, "/api/v1/refresh", nil).Code)
	})
}
