package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/workers"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
)

const habitLog = "isim,Tarih,Egzersiz,Günlük rutin,Nafile ibadet,Bireysel\n" +
	"Ayşe,2024-11-04,1,1,1,1\n" +
	"Mehmet,2024-11-04,1,0,0,0\n" +
	"Toplam,2024-11-04,2,1,1,1\n" +
	"Ayşe,2024-11-05,1,1,1,1\n" +
	"Mehmet,2024-11-05,1,1,0,0\n" +
	"Toplam,2024-11-05,2,2,1,1\n" +
	"Ayşe,2024-11-12,0,1,0,0\n"

func setupServer(t *testing.T, mutate func(cfg *config.Config)) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "habits.csv")
	require.NoError(t, os.WriteFile(path, []byte(habitLog), 0o644))

	cfg := config.New()
	cfg.Data.Path = path
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	log := logger.Nop()
	source := repository.NewCSVTableRepository(cfg.Data.Path, repository.LayoutFromConfig(cfg.Data))
	tables := repository.NewCachedTableRepository(source, nil, cfg.Redis.TTL, log)

	return newRouter(cfg, tables, nil, nil, log, time.Now()), path
}

func getJSON(t *testing.T, router *gin.Engine, path string, header http.Header, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestEndToEnd_DashboardFromCSV(t *testing.T) {
	router, path := setupServer(t, nil)

	t.Run("1. Weeks", func(t *testing.T) {
		var body struct {
			Weeks []struct {
				Label   string `json:"label"`
				Records int    `json:"records"`
			} `json:"weeks"`
		}
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/weeks", nil, &body))

		require.Len(t, body.Weeks, 2)
		assert.Equal(t, "1. Hafta (04-11 -- 05-11)", body.Weeks[0].Label)
		assert.Equal(t, 4, body.Weeks[0].Records)
		assert.Equal(t, "2. Hafta (12-11 -- 12-11)", body.Weeks[1].Label)
	})

	t.Run("2. Weekly leaderboard", func(t *testing.T) {
		var table domain.ScoreTable
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/scores?week=1", nil, &table))

		require.Len(t, table.Rows, 2)
		assert.Equal(t, 28, table.MaxScore)
		assert.Equal(t, "Ayşe", table.Rows[0].Person)
		assert.Equal(t, 8, table.Rows[0].Score)
		assert.Equal(t, 28.57, *table.Rows[0].SuccessPercentage)
		assert.Equal(t, 3, table.Rows[1].Score)
		assert.Equal(t, 10.71, *table.Rows[1].SuccessPercentage)
	})

	t.Run("3. Overall leaderboard for one habit", func(t *testing.T) {
		var table domain.ScoreTable
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/scores?habit=Egzersiz", nil, &table))

		assert.Equal(t, 3, table.DaysInScope)
		assert.Equal(t, 3, table.MaxScore)
		assert.Equal(t, 2, table.Rows[0].Score)
		assert.Equal(t, 66.67, *table.Rows[0].SuccessPercentage)
	})

	t.Run("4. Calendar of the group total", func(t *testing.T) {
		var body struct {
			Days []struct {
				Chain int `json:"chain"`
			} `json:"days"`
		}
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/persons/Toplam/calendar", nil, &body))
		require.Len(t, body.Days, 2)
		assert.Equal(t, 4, body.Days[0].Chain)
	})

	t.Run("5. Edited file is picked up", func(t *testing.T) {
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.WriteFile(path, []byte(habitLog+"Mehmet,2024-11-13,1,1,1,1\n"), 0o644))
		require.NoError(t, os.Chtimes(path, later, later))

		var body struct {
			Persons []string `json:"persons"`
		}
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/persons", nil, &body))

		var table domain.ScoreTable
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/scores?week=2", nil, &table))
		assert.Len(t, table.Rows, 2)
	})

	t.Run("6. Broken file is 422", func(t *testing.T) {
		later := time.Now().Add(2 * time.Minute)
		require.NoError(t, os.WriteFile(path, []byte(habitLog+"Mehmet,not-a-date,1,1,1,1\n"), 0o644))
		require.NoError(t, os.Chtimes(path, later, later))

		assert.Equal(t, http.StatusUnprocessableEntity, getJSON(t, router, "/api/v1/persons", nil, nil))
	})
}

func TestEndToEnd_ProtectedDashboard(t *testing.T) {
	hash, err := services.HashPassword("viewer-password")
	require.NoError(t, err)

	router, _ := setupServer(t, func(cfg *config.Config) {
		cfg.Auth.JWTSecret = "e2e-secret"
		cfg.Auth.ViewerPasswordHash = hash
	})

	assert.Equal(t, http.StatusUnauthorized, getJSON(t, router, "/api/v1/persons", nil, nil))

	body, _ := json.Marshal(map[string]string{"password": "viewer-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	var persons struct {
		Persons []string `json:"persons"`
	}
	code := getJSON(t, router, "/api/v1/persons", http.Header{"Authorization": {"Bearer " + login.Token}}, &persons)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Ayşe", "Mehmet", "Toplam"}, persons.Persons)
}

func TestEndToEnd_OnDemandRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "habits.csv")
	require.NoError(t, os.WriteFile(path, []byte(habitLog), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Data.Path = path
	cfg.RefreshInterval = 0

	log := logger.Nop()
	source := repository.NewCSVTableRepository(cfg.Data.Path, repository.LayoutFromConfig(cfg.Data))
	tables := repository.NewCachedTableRepository(source, nil, cfg.Redis.TTL, log)
	worker := workers.NewRefreshWorker(tables, cfg.RefreshInterval, log)
	router := newRouter(cfg, tables, worker, nil, log, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	weekTwoScore := func() int {
		var table domain.ScoreTable
		require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/scores?week=2", nil, &table))
		require.Len(t, table.Rows, 1)
		return table.Rows[0].Score
	}
	require.Equal(t, 1, weekTwoScore())

	// Same size and mtime: the source version does not change.
	edited := strings.Replace(habitLog, "Ayşe,2024-11-12,0,1,0,0", "Ayşe,2024-11-12,1,1,0,0", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))
	assert.Equal(t, 1, weekTwoScore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	assert.Eventually(t, func() bool { return weekTwoScore() == 2 }, time.Second, 10*time.Millisecond)
}
