package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/workers"
)

type RefreshQueue interface {
	Enqueue(job workers.RefreshJob) bool
}

type RefreshHandler struct {
	queue RefreshQueue
}

func NewRefreshHandler(queue RefreshQueue) *RefreshHandler {
	return &RefreshHandler{
		queue: queue,
	}
}

func (h *RefreshHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/refresh", h.Refresh)
}

// Refresh godoc
// @Summary      Reload the habit table
// @Description  Drops the cached table and schedules a reload from the source, even when its version is unchanged.
// @Tags         admin
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /refresh [post]
func (h *RefreshHandler) Refresh(c *gin.Context) {
	if !h.queue.Enqueue(workers.RefreshJob{Reason: "api", Force: true}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh queue full"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}
