package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-management-backend/internal/mw"
)

// AdminDashboard handles GET /api/admin/dashboard.
func (h *Handler) AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.AdminDashboard())
}

// Me handles GET /api/me.
func (h *Handler) Me(c *gin.Context) {
	st, err := h.svc.Student(c.GetString(mw.UserKey))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// MyDashboard handles GET /api/me/dashboard.
func (h *Handler) MyDashboard(c *gin.Context) {
	dash, err := h.svc.StudentDashboard(c.GetString(mw.UserKey))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Events handles GET /api/admin/ws and streams hall events.
func (h *Handler) Events(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live events are disabled"})
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, c.GetString(mw.UserKey)); err != nil {
		// ServeWS has already written the failure response.
		c.Abort()
	}
}
