package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/parse"
)

type assignSeatRequest struct {
	StudentID  string `json:"studentId" binding:"required"`
	RoomNumber string `json:"roomNumber" binding:"required"`
}

// AssignSeat handles POST /api/admin/seats.
func (h *Handler) AssignSeat(c *gin.Context) {
	var req assignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	number, err := parse.RoomNumber(req.RoomNumber)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.AssignSeat(c.Request.Context(), req.StudentID, number); err != nil {
		handleServiceError(c, err)
		return
	}
	st, err := h.svc.Student(req.StudentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UnassignSeat handles DELETE /api/admin/seats/:student_id. Releasing a
// student without a seat succeeds.
func (h *Handler) UnassignSeat(c *gin.Context) {
	if err := h.svc.UnassignSeat(c.Request.Context(), c.Param("student_id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RunAllocation handles POST /api/admin/allocations. Placements made before
// a save failure stay in effect and are reported alongside the error.
func (h *Handler) RunAllocation(c *gin.Context) {
	report, err := h.svc.RunAllocation(c.Request.Context())
	if errors.Is(err, hall.ErrPersistence) {
		logrus.WithError(err).Error("Allocation applied but not saved")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":  "allocation applied but could not be saved",
			"report": report,
		})
		return
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
