package api

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/mw"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ListComplaints handles GET /api/admin/complaints. ?pending=true hides
// resolved complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	complaints := h.svc.Complaints()
	if c.Query("pending") == "true" {
		filtered := complaints[:0]
		for _, cp := range complaints {
			if !cp.Resolved {
				filtered = append(filtered, cp)
			}
		}
		complaints = filtered
	}
	if complaints == nil {
		complaints = []hall.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

// ResolveComplaint handles POST /api/admin/complaints/:id/resolve.
func (h *Handler) ResolveComplaint(c *gin.Context) {
	if err := h.svc.ResolveComplaint(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAppointments handles GET /api/admin/appointments.
func (h *Handler) ListAppointments(c *gin.Context) {
	appointments := h.svc.Appointments()
	if appointments == nil {
		appointments = []hall.Appointment{}
	}
	c.JSON(http.StatusOK, appointments)
}

// ApproveAppointment handles POST /api/admin/appointments/:id/approve.
func (h *Handler) ApproveAppointment(c *gin.Context) {
	if err := h.svc.ApproveAppointment(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RejectAppointment handles DELETE /api/admin/appointments/:id.
func (h *Handler) RejectAppointment(c *gin.Context) {
	if err := h.svc.RejectAppointment(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyComplaints handles GET /api/me/complaints.
func (h *Handler) MyComplaints(c *gin.Context) {
	complaints := h.svc.StudentComplaints(c.GetString(mw.UserKey))
	if complaints == nil {
		complaints = []hall.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

type complaintRequest struct {
	Description string `json:"description" binding:"required"`
}

// SubmitComplaint handles POST /api/me/complaints.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.svc.SubmitComplaint(c.Request.Context(), c.GetString(mw.UserKey), req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MyAppointments handles GET /api/me/appointments.
func (h *Handler) MyAppointments(c *gin.Context) {
	appointments := h.svc.StudentAppointments(c.GetString(mw.UserKey))
	if appointments == nil {
		appointments = []hall.Appointment{}
	}
	c.JSON(http.StatusOK, appointments)
}

type appointmentRequest struct {
	Authority string `json:"authority" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
}

// RequestAppointment handles POST /api/me/appointments. Date is
// YYYY-MM-DD and time HH:MM.
func (h *Handler) RequestAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !dateRe.MatchString(req.Date) || !clockRe.MatchString(req.Time) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD and time HH:MM"})
		return
	}
	created, err := h.svc.RequestAppointment(c.Request.Context(), c.GetString(mw.UserKey), req.Authority, req.Date, req.Time)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
