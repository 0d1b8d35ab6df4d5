package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/model"
	"hall-management-backend/internal/parse"
)

type studentRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" binding:"required"`
	Contact    string `json:"contact"`
	Distance   int    `json:"distance"`
	Merit      int    `json:"merit" binding:"required"`
	Income     int    `json:"income"`
	Department string `json:"department"`
}

func (r studentRequest) student() hall.Student {
	return hall.Student{
		ID:         r.ID,
		Name:       r.Name,
		Contact:    r.Contact,
		Distance:   r.Distance,
		Merit:      r.Merit,
		Income:     r.Income,
		Department: r.Department,
	}
}

type signupRequest struct {
	studentRequest
	Password string `json:"password" binding:"required,min=6"`
}

// Signup handles POST /api/signup: a student creates their own record and
// login in one step.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := parse.Student(req.student())
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.RegisterStudent(c.Request.Context(), st, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ListStudents handles GET /api/admin/students. ?unassigned=true keeps only
// students without a seat.
func (h *Handler) ListStudents(c *gin.Context) {
	students := h.svc.Students()
	if c.Query("unassigned") == "true" {
		filtered := students[:0]
		for _, st := range students {
			if !st.Assigned() {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	if students == nil {
		students = []hall.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// CreateStudent handles POST /api/admin/students. Any room in the body is
// ignored; seats are handed out through /seats and /allocations.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := parse.Student(req.student())
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.AddStudent(c.Request.Context(), st); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// UpdateStudent handles PUT /api/admin/students/:id. The ID and seat are
// kept.
func (h *Handler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.ID = id
	st, err := parse.Student(req.student())
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.UpdateStudent(c.Request.Context(), id, st); err != nil {
		handleServiceError(c, err)
		return
	}
	updated, err := h.svc.Student(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteStudent handles DELETE /api/admin/students/:id. The student's seat,
// account and push subscriptions go with them.
func (h *Handler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteStudent(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	if h.db != nil {
		if err := h.db.WithContext(c.Request.Context()).
			Where("student_id = ?", id).
			Delete(&model.PushSubscription{}).Error; err != nil {
			logrus.WithError(err).WithField("student", id).Warn("Failed to delete push subscriptions")
		}
	}
	c.Status(http.StatusNoContent)
}
