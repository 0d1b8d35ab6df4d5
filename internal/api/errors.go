package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hall-management-backend/internal/hall"
)

// handleServiceError maps a hall error to an HTTP status and JSON body.
func handleServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, hall.ErrStudentNotFound),
		errors.Is(err, hall.ErrRoomNotFound),
		errors.Is(err, hall.ErrComplaintNotFound),
		errors.Is(err, hall.ErrAppointmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, hall.ErrRoomFull),
		errors.Is(err, hall.ErrAlreadyAssigned),
		errors.Is(err, hall.ErrRoomNotEmpty),
		errors.Is(err, hall.ErrDuplicateStudent),
		errors.Is(err, hall.ErrDuplicateRoom),
		errors.Is(err, hall.ErrDuplicateUser):
		status = http.StatusConflict
	case errors.Is(err, hall.ErrInvalidCapacity):
		status = http.StatusBadRequest
	case errors.Is(err, hall.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, hall.ErrPersistence):
		// The change is live in memory but did not reach storage.
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request applied but not saved")
		c.AbortWithStatusJSON(status, gin.H{"error": "change applied but could not be saved", "applied": true})
		return
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled service error")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
