package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/hub"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *hall.Service
	db      *gorm.DB // push subscriptions; nil disables them
	webpush *webpush.Options
	hub     *hub.Hub // nil disables live events
}

// NewHandler creates a new API handler.
func NewHandler(svc *hall.Service, db *gorm.DB, webpushOptions *webpush.Options, h *hub.Hub) *Handler {
	return &Handler{
		svc:     svc,
		db:      db,
		webpush: webpushOptions,
		hub:     h,
	}
}
