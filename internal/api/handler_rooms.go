package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/parse"
)

// roomResponse adds derived seat counts to a room.
type roomResponse struct {
	hall.Room
	FreeSeats int `json:"freeSeats"`
}

func toRoomResponses(rooms []hall.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomResponse{Room: r, FreeSeats: r.FreeSeats()})
	}
	return out
}

// ListRooms handles GET /api/admin/rooms. ?available=true keeps only rooms
// with a free seat.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms := h.svc.Rooms()
	if c.Query("available") == "true" {
		rooms = h.svc.AvailableRooms()
	}
	c.JSON(http.StatusOK, toRoomResponses(rooms))
}

type createRoomRequest struct {
	Number   string `json:"number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
}

// CreateRoom handles POST /api/admin/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	number, err := parse.RoomNumber(req.Number)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := parse.Capacity(req.Capacity); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.AddRoom(c.Request.Context(), number, req.Capacity); err != nil {
		handleServiceError(c, err)
		return
	}
	room, err := h.svc.Room(number)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, roomResponse{Room: room, FreeSeats: room.FreeSeats()})
}

// DeleteRoom handles DELETE /api/admin/rooms/:number.
func (h *Handler) DeleteRoom(c *gin.Context) {
	number, err := parse.RoomNumber(c.Param("number"))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.DeleteRoom(c.Request.Context(), number); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
