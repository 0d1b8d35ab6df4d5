package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hall-management-backend/config"
	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. Cached GET responses
// are dropped whenever the hall changes.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	responseCache := mw.NewResponseCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	h.svc.Observe(responseCache.Invalidate)
	caching := responseCache.Handler()

	auth := mw.BasicAuth(h.svc)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/signup", h.Signup)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		admin := api.Group("/admin", auth, mw.RequireRole(hall.RoleAdmin))
		{
			admin.GET("/rooms", caching, h.ListRooms)
			admin.POST("/rooms", h.CreateRoom)
			admin.DELETE("/rooms/:number", h.DeleteRoom)

			admin.GET("/students", caching, h.ListStudents)
			admin.POST("/students", h.CreateStudent)
			admin.PUT("/students/:id", h.UpdateStudent)
			admin.DELETE("/students/:id", h.DeleteStudent)

			admin.POST("/seats", h.AssignSeat)
			admin.DELETE("/seats/:student_id", h.UnassignSeat)
			admin.POST("/allocations", h.RunAllocation)

			admin.GET("/complaints", caching, h.ListComplaints)
			admin.POST("/complaints/:id/resolve", h.ResolveComplaint)

			admin.GET("/appointments", caching, h.ListAppointments)
			admin.POST("/appointments/:id/approve", h.ApproveAppointment)
			admin.DELETE("/appointments/:id", h.RejectAppointment)

			admin.GET("/dashboard", caching, h.AdminDashboard)
			admin.GET("/ws", h.Events)
		}

		me := api.Group("/me", auth, mw.RequireRole(hall.RoleStudent))
		{
			me.GET("", caching, h.Me)
			me.GET("/dashboard", caching, h.MyDashboard)
			me.GET("/complaints", caching, h.MyComplaints)
			me.POST("/complaints", h.SubmitComplaint)
			me.GET("/appointments", caching, h.MyAppointments)
			me.POST("/appointments", h.RequestAppointment)
			me.GET("/subscription", h.GetSubscription)
			me.PUT("/subscription", h.PutSubscription)
			me.DELETE("/subscription", h.DeleteSubscription)
		}
	}

	return r
}
