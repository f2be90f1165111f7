package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking endpoints.
// schedulerMiddleware guards the lifecycle commands issued by the external scheduler.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, schedulerMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
	}

	// === Scheduler Routes ===
	{
		group.POST("/:id/cancel", schedulerMiddleware, h.Cancel)
		group.POST("/:id/archive", schedulerMiddleware, h.Archive)
	}
}
