package routes

import (
	"github.com/gin-gonic/gin"
)

// WebSocketRoutes authenticates with ?token= since browsers cannot set
// headers on the upgrade request.
func WebSocketRoutes(r *gin.Engine, h handlers) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/assignments", h.ws.HandleAssignmentWebSocket)
	}
}
