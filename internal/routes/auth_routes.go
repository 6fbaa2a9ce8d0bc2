package routes

import (
	"fleet_shifts/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, h handlers) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.auth.Login)
		auth.GET("/me", middleware.RequireAuth(), h.auth.Me)
	}
}
