package routes

import (
	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine, h handlers) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole(models.RoleDriver))
	{
		driver.GET("/profile", h.drivers.Profile)
		driver.GET("/assignments", h.assignments.MyAssignments)
		driver.GET("/assignments/today", h.assignments.MyAssignmentsToday)
	}
}
