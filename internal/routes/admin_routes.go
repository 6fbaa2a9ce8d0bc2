package routes

import (
	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine, h handlers) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.GET("/users", h.auth.ListUsers)
		admin.POST("/users", h.auth.CreateUser)

		admin.GET("/drivers", h.drivers.ListDrivers)
		admin.POST("/drivers", h.drivers.CreateDriver)
		admin.GET("/drivers/:id", h.drivers.GetDriver)
		admin.PUT("/drivers/:id", h.drivers.UpdateDriver)
		admin.DELETE("/drivers/:id", h.drivers.DeleteDriver)

		admin.GET("/routes", h.routes.ListRoutes)
		admin.POST("/routes", h.routes.CreateRoute)
		admin.GET("/routes/:id", h.routes.GetRoute)
		admin.PUT("/routes/:id", h.routes.UpdateRoute)
		admin.PATCH("/routes/:id/stages", h.routes.ReplaceStages)
		admin.DELETE("/routes/:id", h.routes.DeleteRoute)

		admin.GET("/shifts", h.shifts.ListShifts)
		admin.POST("/shifts", h.shifts.CreateShift)
		admin.POST("/shifts/generate", h.shifts.GenerateShifts)
		admin.POST("/shifts/copy-week", h.shifts.CopyWeek)
		admin.GET("/shifts/export", h.shifts.ExportWeek)
		admin.GET("/shifts/:id", h.shifts.GetShift)
		admin.PUT("/shifts/:id", h.shifts.UpdateShift)
		admin.DELETE("/shifts/:id", h.shifts.DeleteShift)

		admin.GET("/assignments", h.assignments.ListAssignments)
		admin.POST("/assignments", h.assignments.CreateAssignment)
		admin.GET("/assignments/:id", h.assignments.GetAssignment)
		admin.PUT("/assignments/:id", h.assignments.UpdateAssignment)
		admin.DELETE("/assignments/:id", h.assignments.CancelAssignment)
	}
}
