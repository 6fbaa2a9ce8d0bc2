package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"fleet_shifts/internal/controllers"
	"fleet_shifts/internal/notify"
	"fleet_shifts/internal/services"
)

type handlers struct {
	auth        *controllers.AuthController
	drivers     *controllers.DriverController
	routes      *controllers.RouteController
	shifts      *controllers.ShiftController
	assignments *controllers.AssignmentController
	ws          *controllers.WebSocketController
}

// SetupRouter builds the gin engine. Request logs go to logWriter.
func SetupRouter(svc *services.Services, hub *notify.Hub, logWriter io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logWriter),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/health"}),
	))
	r.Use(gin.Recovery())

	h := handlers{
		auth:        controllers.NewAuthController(svc.Auth),
		drivers:     controllers.NewDriverController(svc.Drivers),
		routes:      controllers.NewRouteController(svc.Routes),
		shifts:      controllers.NewShiftController(svc.Shifts),
		assignments: controllers.NewAssignmentController(svc.Assignments),
		ws:          controllers.NewWebSocketController(hub, svc.Drivers),
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	AuthRoutes(r, h)
	AdminRoutes(r, h)
	DriverRoutes(r, h)
	WebSocketRoutes(r, h)

	return r
}
