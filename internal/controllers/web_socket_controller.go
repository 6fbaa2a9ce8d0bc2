package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"
	"fleet_shifts/internal/notify"
	"fleet_shifts/internal/services"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS layer and the token
	},
}

// WebSocketController streams assignment events to connected drivers.
type WebSocketController struct {
	hub     *notify.Hub
	drivers *services.DriverService
}

func NewWebSocketController(hub *notify.Hub, drivers *services.DriverService) *WebSocketController {
	return &WebSocketController{hub: hub, drivers: drivers}
}

// authenticateDriver validates ?token= and resolves the driver profile.
func (ctl *WebSocketController) authenticateDriver(c *gin.Context) (*models.Driver, error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		return nil, errors.New("missing authentication token")
	}
	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Role != models.RoleDriver {
		return nil, errors.New("only drivers can subscribe to assignment events")
	}
	return ctl.drivers.GetByUserID(c.Request.Context(), claims.UserID)
}

// HandleAssignmentWebSocket upgrades the request and keeps the socket
// registered until the client goes away. Clients only receive; anything
// they send is ignored.
func (ctl *WebSocketController) HandleAssignmentWebSocket(c *gin.Context) {
	driver, err := ctl.authenticateDriver(c)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade connection to WebSocket")
		return
	}
	sc := &safeConn{conn: conn}
	ctl.hub.Register(driver.ID, sc)
	defer func() {
		ctl.hub.Unregister(driver.ID, sc)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sc.ping(); err != nil {
					return
				}
			}
		}
	}()
	defer close(done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("driver_id", driver.ID).Warn("WebSocket closed unexpectedly")
			}
			return
		}
	}
}
