package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fleet_shifts/internal/models"
	"fleet_shifts/internal/services"
)

type RouteController struct {
	routes *services.RouteService
}

func NewRouteController(routes *services.RouteService) *RouteController {
	return &RouteController{routes: routes}
}

// RouteResponse mirrors models.Route with Geometry as GeoJSON for output.
type RouteResponse struct {
	ID          uint           `json:"ID"`
	CreatedAt   time.Time      `json:"CreatedAt"`
	UpdatedAt   time.Time      `json:"UpdatedAt"`
	Name        string         `json:"name"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Geometry    string         `json:"geometry"`
	Stages      []models.Stage `json:"stages"`
}

// toRouteResponse converts a models.Route to a RouteResponse
func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, err := services.GeometryToGeoJSON(route.Geometry)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.ID).Warn("stored route geometry is unreadable")
	}
	stages := route.Stages
	if stages == nil {
		stages = []models.Stage{}
	}
	return RouteResponse{
		ID:          route.ID,
		CreatedAt:   route.CreatedAt,
		UpdatedAt:   route.UpdatedAt,
		Name:        route.Name,
		Origin:      route.Origin,
		Destination: route.Destination,
		Description: route.Description,
		Status:      route.Status,
		Geometry:    jsonGeom,
		Stages:      stages,
	}
}

func (ctl *RouteController) ListRoutes(c *gin.Context) {
	routes, err := ctl.routes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (ctl *RouteController) GetRoute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	route, err := ctl.routes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

// CreateRoute creates a route with an optional GeoJSON LineString and stages.
func (ctl *RouteController) CreateRoute(c *gin.Context) {
	var input services.CreateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	route, err := ctl.routes.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(*route)})
}

func (ctl *RouteController) UpdateRoute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.UpdateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route, err := ctl.routes.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

// ReplaceStages replaces the stage list of an existing route.
func (ctl *RouteController) ReplaceStages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Stages []services.StageInput `json:"stages" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	route, err := ctl.routes.ReplaceStages(c.Request.Context(), id, input.Stages)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(*route)})
}

func (ctl *RouteController) DeleteRoute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.routes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
