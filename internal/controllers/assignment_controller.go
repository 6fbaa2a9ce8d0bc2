package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/repository"
	"fleet_shifts/internal/services"
)

type AssignmentController struct {
	assignments *services.AssignmentService
}

func NewAssignmentController(assignments *services.AssignmentService) *AssignmentController {
	return &AssignmentController{assignments: assignments}
}

// ListAssignments accepts optional ?driver_id=, ?shift_id= and ?status=.
func (ctl *AssignmentController) ListAssignments(c *gin.Context) {
	driverID, ok := optionalUintQuery(c, "driver_id")
	if !ok {
		return
	}
	shiftID, ok := optionalUintQuery(c, "shift_id")
	if !ok {
		return
	}
	filter := repository.AssignmentFilter{Status: c.Query("status")}
	if driverID != nil {
		filter.DriverID = *driverID
	}
	if shiftID != nil {
		filter.ShiftID = *shiftID
	}

	out, err := ctl.assignments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (ctl *AssignmentController) GetAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := ctl.assignments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": a})
}

func (ctl *AssignmentController) CreateAssignment(c *gin.Context) {
	var input services.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	a, err := ctl.assignments.Assign(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": a})
}

func (ctl *AssignmentController) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	a, err := ctl.assignments.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": a})
}

// CancelAssignment backs DELETE; the assignment is kept as cancelled.
func (ctl *AssignmentController) CancelAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := ctl.assignments.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment cancelled", "assignment": a})
}

// MyAssignments lists the logged-in driver's assignments.
func (ctl *AssignmentController) MyAssignments(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	out, err := ctl.assignments.ListForDriverUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// MyAssignmentsToday lists what the logged-in driver works today.
func (ctl *AssignmentController) MyAssignmentsToday(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	out, err := ctl.assignments.TodayForDriverUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
