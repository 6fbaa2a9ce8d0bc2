package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_shifts/internal/repository"
	"fleet_shifts/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ShiftController struct {
	shifts *services.ShiftService
}

func NewShiftController(shifts *services.ShiftService) *ShiftController {
	return &ShiftController{shifts: shifts}
}

// ListShifts accepts optional ?route_id= and ?week= filters.
func (ctl *ShiftController) ListShifts(c *gin.Context) {
	routeID, ok := optionalUintQuery(c, "route_id")
	if !ok {
		return
	}
	week, ok := optionalIntQuery(c, "week")
	if !ok {
		return
	}
	shifts, err := ctl.shifts.List(c.Request.Context(), repository.ShiftFilter{RouteID: routeID, WeekNumber: week})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shifts})
}

func (ctl *ShiftController) GetShift(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shift, err := ctl.shifts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": shift})
}

func (ctl *ShiftController) CreateShift(c *gin.Context) {
	var input services.ShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	shift, err := ctl.shifts.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shift": shift})
}

func (ctl *ShiftController) UpdateShift(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ShiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	shift, err := ctl.shifts.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": shift})
}

func (ctl *ShiftController) DeleteShift(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.shifts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted"})
}

// GenerateShifts splits a daily window into shifts for every day of a week.
func (ctl *ShiftController) GenerateShifts(c *gin.Context) {
	var input services.GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	shifts, err := ctl.shifts.Generate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": shifts, "count": len(shifts)})
}

func (ctl *ShiftController) CopyWeek(c *gin.Context) {
	var input services.CopyWeekInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	shifts, err := ctl.shifts.CopyWeek(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": shifts, "count": len(shifts)})
}

// ExportWeek downloads ?route_id=&week= as an XLSX workbook.
func (ctl *ShiftController) ExportWeek(c *gin.Context) {
	routeID, ok := optionalUintQuery(c, "route_id")
	if !ok {
		return
	}
	week, ok := optionalIntQuery(c, "week")
	if !ok {
		return
	}
	if routeID == nil || week == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route_id and week are required"})
		return
	}

	buf, filename, err := ctl.shifts.ExportWeek(c.Request.Context(), *routeID, *week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
