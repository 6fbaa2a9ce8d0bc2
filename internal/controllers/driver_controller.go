package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"
	"fleet_shifts/internal/services"
)

type DriverController struct {
	drivers *services.DriverService
}

func NewDriverController(drivers *services.DriverService) *DriverController {
	return &DriverController{drivers: drivers}
}

// ListDrivers returns every driver profile.
func (ctl *DriverController) ListDrivers(c *gin.Context) {
	drivers, err := ctl.drivers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, prepareDriverResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (ctl *DriverController) GetDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	driver, err := ctl.drivers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": prepareDriverResponse(*driver)})
}

// CreateDriver registers the driver profile together with its login.
func (ctl *DriverController) CreateDriver(c *gin.Context) {
	var input services.CreateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	driver, err := ctl.drivers.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": prepareDriverResponse(*driver)})
}

func (ctl *DriverController) UpdateDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.UpdateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	driver, err := ctl.drivers.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Driver details updated successfully.",
		"driver":  prepareDriverResponse(*driver),
	})
}

func (ctl *DriverController) DeleteDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.drivers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver and associated user account deleted successfully."})
}

// Profile returns the driver profile of the logged-in driver.
func (ctl *DriverController) Profile(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	driver, err := ctl.drivers.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": prepareDriverResponse(*driver)})
}

func prepareDriverResponse(d models.Driver) gin.H {
	resp := gin.H{
		"ID":             d.ID,
		"CreatedAt":      d.CreatedAt,
		"UpdatedAt":      d.UpdatedAt,
		"user_id":        d.UserID,
		"full_name":      d.FullName,
		"national_id":    d.NationalID,
		"license_number": d.LicenseNumber,
		"phone":          d.Phone,
		"status":         d.Status,
	}
	if d.User != nil {
		resp["email"] = d.User.Email
	}
	return resp
}
