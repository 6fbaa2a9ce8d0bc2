package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"
	"fleet_shifts/internal/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// loginInput takes the login name under "identifier", "email" or "national_id".
type loginInput struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
	Password   string `json:"password" binding:"required"`
}

func (in loginInput) id() string {
	switch {
	case in.Identifier != "":
		return in.Identifier
	case in.Email != "":
		return in.Email
	default:
		return in.NationalID
	}
}

func (ctl *AuthController) Login(c *gin.Context) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.id() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier, email or national_id is required"})
		return
	}

	result, err := ctl.auth.Login(c.Request.Context(), body.id(), body.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  prepareUserResponse(*result.User),
	})
}

// Me returns the account behind the bearer token.
func (ctl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user in token"})
		return
	}
	user, err := ctl.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": prepareUserResponse(*user)})
}

func (ctl *AuthController) ListUsers(c *gin.Context) {
	users, err := ctl.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, prepareUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (ctl *AuthController) CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := ctl.auth.CreateUser(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": prepareUserResponse(*user)})
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":          user.ID,
		"CreatedAt":   user.CreatedAt,
		"UpdatedAt":   user.UpdatedAt,
		"email":       user.Email,
		"national_id": user.NationalID,
		"role":        user.Role,
	}
	if user.Driver != nil {
		responseUser["driver"] = gin.H{
			"ID":             user.Driver.ID,
			"full_name":      user.Driver.FullName,
			"license_number": user.Driver.LicenseNumber,
			"phone":          user.Driver.Phone,
			"status":         user.Driver.Status,
		}
		responseUser["driver_id"] = user.Driver.ID
	}
	return responseUser
}
