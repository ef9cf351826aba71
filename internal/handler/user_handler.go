package handler

import (
	"net/http"

	"expensems/internal/middleware"
	"expensems/internal/service"
	"expensems/pkg/api"
	"expensems/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for auth/user endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}

	users := router.Group("/api/users")
	{
		users.GET("/me", middleware.RequireAuth(), h.GetMe)
	}
}

// Register handles POST /api/auth/register
// @Summary      Register user
// @Description  Creates a USER account and returns a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      api.RegisterRequest  true  "Registration payload"
// @Success      201      {object}  api.AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	auth, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, auth)
}

// Login handles POST /api/auth/login
// @Summary      Login user
// @Description  Authenticates by email and password, returning a JWT and refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      api.LoginRequest  true  "Login credentials"
// @Success      200      {object}  api.AuthResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	auth, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, auth)
}

// Refresh handles POST /api/auth/refresh
// @Summary      Refresh tokens
// @Description  Exchanges a valid refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      api.RefreshRequest  true  "Refresh token"
// @Success      200      {object}  api.AuthResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	auth, err := h.userService.Refresh(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, auth)
}

// Logout handles POST /api/auth/logout, revoking the presented refresh token
func (h *UserHandler) Logout(c *gin.Context) {
	var req api.RefreshRequest
	_ = c.ShouldBindJSON(&req) // missing body just means nothing to revoke

	if err := h.userService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe handles GET /api/users/me
// @Summary      Get current user
// @Description  Returns the profile of the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.UserProfile
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
