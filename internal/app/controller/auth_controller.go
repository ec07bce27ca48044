package controller

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
	"github.com/stephens-stores/backend/pkg/redis"
	"github.com/stephens-stores/backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
	jwtSecret   string
}

func NewAuthController(authService service.AuthService, jwtSecret string) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSecret:   jwtSecret,
	}
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Address         string `json:"address"`
	PhoneNumber     string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

// Signup handles user registration
// POST /api/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request body", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	user, err := ctrl.authService.Signup(service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Invalid data", verr.Fields)
			return
		}
		log.Error("Signup failed", err, map[string]interface{}{
			"email": req.Email,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Successful signup. Thank you for signing up to Stephen's Stores.", gin.H{
		"name":         user.Name,
		"phone_number": user.PhoneNumber,
		"address":      user.Address,
		"email":        user.Email,
	})
}

// Login handles user login
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(c, "Email and password are required", nil)
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.BadRequest(c, "Invalid email or password", nil)
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user_id": user.ID,
		"token":   tokens.AccessToken,
	})
}

// Logout blacklists the presented access token until it expires. When
// Redis is disabled the token simply ages out on its own and logout
// still reports success.
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c)
		return
	}
	token := parts[1]

	claims, err := util.ValidateToken(token, ctrl.jwtSecret)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	if redis.Enabled() {
		ttl := util.TokenRemainingLifetime(claims)
		if err := redis.BlacklistToken(c.Request.Context(), token, ttl); err != nil {
			log.Error("Failed to blacklist token", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			response.Internal(c)
			return
		}
	}

	log.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	response.OK(c, "Logout successful", nil)
}

// GetProfile returns the authenticated user's profile
// GET /api/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Successfully fetched profile", user)
}

// UpdateProfile applies a partial update to the authenticated user
// PUT /api/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, service.ProfileUpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Invalid data", verr.Fields)
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Successfully updated user", user)
}
