package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
)

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	rec, err := h.store.UserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(rec.PasswordHash, req.Password) {
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrAuthenticationFailed, "Invalid email or password"))
		return
	}

	token, _, err := h.jwt.GenerateToken(&rec.User)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		ID:    rec.ID,
		Token: token,
		Role:  string(rec.Role),
		Name:  rec.Name,
		Email: rec.Email,
	})
}

// Register handles POST /auth/register. It never logs the caller in.
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	user, err := h.store.CreateUser(strings.TrimSpace(req.Name), req.Email, hash, req.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRegistration) {
			h.logger.Info().Str("email", req.Email).Msg("Duplicate registration rejected")
		}
		middleware.HandleAPIError(c, err)
		return
	}

	h.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "User registered successfully"})
}
