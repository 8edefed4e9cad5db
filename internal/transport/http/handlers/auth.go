package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/transport/http/middleware"
	"github.com/AjayS0708/CareerOS/internal/usecase"
)

// AuthHandler exposes registration, login, and account self-service.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler builds an auth handler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

var authErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
	{Err: usecase.ErrAccountLocked, Status: http.StatusForbidden, Message: "account temporarily locked due to repeated failed logins"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "an account with this email already exists"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
}

// Register creates an account and returns it with a signed credential.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "registration failed")
		return
	}

	respondMessage(c, http.StatusCreated, "registration successful", AuthView{
		Token: token,
		User:  newUserView(*user),
	})
}

// Login authenticates an email/password pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "login failed")
		return
	}

	respondMessage(c, http.StatusOK, "login successful", AuthView{
		Token: token,
		User:  newUserView(*user),
	})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respondData(c, http.StatusOK, newUserView(*user))
}

// UpdateProfile applies the allow-listed profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	update := port.ProfileUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Location:    req.Location,
		Bio:         req.Bio,
		Skills:      req.Skills,
		Experience:  req.Experience,
		CurrentRole: req.CurrentRole,
		Avatar:      req.Avatar,
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondMessage(c, http.StatusOK, "profile updated", newUserView(*user))
}

// ChangePassword verifies the current password before replacing it.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		cases := []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}
		RespondWithMappedError(c, err, cases, http.StatusInternalServerError, "failed to change password")
		return
	}

	respondMessage(c, http.StatusOK, "password changed", nil)
}

// Logout acknowledges the client discarding its credential. Tokens are
// stateless, so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondMessage(c, http.StatusOK, "logged out", nil)
}
