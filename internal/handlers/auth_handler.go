package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorship-service/internal/auth"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/utils"
	"github.com/mentorlink/mentorship-service/internal/validator"
)

// SessionResponse is the read model exposed on /auth/session.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	User          *models.AuthUser `json:"user,omitempty"`
	Profile       *models.Profile  `json:"profile,omitempty"`
}

type AuthHandler struct {
	BaseHandler
	provider  *auth.Provider
	validator *validator.Validator
}

func NewAuthHandler(provider *auth.Provider, v *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		provider:    provider,
		validator:   v,
	}
}

// SignIn authenticates with password credentials. Credential failures come
// back verbatim with a 401; the shared state is untouched on failure.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req validator.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	if err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_credentials",
				Message: err.Error(),
			})
			return
		}
		h.LogError(c, err, "Sign-in failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Authentication backend unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, snapshotResponse(h.provider))
}

// SignUp creates a credential with the auth backend. The caller stays signed
// out and has no profile; onboarding is a separate step.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req validator.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	user, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "email_taken",
				Message: err.Error(),
			})
			return
		}
		h.LogError(c, err, "Sign-up failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Authentication backend unavailable",
		})
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Account created, sign in to continue",
		Data:    user,
	})
}

// SignOut always succeeds from the caller's point of view: local state is
// cleared even when the backend call fails.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.provider.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}

// GetSession returns the current auth read model.
func (h *AuthHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, snapshotResponse(h.provider))
}

func snapshotResponse(provider *auth.Provider) SessionResponse {
	state := provider.Snapshot()
	return SessionResponse{
		Authenticated: state.User != nil,
		Loading:       state.Loading,
		User:          state.User,
		Profile:       state.Profile,
	}
}
