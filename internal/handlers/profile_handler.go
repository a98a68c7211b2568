package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
	"github.com/mentorlink/mentorship-service/internal/services"
	"github.com/mentorlink/mentorship-service/internal/utils"
	"github.com/mentorlink/mentorship-service/internal/validator"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
	validator      *validator.Validator
}

func NewProfileHandler(profileService services.ProfileService, v *validator.Validator, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
		validator:      v,
	}
}

// GetMyProfile returns the caller's profile, or 404 when onboarding has not
// been completed yet.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	profile, err := h.profileService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "onboarding_required",
				Message: "Profile not created yet",
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreateProfile is the onboarding endpoint. At most one profile may exist
// per user.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.ProfileCreateRequest
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

	h.LogRequest(c, "Creating profile", "user_id", userID)

	profile, err := h.profileService.Create(c.Request.Context(), userID, &services.ProfileCreateInput{
		Role:      req.Role,
		FullName:  req.FullName,
		Bio:       req.Bio,
		Country:   req.Country,
		City:      req.City,
		Company:   req.Company,
		Position:  req.Position,
		Languages: req.Languages,
		Expertise: req.Expertise,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrProfileExists) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "profile_exists",
				Message: "Profile already exists for this user",
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// UpdateMyProfile mutates display fields only. Role and verification status
// are not reachable from here.
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.ProfileUpdateRequest
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

	profile, err := h.profileService.Update(c.Request.Context(), userID, &services.ProfileUpdateInput{
		FullName:  req.FullName,
		Bio:       req.Bio,
		Country:   req.Country,
		City:      req.City,
		Company:   req.Company,
		Position:  req.Position,
		Languages: req.Languages,
		Expertise: req.Expertise,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfileStatus moves a profile through the verification pipeline.
// Admin only; the route layer enforces the role.
func (h *ProfileHandler) UpdateProfileStatus(c *gin.Context) {
	reviewerID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	targetUserID := c.Param("user_id")
	if targetUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing user_id"})
		return
	}

	var req validator.StatusUpdateRequest
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

	err = h.profileService.UpdateStatus(c.Request.Context(), targetUserID, models.VerificationStatus(req.Status), reviewerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Verification status updated"})
}

func (h *ProfileHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Profile not found"})
	case errors.Is(err, services.ErrProfileRequired):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "onboarding_required",
			Message: "Complete onboarding first",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
