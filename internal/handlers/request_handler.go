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

type RequestHandler struct {
	BaseHandler
	requestService services.RequestService
	validator      *validator.Validator
}

func NewRequestHandler(requestService services.RequestService, v *validator.Validator, logger utils.Logger) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    NewBaseHandler(logger),
		requestService: requestService,
		validator:      v,
	}
}

// CreateRequest sends a mentorship request to a verified mentor.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.RequestCreateRequest
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

	request, err := h.requestService.Create(c.Request.Context(), userID, &services.RequestCreateInput{
		MentorID: req.MentorID,
		Message:  req.Message,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// RespondToRequest accepts or declines a pending request addressed to the
// caller.
func (h *RequestHandler) RespondToRequest(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.RequestResponseRequest
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

	request, err := h.requestService.Respond(c.Request.Context(), userID, id, models.RequestStatus(req.Status))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListRequests returns the caller's requests; ?as=mentor switches to the
// received side.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	page, size := h.parsePagination(c, 20)

	asRole := models.RoleStudent
	if c.Query("as") == "mentor" {
		asRole = models.RoleMentor
	}

	requests, err := h.requestService.ListForUser(c.Request.Context(), userID, asRole, page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSelfRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "self_request",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrProfileRequired):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "onboarding_required",
			Message: "Complete onboarding first",
		})
	case errors.Is(err, services.ErrRoleRequired):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrMentorNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Mentor not found"})
	case errors.Is(err, services.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "duplicate_request",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrRequestNotPending):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "not_pending",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_transition",
			Message: err.Error(),
		})
	case errors.Is(err, repositories.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Request not found"})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
