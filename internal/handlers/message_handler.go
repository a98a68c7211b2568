package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorship-service/internal/repositories"
	"github.com/mentorlink/mentorship-service/internal/services"
	"github.com/mentorlink/mentorship-service/internal/utils"
	"github.com/mentorlink/mentorship-service/internal/validator"
)

type MessageHandler struct {
	BaseHandler
	messageService services.MessageService
	validator      *validator.Validator
}

func NewMessageHandler(messageService services.MessageService, v *validator.Validator, logger utils.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    NewBaseHandler(logger),
		messageService: messageService,
		validator:      v,
	}
}

// SendMessage posts into the conversation of an accepted request.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	requestID := h.parseIDParam(c, "id")
	if requestID == 0 {
		return
	}

	var req validator.MessageCreateRequest
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

	message, err := h.messageService.Send(c.Request.Context(), userID, requestID, req.Body)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages returns the conversation for a request the caller belongs to.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	requestID := h.parseIDParam(c, "id")
	if requestID == 0 {
		return
	}

	page, size := h.parsePagination(c, 50)

	messages, err := h.messageService.ListConversation(c.Request.Context(), userID, requestID, page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkMessagesRead stamps every unread message addressed to the caller.
func (h *MessageHandler) MarkMessagesRead(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	requestID := h.parseIDParam(c, "id")
	if requestID == 0 {
		return
	}

	if err := h.messageService.MarkRead(c.Request.Context(), userID, requestID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Messages marked read"})
}

func (h *MessageHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Conversation not found"})
	case errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrConversationClosed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conversation_closed",
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
