package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorship-service/internal/services"
	"github.com/mentorlink/mentorship-service/internal/utils"
)

type MentorHandler struct {
	BaseHandler
	marketplaceService services.MarketplaceService
	exportService      services.ExportService
}

func NewMentorHandler(marketplaceService services.MarketplaceService, exportService services.ExportService, logger utils.Logger) *MentorHandler {
	return &MentorHandler{
		BaseHandler:        NewBaseHandler(logger),
		marketplaceService: marketplaceService,
		exportService:      exportService,
	}
}

// ListMentors returns the marketplace listing of verified mentors.
func (h *MentorHandler) ListMentors(c *gin.Context) {
	page, size := h.parsePagination(c, 20)

	params := services.MentorSearchParams{
		Query:  c.Query("q"),
		Page:   page,
		Size:   size,
		SortBy: c.DefaultQuery("sort_by", "created_at"),
	}
	if country := c.Query("country"); country != "" {
		params.Country = &country
	}
	if expertise := c.Query("expertise"); expertise != "" {
		params.Expertise = &expertise
	}
	if language := c.Query("language"); language != "" {
		params.Language = &language
	}

	mentors, err := h.marketplaceService.ListMentors(c.Request.Context(), params)
	if err != nil {
		h.LogError(c, err, "Failed to list mentors")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, mentors)
}

// GetMentor returns a single marketplace entry.
func (h *MentorHandler) GetMentor(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing user_id"})
		return
	}

	mentor, err := h.marketplaceService.GetMentor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrMentorNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: "Mentor not found"})
			return
		}
		h.LogError(c, err, "Failed to get mentor")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, mentor)
}

// ExportMentors streams the verified mentor directory as an xlsx workbook.
// Admin only.
func (h *MentorHandler) ExportMentors(c *gin.Context) {
	h.LogRequest(c, "Exporting mentor directory")

	data, err := h.exportService.ExportMentorDirectory(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Failed to export mentor directory")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}

	filename := fmt.Sprintf("mentors-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
