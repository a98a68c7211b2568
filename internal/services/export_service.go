package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

const exportBatchSize = 100

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportMentorDirectory renders the verified mentor directory as an xlsx
// workbook for offline review.
func (s *exportService) ExportMentorDirectory(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Mentors"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to prepare worksheet: %w", err)
	}

	headers := []string{"User ID", "Full Name", "Country", "City", "Company", "Position", "Languages", "Expertise", "Registered"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	mentorRole := models.RoleMentor
	verified := models.StatusVerified

	row := 2
	offset := 0
	for {
		mentors, _, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{
			Role:   &mentorRole,
			Status: &verified,
			Limit:  exportBatchSize,
			Offset: offset,
			SortBy: "created_at",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load mentors for export: %w", err)
		}

		for _, mentor := range mentors {
			values := []interface{}{
				mentor.UserID,
				mentor.FullName,
				derefString(mentor.Country),
				derefString(mentor.City),
				derefString(mentor.Company),
				derefString(mentor.Position),
				joinJSONList(mentor.Languages),
				joinJSONList(mentor.Expertise),
				mentor.CreatedAt.Format("2006-01-02"),
			}
			for i, value := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
			row++
		}

		if len(mentors) < exportBatchSize {
			break
		}
		offset += exportBatchSize
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Mentor directory exported", "rows", row-2)
	return buf.Bytes(), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinJSONList(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return string(raw)
	}
	return strings.Join(items, ", ")
}
