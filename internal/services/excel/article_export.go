package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/xuri/excelize/v2"
)

const articleSheet = "Articles"

var articleHeaders = []string{
	"ID", "Generation ID", "Keyword", "Position", "Title", "Content",
	"Format", "Publish Status", "Publish Error", "Created At",
}

// Service renders article history as Excel workbooks
type Service struct{}

// NewExcelService creates a new Excel service instance
func NewExcelService() *Service {
	return &Service{}
}

// ExportResult contains the rendered workbook
type ExportResult struct {
	Filename string
	Content  []byte
	Rows     int
}

// ExportArticles writes one row per article record
func (s *Service) ExportArticles(records []*models.ArticleRecord) (*ExportResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", articleSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range articleHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(articleSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, record := range records {
		values := []interface{}{
			record.ID,
			record.GenerationID,
			record.Keyword,
			record.Position,
			record.Title,
			record.Content,
			record.Format,
			record.PublishStatus,
			record.PublishError,
			record.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(articleSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &ExportResult{
		Filename: fmt.Sprintf("articles_%d.xlsx", time.Now().Unix()),
		Content:  bytes.Clone(buf.Bytes()),
		Rows:     len(records),
	}, nil
}
