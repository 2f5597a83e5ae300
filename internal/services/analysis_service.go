package services

import (
	"context"
	"log/slog"

	"quote-backend/internal/analyzer"
	"quote-backend/internal/models"
	"quote-backend/internal/pricing"
)

type DocumentAnalyzer interface {
	Analyze(data []byte) (*analyzer.Result, error)
}

type AnalysisService struct {
	analyzer DocumentAnalyzer
	table    *pricing.Table
	log      *slog.Logger
}

func NewAnalysisService(a DocumentAnalyzer, table *pricing.Table, log *slog.Logger) *AnalysisService {
	return &AnalysisService{
		analyzer: a,
		table:    table,
		log:      log,
	}
}

// Analyze counts the words of an uploaded document and derives its billable
// page count. Extraction failures come back as *analyzer.ExtractionError.
func (s *AnalysisService) Analyze(ctx context.Context, fileName string, data []byte) (*models.AnalysisResult, error) {
	if data == nil {
		return nil, ErrNoFileSelected
	}

	logCtx := s.log.With("file", fileName, "bytes", len(data))

	res, err := s.analyzer.Analyze(data)
	if err != nil {
		logCtx.ErrorContext(ctx, "document analysis failed", "error", err)
		return nil, err
	}

	result := &models.AnalysisResult{
		Format:    res.Format,
		WordCount: res.WordCount,
		PageCount: s.table.PageCount(res.WordCount),
	}
	logCtx.InfoContext(ctx, "document analyzed",
		"format", result.Format,
		"words", result.WordCount,
		"pages", result.PageCount,
	)
	return result, nil
}
