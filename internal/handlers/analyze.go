package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/analyzer"
	"quote-backend/internal/models"
	"quote-backend/internal/services"
)

type AnalyzeHandler struct {
	analysis *services.AnalysisService
	log      *slog.Logger
}

func NewAnalyzeHandler(analysis *services.AnalysisService, log *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
		log:      log,
	}
}

// AnalyzeDocument godoc
// @Summary     Analyze a document
// @Description Counts the words of the uploaded document and derives the billable page count.
// @Tags        quote
// @Accept      multipart/form-data
// @Produce     json
// @Param       document formData file true "Document to analyze (docx, pdf, xlsx, html or plain text)"
// @Success     200 {object} models.AnalyzeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /analyze-document [post]
func (h *AnalyzeHandler) AnalyzeDocument(c *gin.Context) {
	doc, err := readDocument(c)
	switch {
	case errors.Is(err, errNoDocument):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: msgNoFile})
		return
	case errors.Is(err, errUploadTooBig):
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Message: msgUploadTooBig})
		return
	case err != nil:
		h.log.ErrorContext(c.Request.Context(), "failed to read upload", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: msgAnalyzeFailed})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), doc.Name, doc.Data)
	if err != nil {
		var extractErr *analyzer.ExtractionError
		switch {
		case errors.Is(err, services.ErrNoFileSelected):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: msgNoFile})
		case errors.As(err, &extractErr):
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: extractionMessage(extractErr)})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: msgAnalyzeFailed})
		}
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeResponse{
		WordCount: result.WordCount,
		PageCount: result.PageCount,
	})
}

func extractionMessage(err *analyzer.ExtractionError) string {
	if errors.Is(err, analyzer.ErrUnsupportedFormat) {
		return "Unsupported file format. Please upload a Word, PDF, Excel, HTML or text document."
	}
	return "The document could not be read. Please check the file and try again."
}
