package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/models"
)

var (
	errNoDocument   = errors.New("no document in request")
	errUploadTooBig = errors.New("upload exceeds size limit")
)

const (
	msgNoFile        = "Error: No File Selected!"
	msgUploadTooBig  = "File is too large."
	msgAnalyzeFailed = "Failed to analyze document."
)

type uploadedFile struct {
	Name string
	Data []byte
}

// readDocument loads the multipart "document" field fully into memory.
func readDocument(c *gin.Context) (*uploadedFile, error) {
	header, err := c.FormFile(models.FieldDocument)
	if err != nil {
		if isTooLarge(err) {
			return nil, errUploadTooBig
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, errNoDocument
		}
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errNoDocument
	}
	return &uploadedFile{Name: header.Filename, Data: data}, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
