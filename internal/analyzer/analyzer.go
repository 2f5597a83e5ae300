// Package analyzer turns uploaded document bytes into plain text and a word
// count. The format is sniffed from the content, never from the file name.
package analyzer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimePDF  = "application/pdf"
	MimeHTML = "text/html"
	MimeText = "text/plain"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractionError reports that a document could not be turned into text.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("extract text: %v", e.Err)
	}
	return fmt.Sprintf("extract text from %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor converts raw file bytes into plain text.
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

type ExtractorFunc func(data []byte) (string, error)

func (f ExtractorFunc) ExtractText(data []byte) (string, error) { return f(data) }

// Result is the outcome of analysing one document.
type Result struct {
	Format    string
	Text      string
	WordCount int
}

// Analyzer dispatches to a format specific extractor based on the sniffed
// MIME type.
type Analyzer struct {
	extractors map[string]Extractor
}

func New() *Analyzer {
	return &Analyzer{
		extractors: map[string]Extractor{
			MimeDOCX: ExtractorFunc(extractDOCX),
			MimeXLSX: ExtractorFunc(extractXLSX),
			MimePDF:  ExtractorFunc(extractPDF),
			MimeHTML: ExtractorFunc(extractHTML),
			MimeText: ExtractorFunc(extractPlain),
		},
	}
}

// Register adds or replaces the extractor used for a MIME type.
func (a *Analyzer) Register(mime string, ex Extractor) {
	a.extractors[mime] = ex
}

// DetectFormat returns the most specific supported MIME type for data, or
// the raw sniffed type when nothing registered matches.
func (a *Analyzer) DetectFormat(data []byte) string {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for mime := range a.extractors {
			if m.Is(mime) {
				return mime
			}
		}
	}
	return detected.String()
}

// ExtractText returns the plain text of data. Every failure is an
// *ExtractionError.
func (a *Analyzer) ExtractText(data []byte) (string, error) {
	text, _, err := a.extract(data)
	return text, err
}

// Analyze extracts text and counts its words.
func (a *Analyzer) Analyze(data []byte) (*Result, error) {
	text, format, err := a.extract(data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Format:    format,
		Text:      text,
		WordCount: CountWords(text),
	}, nil
}

func (a *Analyzer) extract(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", &ExtractionError{Err: errors.New("empty document")}
	}
	format := a.DetectFormat(data)
	ex, ok := a.extractors[format]
	if !ok {
		return "", format, &ExtractionError{Format: format, Err: ErrUnsupportedFormat}
	}
	text, err := ex.ExtractText(data)
	if err != nil {
		return "", format, &ExtractionError{Format: format, Err: err}
	}
	return text, format, nil
}

var (
	// dashes, vertical tab and the byte order mark all separate words
	reSeparators = regexp.MustCompile(`[\x{2010}-\x{2015}\x{000B}\x{FEFF}]`)
	reNotWords   = regexp.MustCompile(`[^\p{L}\p{N}\p{Z}\s]`)
)

// CountWords counts whitespace separated tokens after dashes are turned into
// spaces and every other non letter, non digit character is dropped.
func CountWords(text string) int {
	cleaned := reSeparators.ReplaceAllString(text, " ")
	cleaned = reNotWords.ReplaceAllString(cleaned, "")
	return len(strings.Fields(cleaned))
}
