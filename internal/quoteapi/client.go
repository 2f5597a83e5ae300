// Package quoteapi is a typed HTTP client for the quote service.
package quoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quote-backend/internal/models"
	"quote-backend/internal/pricing"
)

const (
	FallbackAnalyzeMessage = "Document analysis failed."
	FallbackSubmitMessage  = "Order submission failed."
	FallbackPricingMessage = "Could not load prices."
)

// APIError is a non-success response. Message is the server's message when
// it sent one, a generic fallback otherwise.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// WithHTTPClient swaps the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// OrderRequest carries the fields of one order submission.
type OrderRequest struct {
	FileName      string
	File          []byte
	CustomerEmail string
	Services      []string
	DeliveryLabel string
	TotalPrice    string
}

// SubmitResult is the acknowledgement of an accepted order.
type SubmitResult struct {
	Message   string
	Reference string
}

func (c *Client) Analyze(ctx context.Context, fileName string, data []byte) (*models.AnalyzeResponse, error) {
	body, contentType, err := encodeMultipart(fileName, data, nil)
	if err != nil {
		return nil, err
	}

	resp, raw, err := c.do(ctx, http.MethodPost, "/analyze-document", contentType, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, raw, FallbackAnalyzeMessage)
	}

	var result models.AnalyzeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return &result, nil
}

func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (*SubmitResult, error) {
	services, err := json.Marshal(order.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to encode services: %w", err)
	}
	body, contentType, err := encodeMultipart(order.FileName, order.File, [][2]string{
		{models.FieldUserEmail, order.CustomerEmail},
		{models.FieldServices, string(services)},
		{models.FieldDeliveryTime, order.DeliveryLabel},
		{models.FieldTotalPrice, order.TotalPrice},
	})
	if err != nil {
		return nil, err
	}

	resp, raw, err := c.do(ctx, http.MethodPost, "/submit-order", contentType, body)
	if err != nil {
		return nil, err
	}

	var result models.SubmitOrderResponse
	decodeErr := json.Unmarshal(raw, &result)
	if resp.StatusCode != http.StatusOK || decodeErr != nil || !result.Success {
		status := resp.StatusCode
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
		return nil, apiError(status, raw, FallbackSubmitMessage)
	}
	return &SubmitResult{
		Message:   result.Message,
		Reference: resp.Header.Get(models.HeaderOrderReference),
	}, nil
}

// Pricing fetches the server's price table.
func (c *Client) Pricing(ctx context.Context) (*pricing.Table, error) {
	resp, raw, err := c.do(ctx, http.MethodGet, "/pricing", "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, raw, FallbackPricingMessage)
	}

	var body models.PricingResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode pricing response: %w", err)
	}
	return tableFromResponse(body)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, raw, nil
}

func encodeMultipart(fileName string, data []byte, fields [][2]string) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fw, err := mw.CreateFormFile(models.FieldDocument, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

func apiError(status int, raw []byte, fallback string) *APIError {
	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &APIError{Status: status, Message: body.Message}
	}
	return &APIError{Status: status, Message: fallback}
}

func tableFromResponse(body models.PricingResponse) (*pricing.Table, error) {
	f := pricing.File{
		WordsPerPage: body.WordsPerPage,
		Currency:     body.Currency,
	}

	for _, svc := range body.Services {
		normal, err := parseRate(svc.Rates, pricing.Normal)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.ID, err)
		}
		fast, err := parseRate(svc.Rates, pricing.Fast)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.ID, err)
		}

		switch pricing.Service(svc.ID) {
		case pricing.Rephrasing:
			f.RephrasingLabel, f.RephrasingNormal, f.RephrasingFast = svc.Label, normal, fast
		case pricing.Translation:
			f.TranslationLabel, f.TranslationNormal, f.TranslationFast = svc.Label, normal, fast
		}
	}
	for _, speed := range body.Speeds {
		switch pricing.Speed(speed.ID) {
		case pricing.Normal:
			f.NormalLabel = speed.Label
		case pricing.Fast:
			f.FastLabel = speed.Label
		}
	}
	return pricing.FromFile(f)
}

func parseRate(rates map[string]string, speed pricing.Speed) (float64, error) {
	raw, ok := rates[string(speed)]
	if !ok {
		return 0, fmt.Errorf("missing %s rate", speed)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s rate %q: %w", speed, raw, err)
	}
	return v, nil
}
