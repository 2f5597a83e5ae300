package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quote-backend/internal/analyzer"
	"quote-backend/internal/handlers"
	"quote-backend/internal/logger"
	"quote-backend/internal/middleware"
	"quote-backend/internal/models"
	"quote-backend/internal/notify"
	"quote-backend/internal/pricing"
	"quote-backend/internal/services"
)

type fakeSender struct {
	sent []notify.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupRouter(sender notify.Sender, bodyLimit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	table := pricing.Default()

	analyze := handlers.NewAnalyzeHandler(services.NewAnalysisService(analyzer.New(), table, log), log)
	orders := handlers.NewOrdersHandler(services.NewOrderService(sender, "orders@example.com", log), log)

	router := gin.New()
	router.POST("/analyze-document", middleware.BodyLimit(bodyLimit), analyze.AnalyzeDocument)
	router.POST("/submit-order", middleware.BodyLimit(bodyLimit), orders.SubmitOrder)
	router.GET("/pricing", handlers.NewPricingHandler(table).GetPricing)
	return router
}

func multipartRequest(t *testing.T, path, fileName string, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if file != nil {
		fw, err := mw.CreateFormFile(models.FieldDocument, fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func words(n int) []byte {
	return []byte(strings.TrimSpace(strings.Repeat("word ", n)))
}

func orderFields() map[string]string {
	return map[string]string{
		models.FieldUserEmail:    "customer@example.com",
		models.FieldServices:     `["Rephrasing","Translation"]`,
		models.FieldDeliveryTime: "Normal delivery ($12 per page)",
		models.FieldTotalPrice:   "$24.00",
	}
}

func TestAnalyzeDocument(t *testing.T) {
	router := setupRouter(&fakeSender{}, 1<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/analyze-document", "essay.txt", words(900), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 900, resp.WordCount)
	assert.Equal(t, 2, resp.PageCount)
}

func TestAnalyzeDocument_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		file     []byte
		limit    int64
		status   int
		message  string
	}{
		{name: "no file", status: http.StatusBadRequest, limit: 1 << 20, message: "Error: No File Selected!"},
		{name: "empty file", fileName: "empty.txt", file: []byte{}, limit: 1 << 20, status: http.StatusBadRequest, message: "Error: No File Selected!"},
		{name: "unsupported", fileName: "pic.png", file: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), limit: 1 << 20, status: http.StatusUnprocessableEntity, message: "Unsupported file format"},
		{name: "corrupt pdf", fileName: "broken.pdf", file: []byte("%PDF-1.4\ngarbage"), limit: 1 << 20, status: http.StatusUnprocessableEntity, message: "could not be read"},
		{name: "too large", fileName: "big.txt", file: words(200), limit: 256, status: http.StatusRequestEntityTooLarge, message: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&fakeSender{}, tt.limit)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, "/analyze-document", tt.fileName, tt.file, nil))

			assert.Equal(t, tt.status, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp.Message, tt.message)
		})
	}
}

func TestSubmitOrder(t *testing.T) {
	sender := &fakeSender{}
	router := setupRouter(sender, 1<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/submit-order", "essay.txt", words(10), orderFields()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Order submitted successfully!"}`, w.Body.String())
	_, err := uuid.Parse(w.Header().Get(models.HeaderOrderReference))
	assert.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "New order: essay.txt", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "<li>Rephrasing</li><li>Translation</li>")
	assert.Contains(t, msg.HTMLBody, "$24.00")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, words(10), msg.Attachments[0].Data)
}

func TestSubmitOrder_Errors(t *testing.T) {
	without := func(key string) map[string]string {
		f := orderFields()
		delete(f, key)
		return f
	}
	with := func(key, value string) map[string]string {
		f := orderFields()
		f[key] = value
		return f
	}

	tests := []struct {
		name    string
		file    []byte
		fields  map[string]string
		sendErr error
		status  int
		message string
	}{
		{name: "no file", fields: orderFields(), status: http.StatusBadRequest, message: "Error: No File Selected!"},
		{name: "no email", file: words(3), fields: without(models.FieldUserEmail), status: http.StatusBadRequest, message: "Missing order details."},
		{name: "no services", file: words(3), fields: without(models.FieldServices), status: http.StatusBadRequest, message: "Missing order details."},
		{name: "empty services", file: words(3), fields: with(models.FieldServices, "[]"), status: http.StatusBadRequest, message: "Missing order details."},
		{name: "malformed services", file: words(3), fields: with(models.FieldServices, "Rephrasing"), status: http.StatusBadRequest, message: "Missing order details."},
		{name: "no delivery", file: words(3), fields: without(models.FieldDeliveryTime), status: http.StatusBadRequest, message: "Missing order details."},
		{name: "dispatch failure", file: words(3), fields: orderFields(), sendErr: &notify.DeliveryError{Provider: "smtp", Err: errors.New("535 auth failed")}, status: http.StatusInternalServerError, message: "Failed to submit order."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{err: tt.sendErr}
			router := setupRouter(sender, 1<<20)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, "/submit-order", "essay.txt", tt.file, tt.fields))

			assert.Equal(t, tt.status, w.Code)
			var resp models.SubmitOrderResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotContains(t, w.Body.String(), "535")
			assert.Empty(t, sender.sent)
		})
	}
}

func TestSubmitOrder_TooLarge(t *testing.T) {
	sender := &fakeSender{}
	router := setupRouter(sender, 256)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/submit-order", "essay.txt", words(200), orderFields()))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"File is too large."}`, w.Body.String())
	assert.Empty(t, sender.sent)
}

func TestSubmitOrder_TotalPriceOptional(t *testing.T) {
	sender := &fakeSender{}
	router := setupRouter(sender, 1<<20)
	fields := orderFields()
	delete(fields, models.FieldTotalPrice)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/submit-order", "essay.txt", words(3), fields))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTMLBody, "not provided")
}

func TestGetPricing(t *testing.T) {
	router := setupRouter(&fakeSender{}, 1<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pricing", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.PricingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "$", resp.Currency)
	assert.Equal(t, 450, resp.WordsPerPage)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, "rephrasing", resp.Services[0].ID)
	assert.Equal(t, "Rephrasing", resp.Services[0].Label)
	assert.Equal(t, map[string]string{"normal": "5", "fast": "10"}, resp.Services[0].Rates)
	assert.Equal(t, map[string]string{"normal": "7", "fast": "10"}, resp.Services[1].Rates)
	require.Len(t, resp.Speeds, 2)
	assert.Equal(t, "Fast delivery", resp.Speeds[1].Label)
}
