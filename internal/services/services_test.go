package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quote-backend/internal/analyzer"
	"quote-backend/internal/logger"
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

func validOrder() *models.Order {
	return &models.Order{
		FileName:      "thesis.txt",
		File:          []byte("plain text body"),
		CustomerEmail: "  customer@example.com ",
		Services:      []string{"Rephrasing", "Translation"},
		DeliveryLabel: "Fast delivery ($20 per page)",
		TotalPrice:    "$40.00",
	}
}

func TestAnalysisService_Analyze(t *testing.T) {
	svc := services.NewAnalysisService(analyzer.New(), pricing.Default(), logger.Discard())
	text := strings.TrimSpace(strings.Repeat("word ", 451))

	res, err := svc.Analyze(context.Background(), "a.txt", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, 451, res.WordCount)
	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, analyzer.MimeText, res.Format)
}

func TestAnalysisService_NoFile(t *testing.T) {
	svc := services.NewAnalysisService(analyzer.New(), pricing.Default(), logger.Discard())

	_, err := svc.Analyze(context.Background(), "", nil)
	assert.ErrorIs(t, err, services.ErrNoFileSelected)
}

func TestAnalysisService_ExtractionFailure(t *testing.T) {
	svc := services.NewAnalysisService(analyzer.New(), pricing.Default(), logger.Discard())

	_, err := svc.Analyze(context.Background(), "broken.pdf", []byte("%PDF-1.4\nnot really a pdf"))
	var extractErr *analyzer.ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}

func TestOrderService_Submit(t *testing.T) {
	sender := &fakeSender{}
	svc := services.NewOrderService(sender, "orders@example.com", logger.Discard())
	order := validOrder()

	require.NoError(t, svc.Submit(context.Background(), order))
	assert.NotEqual(t, uuid.Nil, order.Reference)
	assert.Equal(t, "customer@example.com", order.CustomerEmail)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"orders@example.com"}, msg.To)
	assert.Equal(t, "New order: thesis.txt", msg.Subject)
	assert.Equal(t, order.Reference.String(), msg.Headers[models.HeaderOrderReference])
	assert.Contains(t, msg.HTMLBody, "customer@example.com")
	assert.Contains(t, msg.HTMLBody, "<li>Rephrasing</li><li>Translation</li>")
	assert.Contains(t, msg.HTMLBody, "Fast delivery ($20 per page)")
	assert.Contains(t, msg.HTMLBody, "$40.00")
	assert.Contains(t, msg.TextBody, "Customer email: customer@example.com")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "thesis.txt", msg.Attachments[0].Filename)
	assert.True(t, bytes.Equal(order.File, msg.Attachments[0].Data))
	assert.True(t, strings.HasPrefix(msg.Attachments[0].ContentType, "text/plain"))
}

func TestOrderService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *models.Order)
		want   error
	}{
		{name: "no file", mutate: func(o *models.Order) { o.File = nil }, want: services.ErrNoFileSelected},
		{name: "blank email", mutate: func(o *models.Order) { o.CustomerEmail = "   " }, want: services.ErrMissingOrderDetails},
		{name: "no services", mutate: func(o *models.Order) { o.Services = nil }, want: services.ErrMissingOrderDetails},
		{name: "blank service", mutate: func(o *models.Order) { o.Services = []string{""} }, want: services.ErrMissingOrderDetails},
		{name: "no delivery", mutate: func(o *models.Order) { o.DeliveryLabel = "" }, want: services.ErrMissingOrderDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			svc := services.NewOrderService(sender, "orders@example.com", logger.Discard())
			order := validOrder()
			tt.mutate(order)

			err := svc.Submit(context.Background(), order)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestOrderService_DispatchFailure(t *testing.T) {
	sender := &fakeSender{err: &notify.DeliveryError{Provider: "smtp", Err: errors.New("auth rejected")}}
	svc := services.NewOrderService(sender, "orders@example.com", logger.Discard())

	err := svc.Submit(context.Background(), validOrder())
	assert.ErrorIs(t, err, services.ErrNotificationDispatchFailed)
	var delivery *notify.DeliveryError
	assert.True(t, errors.As(err, &delivery))
}

func TestRenderOrderEmail_EscapesCustomerInput(t *testing.T) {
	order := validOrder()
	order.CustomerEmail = `<script>alert(1)</script>@example.com`
	order.TotalPrice = ""

	msg, err := services.RenderOrderEmail(order, "orders@example.com")
	require.NoError(t, err)
	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
	assert.Contains(t, msg.HTMLBody, "not provided")
	assert.NotContains(t, msg.TextBody, "<h3>")
}
