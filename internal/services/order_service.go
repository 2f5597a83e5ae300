package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"quote-backend/internal/models"
	"quote-backend/internal/notify"
)

var (
	ErrNoFileSelected             = errors.New("no file selected")
	ErrMissingOrderDetails        = errors.New("missing order details")
	ErrNotificationDispatchFailed = errors.New("notification dispatch failed")
)

// OrderService validates submitted orders and hands them to the notification
// sender. Nothing is stored and nothing is retried.
type OrderService struct {
	sender    notify.Sender
	recipient string
	log       *slog.Logger
}

func NewOrderService(sender notify.Sender, recipient string, log *slog.Logger) *OrderService {
	return &OrderService{
		sender:    sender,
		recipient: recipient,
		log:       log,
	}
}

// Submit dispatches the order email. A nil error means the sender accepted
// the message; delivery itself is not confirmed. The order's Reference is
// assigned here.
func (s *OrderService) Submit(ctx context.Context, order *models.Order) error {
	if order == nil || len(order.File) == 0 {
		return ErrNoFileSelected
	}
	if err := validateOrder(order); err != nil {
		return err
	}

	order.Reference = uuid.New()
	logCtx := s.log.With("order", order.Reference.String(), "file", order.FileName)

	msg, err := RenderOrderEmail(order, s.recipient)
	if err != nil {
		logCtx.ErrorContext(ctx, "failed to render order email", "error", err)
		return fmt.Errorf("%w: %w", ErrNotificationDispatchFailed, err)
	}

	logCtx.InfoContext(ctx, "sending order email", "services", order.Services, "delivery", order.DeliveryLabel)
	if err := s.sender.Send(ctx, msg); err != nil {
		logCtx.ErrorContext(ctx, "order email dispatch failed", "error", err)
		return fmt.Errorf("%w: %w", ErrNotificationDispatchFailed, err)
	}
	logCtx.InfoContext(ctx, "order email accepted")
	return nil
}

func validateOrder(order *models.Order) error {
	order.CustomerEmail = strings.TrimSpace(order.CustomerEmail)
	order.DeliveryLabel = strings.TrimSpace(order.DeliveryLabel)
	if order.CustomerEmail == "" || order.DeliveryLabel == "" || len(order.Services) == 0 {
		return ErrMissingOrderDetails
	}
	for _, svc := range order.Services {
		if strings.TrimSpace(svc) == "" {
			return ErrMissingOrderDetails
		}
	}
	return nil
}
