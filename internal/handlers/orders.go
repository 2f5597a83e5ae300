package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/models"
	"quote-backend/internal/services"
)

const (
	msgMissingDetails = "Missing order details."
	msgSubmitFailed   = "Failed to submit order."
	msgSubmitOK       = "Order submitted successfully!"
)

type OrdersHandler struct {
	orders *services.OrderService
	log    *slog.Logger
}

func NewOrdersHandler(orders *services.OrderService, log *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders: orders,
		log:    log,
	}
}

// SubmitOrder godoc
// @Summary     Submit an order
// @Description Emails the uploaded document and the chosen options to the site operator.
// @Tags        quote
// @Accept      multipart/form-data
// @Produce     json
// @Param       document     formData file   true  "Document being ordered"
// @Param       userEmail    formData string true  "Customer email"
// @Param       services     formData string true  "JSON array of service labels"
// @Param       deliveryTime formData string true  "Delivery label"
// @Param       totalPrice   formData string false "Quoted total, e.g. $12.50"
// @Success     200 {object} models.SubmitOrderResponse
// @Failure     400 {object} models.SubmitOrderResponse
// @Failure     413 {object} models.SubmitOrderResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.SubmitOrderResponse
// @Router      /submit-order [post]
func (h *OrdersHandler) SubmitOrder(c *gin.Context) {
	doc, err := readDocument(c)
	switch {
	case errors.Is(err, errNoDocument):
		c.JSON(http.StatusBadRequest, models.SubmitOrderResponse{Success: false, Message: msgNoFile})
		return
	case errors.Is(err, errUploadTooBig):
		c.JSON(http.StatusRequestEntityTooLarge, models.SubmitOrderResponse{Success: false, Message: msgUploadTooBig})
		return
	case err != nil:
		h.log.ErrorContext(c.Request.Context(), "failed to read upload", "error", err)
		c.JSON(http.StatusInternalServerError, models.SubmitOrderResponse{Success: false, Message: msgSubmitFailed})
		return
	}

	var form models.SubmitOrderForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.SubmitOrderResponse{Success: false, Message: msgMissingDetails})
		return
	}

	var labels []string
	if form.Services != "" {
		if err := json.Unmarshal([]byte(form.Services), &labels); err != nil {
			c.JSON(http.StatusBadRequest, models.SubmitOrderResponse{Success: false, Message: msgMissingDetails})
			return
		}
	}

	order := &models.Order{
		FileName:      doc.Name,
		File:          doc.Data,
		CustomerEmail: form.UserEmail,
		Services:      labels,
		DeliveryLabel: form.DeliveryTime,
		TotalPrice:    form.TotalPrice,
	}

	if err := h.orders.Submit(c.Request.Context(), order); err != nil {
		switch {
		case errors.Is(err, services.ErrNoFileSelected):
			c.JSON(http.StatusBadRequest, models.SubmitOrderResponse{Success: false, Message: msgNoFile})
		case errors.Is(err, services.ErrMissingOrderDetails):
			c.JSON(http.StatusBadRequest, models.SubmitOrderResponse{Success: false, Message: msgMissingDetails})
		default:
			c.JSON(http.StatusInternalServerError, models.SubmitOrderResponse{Success: false, Message: msgSubmitFailed})
		}
		return
	}

	c.Header(models.HeaderOrderReference, order.Reference.String())
	c.JSON(http.StatusOK, models.SubmitOrderResponse{Success: true, Message: msgSubmitOK})
}
