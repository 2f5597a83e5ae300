package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/models"
	"quote-backend/internal/pricing"
)

type PricingHandler struct {
	table *pricing.Table
}

func NewPricingHandler(table *pricing.Table) *PricingHandler {
	return &PricingHandler{table: table}
}

// GetPricing godoc
// @Summary     Price table
// @Description Returns the per-page rates, labels and page rule used for quotes.
// @Tags        quote
// @Produce     json
// @Success     200 {object} models.PricingResponse
// @Router      /pricing [get]
func (h *PricingHandler) GetPricing(c *gin.Context) {
	c.JSON(http.StatusOK, PricingResponse(h.table))
}

// PricingResponse renders a table in its wire form.
func PricingResponse(t *pricing.Table) models.PricingResponse {
	resp := models.PricingResponse{
		Currency:     t.Currency(),
		WordsPerPage: t.WordsPerPage(),
	}
	for _, svc := range pricing.Services {
		rates := make(map[string]string, len(pricing.Speeds))
		for _, speed := range pricing.Speeds {
			rates[string(speed)] = t.Rate(svc, speed).String()
		}
		resp.Services = append(resp.Services, models.ServicePricing{
			ID:    string(svc),
			Label: t.ServiceLabel(svc),
			Rates: rates,
		})
	}
	for _, speed := range pricing.Speeds {
		resp.Speeds = append(resp.Speeds, models.SpeedDefinition{
			ID:    string(speed),
			Label: t.SpeedLabel(speed),
		})
	}
	return resp
}
