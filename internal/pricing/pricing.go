// Package pricing holds the per-page price table and the quote arithmetic
// built on it. Everything here is pure; a Table is built once at startup and
// never mutated afterwards.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Service string

const (
	Rephrasing  Service = "rephrasing"
	Translation Service = "translation"
)

// Services lists every known service in display order.
var Services = []Service{Rephrasing, Translation}

type Speed string

const (
	Normal Speed = "normal"
	Fast   Speed = "fast"
)

// Speeds lists every delivery speed in display order.
var Speeds = []Speed{Normal, Fast}

func ParseService(s string) (Service, error) {
	switch Service(strings.ToLower(strings.TrimSpace(s))) {
	case Rephrasing:
		return Rephrasing, nil
	case Translation:
		return Translation, nil
	}
	return "", fmt.Errorf("unknown service %q", s)
}

func ParseSpeed(s string) (Speed, error) {
	switch Speed(strings.ToLower(strings.TrimSpace(s))) {
	case Normal:
		return Normal, nil
	case Fast:
		return Fast, nil
	}
	return "", fmt.Errorf("unknown delivery speed %q", s)
}

// Table maps (service, speed) to a per-page rate, plus the labels and page
// rule that go with it.
type Table struct {
	rates         map[Service]map[Speed]decimal.Decimal
	serviceLabels map[Service]string
	speedLabels   map[Speed]string
	wordsPerPage  int
	currency      string
}

// Rate returns the per-page rate of a single service at the given speed.
func (t *Table) Rate(svc Service, speed Speed) decimal.Decimal {
	return t.rates[svc][speed]
}

// RateFor sums the per-page rates of every selected service at speed. It is
// what the delivery option labels show and does not depend on any file.
func (t *Table) RateFor(sel Selection, speed Speed) decimal.Decimal {
	total := decimal.Zero
	for _, svc := range sel.Services() {
		total = total.Add(t.Rate(svc, speed))
	}
	return total
}

// PriceFor is the quote total: combined per-page rate times pages. An empty
// selection or a non-positive page count prices at zero.
func (t *Table) PriceFor(sel Selection, speed Speed, pages int) decimal.Decimal {
	if pages <= 0 || sel.Empty() {
		return decimal.Zero
	}
	return t.RateFor(sel, speed).Mul(decimal.NewFromInt(int64(pages)))
}

// PageCount converts a word count into billable pages, rounding up.
func (t *Table) PageCount(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + t.wordsPerPage - 1) / t.wordsPerPage
}

func (t *Table) WordsPerPage() int { return t.wordsPerPage }

func (t *Table) Currency() string { return t.currency }

// Format renders an amount the way totals are displayed, e.g. "$12.50".
func (t *Table) Format(amount decimal.Decimal) string {
	return t.currency + amount.StringFixed(2)
}

func (t *Table) ServiceLabel(svc Service) string {
	if label, ok := t.serviceLabels[svc]; ok {
		return label
	}
	return string(svc)
}

func (t *Table) SpeedLabel(speed Speed) string {
	if label, ok := t.speedLabels[speed]; ok {
		return label
	}
	return string(speed)
}

// DeliveryLabel is the text of a delivery option, carrying the combined
// per-page rate for the current selection, e.g. "Fast delivery ($20 per page)".
func (t *Table) DeliveryLabel(speed Speed, sel Selection) string {
	return fmt.Sprintf("%s (%s%s per page)", t.SpeedLabel(speed), t.currency, t.RateFor(sel, speed).String())
}

// ServiceLabels returns the display labels of the selection in stable order.
func (t *Table) ServiceLabels(sel Selection) []string {
	services := sel.Services()
	labels := make([]string, 0, len(services))
	for _, svc := range services {
		labels = append(labels, t.ServiceLabel(svc))
	}
	return labels
}
