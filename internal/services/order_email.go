package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"quote-backend/internal/analyzer"
	"quote-backend/internal/models"
	"quote-backend/internal/notify"
)

var orderEmailTemplate = template.Must(template.New("order").Parse(`<h3>New order</h3>
<p><strong>Order reference:</strong> {{.Reference}}</p>
<p><strong>Customer email:</strong> {{.CustomerEmail}}</p>
<h4>Requested services:</h4>
<ul>{{range .Services}}<li>{{.}}</li>{{end}}</ul>
<p><strong>Selected delivery:</strong> {{.DeliveryLabel}}</p>
<hr>
<p><strong>Total price:</strong> {{if .TotalPrice}}{{.TotalPrice}}{{else}}not provided{{end}}</p>
<p>The uploaded file is attached.</p>
`))

// RenderOrderEmail builds the operator notification for an order: an HTML
// body with a plain-text alternative and the original file attached.
func RenderOrderEmail(order *models.Order, recipient string) (notify.Message, error) {
	buf := bytes.NewBuffer(nil)
	if err := orderEmailTemplate.Execute(buf, order); err != nil {
		return notify.Message{}, fmt.Errorf("render order email: %w", err)
	}
	html := buf.String()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return notify.Message{}, fmt.Errorf("parse order email: %w", err)
	}

	fileName := order.FileName
	if fileName == "" {
		fileName = "document"
	}

	return notify.Message{
		To:       []string{recipient},
		Subject:  "New order: " + fileName,
		HTMLBody: html,
		TextBody: analyzer.HTMLText(doc),
		Headers:  map[string]string{models.HeaderOrderReference: order.Reference.String()},
		Attachments: []notify.Attachment{{
			Filename:    fileName,
			ContentType: mimetype.Detect(order.File).String(),
			Data:        order.File,
		}},
	}, nil
}
