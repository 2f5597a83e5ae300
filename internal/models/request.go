package models

// Multipart field names shared by the server and its clients.
const (
	FieldDocument     = "document"
	FieldUserEmail    = "userEmail"
	FieldServices     = "services"
	FieldDeliveryTime = "deliveryTime"
	FieldTotalPrice   = "totalPrice"
)

// SubmitOrderForm holds the non-file fields of POST /submit-order. Services
// arrives as a JSON encoded array of display labels.
type SubmitOrderForm struct {
	UserEmail    string `form:"userEmail"`
	Services     string `form:"services"`
	DeliveryTime string `form:"deliveryTime"`
	TotalPrice   string `form:"totalPrice"`
}

// HeaderOrderReference carries the reference of an accepted order, on the
// submit response and on the operator email.
const HeaderOrderReference = "X-Order-Reference"
