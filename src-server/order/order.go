// Package order holds the pending order records built by the /order_form
// modal chain, one per Discord user, until the confirmation email is sent.
package order

import (
	"time"

	"github.com/google/uuid"
)

// Step is where a pending order is in the modal chain.
type Step int

const (
	AwaitingStep1 Step = iota + 1
	AwaitingStep2
	AwaitingStep3
	Completed
)

func (s Step) String() string {
	switch s {
	case AwaitingStep1:
		return "awaiting_step_1"
	case AwaitingStep2:
		return "awaiting_step_2"
	case AwaitingStep3:
		return "awaiting_step_3"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Order is one user's in-progress submission. Field values are kept exactly
// as the user typed them.
type Order struct {
	ID        uuid.UUID
	UserID    string
	Username  string
	Step      Step
	CreatedAt time.Time
	UpdatedAt time.Time

	// step 1
	OrderNumber  string
	ArrivalStart string
	ArrivalEnd   string
	ImageURL     string
	ProductName  string

	// step 2
	StyleID   string
	Size      string
	Condition string
	Price     string
	Color     string

	// step 3
	ShippingAddress string
	Email           string
	Notes           string
}

// Placeholder keys understood by the email template.
const (
	KeyOrderNumber     = "order_number"
	KeyArrivalStart    = "estimated_arrival_start_date"
	KeyArrivalEnd      = "estimated_arrival_end_date"
	KeyImageURL        = "product_image_url"
	KeyProductName     = "product_name"
	KeyStyleID         = "style_id"
	KeySize            = "product_size"
	KeyCondition       = "product_condition"
	KeyPrice           = "purchase_price"
	KeyColor           = "color"
	KeyShippingAddress = "shipping_address"
	KeyEmail           = "email"
	KeyNotes           = "notes"
	KeyCustomerName    = "customer_name"
	KeyOrderID         = "order_id"
	KeyOrderDate       = "order_date"
)

// Fields returns the template placeholders for o. Dates are rendered in loc.
func (o Order) Fields(loc *time.Location) map[string]string {
	if loc == nil {
		loc = time.Local
	}
	return map[string]string{
		KeyOrderNumber:     o.OrderNumber,
		KeyArrivalStart:    o.ArrivalStart,
		KeyArrivalEnd:      o.ArrivalEnd,
		KeyImageURL:        o.ImageURL,
		KeyProductName:     o.ProductName,
		KeyStyleID:         o.StyleID,
		KeySize:            o.Size,
		KeyCondition:       o.Condition,
		KeyPrice:           o.Price,
		KeyColor:           o.Color,
		KeyShippingAddress: o.ShippingAddress,
		KeyEmail:           o.Email,
		KeyNotes:           o.Notes,
		KeyCustomerName:    o.Username,
		KeyOrderID:         o.ID.String(),
		KeyOrderDate:       o.CreatedAt.In(loc).Format("02/01/2006 15:04"),
	}
}
