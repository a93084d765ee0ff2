// Package jobs defines the background jobs run by the queue workers.
package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/fashionhub/storefront/pkg/mail"
)

// OrderConfirmation emails a customer after their order is persisted. The
// payload carries plain values so it survives the queue's JSON round trip.
type OrderConfirmation struct {
	OrderID     string  `json:"orderId"`
	Email       string  `json:"email"`
	CustomerN   string  `json:"customerName"`
	TotalAmount float64 `json:"totalAmount"`
	ItemCount   int     `json:"itemCount"`
}

func (OrderConfirmation) Name() string { return "order_confirmation" }

func (j OrderConfirmation) Handle(ctx context.Context) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thanks for your order, %s!</h2>", j.CustomerN)
	fmt.Fprintf(&b, "<p>Order <strong>%s</strong> was received and is pending.</p>", j.OrderID)
	fmt.Fprintf(&b, "<p>%d item(s), total <strong>$%.2f</strong>.</p>", j.ItemCount, j.TotalAmount)
	b.WriteString("<p>We will email you again when it ships.</p>")

	return mail.New().
		To(j.Email).
		Subject(fmt.Sprintf("FashionHub order %s confirmed", j.OrderID)).
		HTML(b.String()).
		Send()
}
