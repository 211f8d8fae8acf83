package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// CartItem is one line of the online checkout payload.
type CartItem struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity" binding:"required"`
}

// CreateCheckoutSession turns a cart into a Stripe Checkout session and
// returns the redirect URL.
func CreateCheckoutSession(c *gin.Context) {
	var cart []CartItem
	if err := c.ShouldBindJSON(&cart); err != nil || len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(cart))
	for _, item := range cart {
		if item.Price.IsNegative() || item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart"})
			return
		}
		// Stripe wants integer cents
		cents := item.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(cents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(baseURL() + "/success"),
		CancelURL:          stripe.String(baseURL() + "/cancel"),
	}

	s, err := session.New(params)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment provider error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}
