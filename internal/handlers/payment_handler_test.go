package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateCheckoutSessionRejectsEmptyCart(t *testing.T) {
	setupTestDB(t)
	r := newRouter("11111111-1")
	r.POST("/api/payment/create-session", CreateCheckoutSession)

	w := doJSON(t, r, http.MethodPost, "/api/payment/create-session", []CartItem{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSessionRejectsInvalidItems(t *testing.T) {
	setupTestDB(t)
	r := newRouter("11111111-1")
	r.POST("/api/payment/create-session", CreateCheckoutSession)

	w := doJSON(t, r, http.MethodPost, "/api/payment/create-session", []CartItem{
		{Name: "Ficus", Price: decimal.NewFromInt(-10), Quantity: 1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/payment/create-session", []CartItem{
		{Name: "Ficus", Price: decimal.NewFromInt(10), Quantity: -1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
