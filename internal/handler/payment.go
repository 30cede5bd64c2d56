package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/furnix/furnix-api/internal/dto"
)

// PaymentHandler exposes the gateway initiation endpoint. The sandbox
// variant does not call out to SSLCommerz, it answers with a redirect
// URL pointing back at the storefront so the checkout flow can be
// exercised end to end without gateway credentials.
type PaymentHandler struct {
	frontendOrigin string
}

func NewPaymentHandler(frontendOrigin string) *PaymentHandler {
	return &PaymentHandler{frontendOrigin: frontendOrigin}
}

func (h *PaymentHandler) Init(c *gin.Context) {
	var req dto.PaymentInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "BDT"
	}

	redirect := fmt.Sprintf("%s/?payment=mock-success&order=%s&amount=%s&currency=%s",
		h.frontendOrigin,
		url.QueryEscape(req.OrderID),
		url.QueryEscape(req.Amount.String()),
		url.QueryEscape(currency),
	)

	c.JSON(http.StatusOK, dto.PaymentInitResponse{RedirectURL: redirect})
}
