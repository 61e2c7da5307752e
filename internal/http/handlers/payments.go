package handlers

import (
	"net/http"
	"sync"

	"drivingschool-backend/internal/http/middleware"
	"drivingschool-backend/internal/repositories"
	"drivingschool-backend/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	gatewayMu  sync.RWMutex
	gatewayCfg services.HTTPGateway
)

// SetPaymentGateway stores the gateway config from env sekali saat boot.
func SetPaymentGateway(url, apiKey string) {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	gatewayCfg = services.HTTPGateway{URL: url, APIKey: apiKey}
}

// paymentGateway returns nil kalau gateway belum dikonfigurasi, sehingga
// settle ONLINE gagal dengan GatewayUnavailableError yang jelas.
func paymentGateway() services.GatewayClient {
	gatewayMu.RLock()
	defer gatewayMu.RUnlock()
	if gatewayCfg.URL == "" {
		return nil
	}
	return gatewayCfg
}

type paymentCallbackRequest struct {
	Reference string `json:"reference" binding:"required"`
	Outcome   string `json:"outcome" binding:"required"` // paid / failed
	Reason    string `json:"reason"`
}

// POST /api/payments/callback - callback asynchronous dari payment gateway.
// Idempotent: callback untuk booking yang sudah final diabaikan.
func PaymentCallback(c *gin.Context) {
	var req paymentCallbackRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.PaymentService{
		BookingRepo: repositories.BookingRepository{},
		CreditRepo:  repositories.CreditRepository{},
		RequestID:   middleware.GetRequestID(c),
	}

	b, err := svc.HandleCallback(req.Reference, req.Outcome, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id": b.ID,
		"status":     b.Status,
	})
}
