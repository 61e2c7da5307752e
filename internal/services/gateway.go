package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"drivingschool-backend/internal/domain"

	"github.com/google/uuid"
)

// GatewayCharge adalah hasil submit charge: reference internal kita + URL
// checkout milik gateway.
type GatewayCharge struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

// GatewayClient is the narrow interface to the external payment gateway.
type GatewayClient interface {
	CreateCharge(bookingID, amount int64, description string) (GatewayCharge, error)
}

// HTTPGateway bicara ke gateway lewat HTTP JSON.
type HTTPGateway struct {
	URL    string
	APIKey string
	Client *http.Client
}

type gatewayChargeRequest struct {
	BookingID   int64  `json:"booking_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type gatewayChargeResponse struct {
	RedirectURL string `json:"redirect_url"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	Detail      string `json:"detail"`
}

func (g HTTPGateway) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (g HTTPGateway) CreateCharge(bookingID, amount int64, description string) (GatewayCharge, error) {
	payload := gatewayChargeRequest{
		BookingID:   bookingID,
		Amount:      amount,
		Description: description,
		Reference:   uuid.NewString(),
	}

	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, g.URL, bytes.NewBuffer(body))
	if err != nil {
		return GatewayCharge{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return GatewayCharge{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return GatewayCharge{}, fmt.Errorf("gateway menolak charge, status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return GatewayCharge{}, err
	}

	var out gatewayChargeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return GatewayCharge{}, err
	}
	if out.Status == "declined" {
		return GatewayCharge{}, domain.PaymentDeclinedError{BookingID: bookingID, Reason: out.Detail}
	}
	if out.Status != "" && out.Status != "ok" && out.Status != "created" {
		return GatewayCharge{}, fmt.Errorf("gateway error: %s", out.Detail)
	}

	ref := out.Reference
	if ref == "" {
		ref = payload.Reference
	}
	return GatewayCharge{Reference: ref, RedirectURL: out.RedirectURL}, nil
}
