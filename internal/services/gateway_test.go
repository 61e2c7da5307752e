package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPGatewayCreateCharge(t *testing.T) {
	var gotAuth string
	var gotReq gatewayChargeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode payload error: %v", err)
		}
		json.NewEncoder(w).Encode(gatewayChargeResponse{
			Status:      "ok",
			Reference:   gotReq.Reference,
			RedirectURL: "https://pay.example/" + gotReq.Reference,
		})
	}))
	defer srv.Close()

	gw := HTTPGateway{URL: srv.URL, APIKey: "secret"}
	charge, err := gw.CreateCharge(7, 250000, "Les mengemudi 2024-01-08 (09:00)")
	if err != nil {
		t.Fatalf("create charge error: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization header: got %q", gotAuth)
	}
	if gotReq.BookingID != 7 || gotReq.Amount != 250000 {
		t.Fatalf("payload salah: %+v", gotReq)
	}
	if charge.Reference == "" || charge.Reference != gotReq.Reference {
		t.Fatalf("reference tidak konsisten: %q vs %q", charge.Reference, gotReq.Reference)
	}
	if charge.RedirectURL == "" {
		t.Fatalf("redirect_url kosong")
	}
}

func TestHTTPGatewayRejectedCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := HTTPGateway{URL: srv.URL, APIKey: "secret"}
	if _, err := gw.CreateCharge(7, 250000, "x"); err == nil {
		t.Fatalf("status 502 harus jadi error")
	}
}
