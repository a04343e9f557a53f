package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRevolutRequestPayout(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/pay" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"po_abc","state":"pending"}`))
	}))
	defer srv.Close()

	c := NewRevolutClient(srv.URL, "tok", "acc1", time.Second)
	id, err := c.RequestPayout(context.Background(), Request{
		PayeeID:        "cp_1",
		Amount:         13500,
		Currency:       "EUR",
		Reference:      "Escrow release, order ord1",
		IdempotencyKey: "payout_e1",
	})
	if err != nil {
		t.Fatalf("request payout: %v", err)
	}
	if id != "po_abc" {
		t.Fatalf("id = %q", id)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody["request_id"] != "payout_e1" || gotBody["account_id"] != "acc1" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
	recv, _ := gotBody["receiver"].(map[string]any)
	if recv["counterparty_id"] != "cp_1" {
		t.Fatalf("unexpected receiver: %v", gotBody["receiver"])
	}
	if gotBody["amount"] != float64(13500) || gotBody["currency"] != "EUR" {
		t.Fatalf("unexpected amount: %v %v", gotBody["amount"], gotBody["currency"])
	}
}

func TestRevolutRequestPayoutProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"insufficient balance"}`))
	}))
	defer srv.Close()

	c := NewRevolutClient(srv.URL, "tok", "acc1", time.Second)
	if _, err := c.RequestPayout(context.Background(), Request{PayeeID: "cp_1", Amount: 1, Currency: "EUR"}); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestRevolutRequestPayoutEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"state":"pending"}`))
	}))
	defer srv.Close()

	c := NewRevolutClient(srv.URL, "tok", "acc1", time.Second)
	if _, err := c.RequestPayout(context.Background(), Request{PayeeID: "cp_1", Amount: 1, Currency: "EUR"}); err == nil {
		t.Fatal("expected error on empty payout id")
	}
}
