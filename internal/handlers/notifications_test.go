package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"escrowd/internal/models"
)

func TestListNotificationsRequiresUser(t *testing.T) {
	env := setupTest(t)
	if w := getJSON(t, env, "/notifications"); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestListNotificationsAfterRelease(t *testing.T) {
	env := setupTest(t)
	e := heldEscrow(t, env.db, "ord1", time.Now().UTC().Add(-time.Hour))

	if w := postJSON(t, env, "/clearing/release", ""); w.Code != http.StatusOK {
		t.Fatalf("trigger: %d %s", w.Code, w.Body.String())
	}

	w := getJSON(t, env, "/notifications?userId="+e.PayeeID)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var ns []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &ns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ns) != 1 || ns[0].Type != "ESCROW_RELEASED" {
		t.Fatalf("unexpected notifications: %+v", ns)
	}

	var payload map[string]any
	if err := json.Unmarshal(ns[0].Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["amount"] != "135.00" || payload["currency"] != "EUR" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
