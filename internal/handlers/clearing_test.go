package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"escrowd/internal/models"
)

func TestClearingReleaseUnauthorized(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/clearing/release", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/clearing/release", nil)
	req.Header.Set("X-Clearing-Secret", "wrong")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status %d, want 401", w.Code)
	}
}

func TestClearingReleaseManual(t *testing.T) {
	env := setupTest(t)
	now := time.Now().UTC()
	due := heldEscrow(t, env.db, "ord1", now.Add(-time.Hour))
	heldEscrow(t, env.db, "ord2", now.Add(24*time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/clearing/release", nil)
	req.Header.Set("X-Clearing-Secret", testSecret)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp ReleaseCycleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Result.Processed != 2 || resp.Result.Released != 1 || resp.Result.Skipped != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	var got models.Escrow
	if err := env.db.Where("id = ?", due.ID).First(&got).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.EscrowStatusReleased {
		t.Fatalf("due escrow not released: %+v", got)
	}
}

func TestClearingCyclesHistory(t *testing.T) {
	env := setupTest(t)
	heldEscrow(t, env.db, "ord1", time.Now().UTC().Add(-time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/clearing/release", nil)
	req.Header.Set("X-Clearing-Secret", testSecret)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("trigger status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/clearing/cycles", nil)
	req.Header.Set("X-Clearing-Secret", testSecret)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}
	var cycles []models.ReleaseCycle
	if err := json.Unmarshal(w.Body.Bytes(), &cycles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cycles) != 1 || cycles[0].TriggeredBy != "manual" || cycles[0].Released != 1 {
		t.Fatalf("unexpected cycles: %+v", cycles)
	}

	req = httptest.NewRequest(http.MethodGet, "/clearing/cycles/"+cycles[0].ID, nil)
	req.Header.Set("X-Clearing-Secret", testSecret)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status %d", w.Code)
	}
	var detail CycleDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Cycle.ID != cycles[0].ID || detail.ReportURL != "" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestGetCycleNotFound(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/clearing/cycles/missing", nil)
	req.Header.Set("X-Clearing-Secret", testSecret)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}
