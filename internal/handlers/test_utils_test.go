package handlers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"escrowd/config"
	"escrowd/internal/clearing"
	"escrowd/internal/models"
	"escrowd/internal/payout"
	"escrowd/internal/store"
)

const testSecret = "test-secret"

type stubProvider struct {
	mu    sync.Mutex
	calls []payout.Request
}

func (s *stubProvider) RequestPayout(ctx context.Context, r payout.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r)
	return fmt.Sprintf("po_%d", len(s.calls)), nil
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	provider *stubProvider
}

// setupTest поднимает in-memory базу и роутер со всеми маршрутами,
// как их собирает main.
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.Escrow{}, &models.Notification{}, &models.ReleaseCycle{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{TriggerSecret: testSecret}
	st := store.NewGormStore(db)
	policy := clearing.Policy{Durations: clearing.Durations{BusinessDays: 7, IndividualDays: 14}}
	prov := &stubProvider{}
	releaser := clearing.NewReleaser(st, prov, policy, 100, 5*time.Second).WithAudit(db)

	r := gin.New()
	auth := r.Group("/", TriggerAuth(cfg))
	auth.POST("/clearing/release", RunClearing(releaser))
	auth.GET("/clearing/cycles", ListCycles(db))
	auth.GET("/clearing/cycles/:id", GetCycle(db, nil))
	auth.POST("/escrows", CreateEscrow(st, policy))
	auth.GET("/escrows", ListEscrows(db))
	auth.GET("/escrows/:id", GetEscrow(st))
	auth.POST("/escrows/:id/hold", HoldEscrow(st))
	auth.POST("/escrows/:id/release", ReleaseEscrow(releaser))
	auth.GET("/notifications", ListNotifications(db))

	return &testEnv{db: db, router: r, provider: prov}
}

func heldEscrow(t *testing.T, db *gorm.DB, orderID string, endsAt time.Time) models.Escrow {
	t.Helper()
	heldAt := endsAt.Add(-14 * 24 * time.Hour)
	e := models.Escrow{
		OrderID:              orderID,
		PayerID:              "payer_" + orderID,
		PayeeID:              "payee_" + orderID,
		Amount:               15000,
		PlatformFee:          1500,
		PayeeAmount:          13500,
		Currency:             "EUR",
		PayerType:            models.PayerTypeIndividual,
		Status:               models.EscrowStatusHeld,
		ClearingDurationDays: 14,
		ClearingEndsAt:       &endsAt,
		HeldAt:               &heldAt,
	}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("create escrow %s: %v", orderID, err)
	}
	return e
}
