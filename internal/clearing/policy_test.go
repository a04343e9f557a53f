package clearing

import (
	"errors"
	"testing"
	"time"

	"escrowd/internal/models"
)

func testPolicy() Policy {
	return Policy{Durations: Durations{BusinessDays: 7, IndividualDays: 14}}
}

func ts(t time.Time) *time.Time { return &t }

func TestEligibilityBoundary(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	e := models.Escrow{Status: models.EscrowStatusHeld, ClearingEndsAt: ts(now.Add(-time.Second))}
	ok, err := p.EligibleForRelease(e, now)
	if err != nil || !ok {
		t.Fatalf("expected eligible one second after clearing end, got %v %v", ok, err)
	}

	e.ClearingEndsAt = ts(now.Add(time.Second))
	ok, err = p.EligibleForRelease(e, now)
	if err != nil || ok {
		t.Fatalf("expected not eligible one second before clearing end, got %v %v", ok, err)
	}

	// ровно в момент окончания периода — уже можно
	e.ClearingEndsAt = ts(now)
	ok, err = p.EligibleForRelease(e, now)
	if err != nil || !ok {
		t.Fatalf("expected eligible exactly at clearing end, got %v %v", ok, err)
	}
}

func TestEligibilityOnlyHeld(t *testing.T) {
	p := testPolicy()
	now := time.Now().UTC()
	past := ts(now.Add(-time.Hour))
	for _, st := range []models.EscrowStatus{
		models.EscrowStatusPending,
		models.EscrowStatusReleased,
		models.EscrowStatusFailed,
	} {
		e := models.Escrow{Status: st, ClearingEndsAt: past}
		ok, err := p.EligibleForRelease(e, now)
		if err != nil || ok {
			t.Fatalf("status %s must not be eligible, got %v %v", st, ok, err)
		}
	}
}

func TestEligibilityFallbackFromHeldAt(t *testing.T) {
	p := testPolicy()
	heldAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := models.Escrow{
		Status:               models.EscrowStatusHeld,
		HeldAt:               ts(heldAt),
		ClearingDurationDays: 14,
	}

	ok, err := p.EligibleForRelease(e, heldAt.Add(14*24*time.Hour+time.Second))
	if err != nil || !ok {
		t.Fatalf("expected eligible after 14 days, got %v %v", ok, err)
	}
	ok, err = p.EligibleForRelease(e, heldAt.Add(13*24*time.Hour))
	if err != nil || ok {
		t.Fatalf("expected not eligible after 13 days, got %v %v", ok, err)
	}
}

func TestEligibilityFallbackChain(t *testing.T) {
	p := testPolicy()
	accepted := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	e := models.Escrow{
		Status:               models.EscrowStatusHeld,
		AcceptedAt:           ts(accepted),
		ClearingDurationDays: 7,
	}
	ok, err := p.EligibleForRelease(e, accepted.Add(8*24*time.Hour))
	if err != nil || !ok {
		t.Fatalf("expected fallback to acceptedAt, got %v %v", ok, err)
	}

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	e = models.Escrow{
		Status:               models.EscrowStatusHeld,
		CreatedAt:            created,
		ClearingDurationDays: 7,
	}
	ok, err = p.EligibleForRelease(e, created.Add(8*24*time.Hour))
	if err != nil || !ok {
		t.Fatalf("expected fallback to createdAt, got %v %v", ok, err)
	}
}

func TestEligibilityDurationByPayerType(t *testing.T) {
	p := testPolicy()
	heldAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	now := heldAt.Add(10 * 24 * time.Hour)

	// без явного периода бизнес-плательщик получает 7 дней
	biz := models.Escrow{Status: models.EscrowStatusHeld, HeldAt: ts(heldAt), PayerType: models.PayerTypeBusiness}
	ok, err := p.EligibleForRelease(biz, now)
	if err != nil || !ok {
		t.Fatalf("business payer must clear in 7 days, got %v %v", ok, err)
	}

	// частное лицо — 14 дней
	ind := models.Escrow{Status: models.EscrowStatusHeld, HeldAt: ts(heldAt), PayerType: models.PayerTypeIndividual}
	ok, err = p.EligibleForRelease(ind, now)
	if err != nil || ok {
		t.Fatalf("individual payer must clear in 14 days, got %v %v", ok, err)
	}
}

func TestEligibilityNoReferenceTime(t *testing.T) {
	p := testPolicy()
	e := models.Escrow{Status: models.EscrowStatusHeld, ClearingDurationDays: 14}
	ok, err := p.EligibleForRelease(e, time.Now().UTC())
	if !errors.Is(err, ErrNoReferenceTime) {
		t.Fatalf("expected ErrNoReferenceTime, got %v %v", ok, err)
	}
}

func TestEligibilityDeterministic(t *testing.T) {
	p := testPolicy()
	now := time.Now().UTC()
	e := models.Escrow{Status: models.EscrowStatusHeld, ClearingEndsAt: ts(now.Add(-time.Minute))}
	for i := 0; i < 100; i++ {
		ok, err := p.EligibleForRelease(e, now)
		if err != nil || !ok {
			t.Fatalf("run %d: expected stable eligible, got %v %v", i, ok, err)
		}
	}
}
