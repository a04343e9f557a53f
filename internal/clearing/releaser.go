package clearing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"escrowd/internal/models"
	"escrowd/internal/notifications"
	"escrowd/internal/payout"
	"escrowd/internal/services"
	"escrowd/internal/store"
	"escrowd/internal/utils"
)

type Outcome string

const (
	OutcomeReleased Outcome = "released"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
)

const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Detail — итог обработки одного эскроу в цикле.
type Detail struct {
	EscrowID string  `json:"escrowID"`
	Outcome  Outcome `json:"outcome"`
	Message  string  `json:"message,omitempty"`
}

// CycleResult — агрегированный итог одного клирингового цикла.
type CycleResult struct {
	Processed  int       `json:"processed"`
	Released   int       `json:"released"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Details    []Detail  `json:"details"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (r *CycleResult) add(d Detail) {
	r.Processed++
	r.Details = append(r.Details, d)
	switch d.Outcome {
	case OutcomeReleased:
		r.Released++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Errors++
	}
}

// ReleaseEvent рассылается операторам по вебсокету.
type ReleaseEvent struct {
	Type   string        `json:"type"`
	Escrow models.Escrow `json:"escrow"`
}

// CycleEvent — итог цикла для операторского потока событий.
type CycleEvent struct {
	Type      string `json:"type"`
	Trigger   string `json:"trigger"`
	Processed int    `json:"processed"`
	Released  int    `json:"released"`
	Skipped   int    `json:"skipped"`
	Errors    int    `json:"errors"`
}

// Releaser находит HELD-эскроу с истёкшим клирингом и выпускает каждый
// ровно один раз. Ошибка одного эскроу никогда не прерывает пакет.
type Releaser struct {
	store   store.EscrowStore
	payouts payout.Provider
	policy  Policy
	db      *gorm.DB
	cache   *services.CycleCache
	archive *services.ReportArchive
	batch   int
	timeout time.Duration
}

func NewReleaser(st store.EscrowStore, p payout.Provider, policy Policy, batch int, timeout time.Duration) *Releaser {
	if batch <= 0 {
		batch = 100
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Releaser{store: st, payouts: p, policy: policy, batch: batch, timeout: timeout}
}

// WithAudit подключает базу для записей уведомлений и аудита циклов.
func (r *Releaser) WithAudit(db *gorm.DB) *Releaser {
	r.db = db
	return r
}

// WithCache подключает Redis-кэш результатов циклов.
func (r *Releaser) WithCache(c *services.CycleCache) *Releaser {
	r.cache = c
	return r
}

// WithArchive подключает архив отчётов в объектном хранилище.
func (r *Releaser) WithArchive(a *services.ReportArchive) *Releaser {
	r.archive = a
	return r
}

// RunReleaseCycle обходит все HELD-эскроу пакетами и выпускает те, у кого
// истёк клиринговый период. Единственный код перехода для планировщика и
// ручного запуска. Ошибка возвращается только если сам обход хранилища
// невозможен; ошибки отдельных эскроу попадают в Details.
func (r *Releaser) RunReleaseCycle(ctx context.Context, trigger string) (CycleResult, error) {
	result := CycleResult{StartedAt: time.Now().UTC(), Details: []Detail{}}
	var wg sync.WaitGroup

	afterID := ""
	for {
		lctx, cancel := context.WithTimeout(ctx, r.timeout)
		batch, err := r.store.ListHeldBatch(lctx, afterID, r.batch)
		cancel()
		if err != nil {
			wg.Wait()
			result.FinishedAt = time.Now().UTC()
			return result, fmt.Errorf("list held escrows: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		now := time.Now().UTC()
		for _, e := range batch {
			result.add(r.processOne(ctx, e, now, true, &wg))
		}
		afterID = batch[len(batch)-1].ID
		if len(batch) < r.batch {
			break
		}
	}

	wg.Wait()
	result.FinishedAt = time.Now().UTC()
	r.recordCycle(ctx, trigger, result)
	return result, nil
}

// ReleaseOne выпускает один эскроу тем же путём, что и цикл — для ручного
// административного действия. Право на выпуск проверяется той же политикой.
func (r *Releaser) ReleaseOne(ctx context.Context, id string) (Detail, error) {
	gctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	e, err := r.store.Get(gctx, id)
	if err != nil {
		return Detail{}, err
	}
	return r.processOne(ctx, e, time.Now().UTC(), false, nil), nil
}

// processOne обрабатывает один эскроу независимо от остальных.
func (r *Releaser) processOne(ctx context.Context, e models.Escrow, now time.Time, auto bool, wg *sync.WaitGroup) Detail {
	eligible, err := r.policy.EligibleForRelease(e, now)
	if err != nil {
		return Detail{EscrowID: e.ID, Outcome: OutcomeError, Message: err.Error()}
	}
	if !eligible {
		return Detail{EscrowID: e.ID, Outcome: OutcomeSkipped, Message: "clearing period not elapsed"}
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	released, err := r.store.Release(cctx, e.ID, now, auto, func(cur models.Escrow) (string, error) {
		return r.payouts.RequestPayout(cctx, payout.Request{
			PayeeID:        cur.PayeeID,
			Amount:         cur.PayeeAmount,
			Currency:       cur.Currency,
			Reference:      fmt.Sprintf("Escrow release, order %s", cur.OrderID),
			IdempotencyKey: "payout_" + cur.ID,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			// конкурирующий процесс уже выпустил — ожидаемое поведение
			return Detail{EscrowID: e.ID, Outcome: OutcomeSkipped, Message: "already released by another process"}
		}
		return Detail{EscrowID: e.ID, Outcome: OutcomeError, Message: err.Error()}
	}

	if wg != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.notifyReleased(released)
		}()
	} else {
		r.notifyReleased(released)
	}
	return Detail{EscrowID: e.ID, Outcome: OutcomeReleased}
}

// notifyReleased создаёт уведомление получателю и рассылает событие
// операторам. Любая ошибка здесь логируется и не влияет на итог выпуска.
func (r *Releaser) notifyReleased(e models.Escrow) {
	amount := decimal.NewFromInt(e.PayeeAmount).Div(decimal.NewFromInt(100))
	payloadObj := map[string]any{
		"escrowID": e.ID,
		"orderID":  e.OrderID,
		"payoutID": e.PayoutID,
		"amount":   amount.StringFixed(2),
		"currency": e.Currency,
	}
	b, err := json.Marshal(payloadObj)
	if err != nil {
		log.Printf("не удалось сериализовать уведомление для %s: %v", e.PayeeID, err)
		return
	}
	n := models.Notification{UserID: e.PayeeID, Type: "ESCROW_RELEASED", Payload: b}
	if r.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
			log.Printf("не удалось сохранить уведомление для %s: %v", e.PayeeID, err)
		}
	}
	notifications.Broadcast(e.PayeeID, n)
	notifications.BroadcastEvent(ReleaseEvent{Type: "ESCROW_RELEASED", Escrow: e})
}

// recordCycle сохраняет итог цикла в кэш, архив и таблицу аудита.
// Всё — best effort: сбой записи не влияет на результат цикла.
func (r *Releaser) recordCycle(ctx context.Context, trigger string, result CycleResult) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if r.cache != nil {
		if err := r.cache.StoreResult(ctx, result); err != nil {
			log.Printf("не удалось закэшировать результат цикла: %v", err)
		}
	}

	id, err := utils.GenerateNanoID()
	if err != nil {
		log.Printf("не удалось сгенерировать ID цикла: %v", err)
		return
	}
	var object string
	if r.archive.Enabled() {
		object, err = r.archive.Store(ctx, id, result.StartedAt, result)
		if err != nil {
			log.Printf("не удалось заархивировать отчёт цикла %s: %v", id, err)
		}
	}
	if r.db != nil {
		details, err := json.Marshal(result.Details)
		if err != nil {
			log.Printf("не удалось сериализовать детали цикла %s: %v", id, err)
			details = []byte("[]")
		}
		cycle := models.ReleaseCycle{
			ID:           id,
			TriggeredBy:  trigger,
			Processed:    result.Processed,
			Released:     result.Released,
			Skipped:      result.Skipped,
			Errors:       result.Errors,
			Details:      datatypes.JSON(details),
			ReportObject: object,
			StartedAt:    result.StartedAt,
			FinishedAt:   result.FinishedAt,
		}
		if err := r.db.WithContext(ctx).Create(&cycle).Error; err != nil {
			log.Printf("не удалось сохранить аудит цикла %s: %v", id, err)
		}
	}
	notifications.BroadcastEvent(CycleEvent{
		Type:      "CYCLE_FINISHED",
		Trigger:   trigger,
		Processed: result.Processed,
		Released:  result.Released,
		Skipped:   result.Skipped,
		Errors:    result.Errors,
	})
}
