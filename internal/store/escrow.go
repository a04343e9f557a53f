package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"escrowd/internal/models"
)

// ErrConflict означает, что условное обновление не прошло: эскроу уже
// переведён из ожидаемого статуса другим процессом.
var ErrConflict = errors.New("escrow status changed concurrently")

// PayoutFunc запрашивает выплату получателю и возвращает внешний
// идентификатор выплаты. Вызывается внутри транзакции выпуска.
type PayoutFunc func(models.Escrow) (string, error)

// EscrowStore — контракт хранилища эскроу, от которого зависит оркестратор.
type EscrowStore interface {
	// Get возвращает эскроу по идентификатору.
	Get(ctx context.Context, id string) (models.Escrow, error)
	// ListHeldBatch возвращает до limit HELD-эскроу с id > afterID,
	// отсортированных по id. Пустой срез — конец выборки.
	ListHeldBatch(ctx context.Context, afterID string, limit int) ([]models.Escrow, error)
	// Release атомарно переводит HELD -> RELEASED. Выплата запрашивается
	// внутри той же транзакции: при её ошибке переход откатывается и
	// эскроу остаётся HELD. Если статус уже не HELD — ErrConflict.
	Release(ctx context.Context, id string, at time.Time, auto bool, payout PayoutFunc) (models.Escrow, error)
}

// GormStore реализует EscrowStore поверх GORM (Postgres в проде,
// sqlite в тестах).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ EscrowStore = (*GormStore)(nil)

func (s *GormStore) Get(ctx context.Context, id string) (models.Escrow, error) {
	var e models.Escrow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return models.Escrow{}, err
	}
	normalize(&e)
	return e, nil
}

func (s *GormStore) ListHeldBatch(ctx context.Context, afterID string, limit int) ([]models.Escrow, error) {
	var list []models.Escrow
	q := s.db.WithContext(ctx).Where("status = ?", models.EscrowStatusHeld)
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}
	if err := q.Order("id").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		normalize(&list[i])
	}
	return list, nil
}

func (s *GormStore) Release(ctx context.Context, id string, at time.Time, auto bool, payout PayoutFunc) (models.Escrow, error) {
	var released models.Escrow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Escrow{}).
			Where("id = ? AND status = ?", id, models.EscrowStatusHeld).
			Updates(map[string]any{
				"status":                 models.EscrowStatusReleased,
				"previous_status":        models.EscrowStatusHeld,
				"released_at":            at,
				"released_automatically": auto,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		if err := tx.Where("id = ?", id).First(&released).Error; err != nil {
			return err
		}
		payoutID, err := payout(released)
		if err != nil {
			// откат: эскроу остаётся HELD, повтор на следующем цикле
			return err
		}
		if err := tx.Model(&models.Escrow{}).
			Where("id = ?", id).Update("payout_id", payoutID).Error; err != nil {
			return err
		}
		released.PayoutID = &payoutID
		return nil
	})
	if err != nil {
		return models.Escrow{}, err
	}
	normalize(&released)
	return released, nil
}

// Create сохраняет новый эскроу в статусе PENDING.
func (s *GormStore) Create(ctx context.Context, e *models.Escrow) error {
	return s.db.WithContext(ctx).Create(e).Error
}

// MarkHeld переводит PENDING -> HELD после подтверждения поступления средств.
// ClearingEndsAt выставляется ровно один раз: из endsAt, если задан, иначе
// heldAt + ClearingDurationDays.
func (s *GormStore) MarkHeld(ctx context.Context, id string, heldAt time.Time, endsAt *time.Time) (models.Escrow, error) {
	var held models.Escrow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Escrow
		if err := tx.Where("id = ?", id).First(&e).Error; err != nil {
			return err
		}
		ends := endsAt
		if ends == nil {
			t := heldAt.Add(time.Duration(e.ClearingDurationDays) * 24 * time.Hour)
			ends = &t
		}
		res := tx.Model(&models.Escrow{}).
			Where("id = ? AND status = ?", id, models.EscrowStatusPending).
			Updates(map[string]any{
				"status":           models.EscrowStatusHeld,
				"previous_status":  models.EscrowStatusPending,
				"held_at":          heldAt,
				"clearing_ends_at": *ends,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return tx.Where("id = ?", id).First(&held).Error
	})
	if err != nil {
		return models.Escrow{}, err
	}
	normalize(&held)
	return held, nil
}

// normalize приводит все временные метки записи к UTC на границе чтения,
// чтобы политика клиринга всегда сравнивала канонические значения.
func normalize(e *models.Escrow) {
	utc := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		u := t.UTC()
		return &u
	}
	e.ClearingEndsAt = utc(e.ClearingEndsAt)
	e.HeldAt = utc(e.HeldAt)
	e.AcceptedAt = utc(e.AcceptedAt)
	e.ReleasedAt = utc(e.ReleasedAt)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
}
