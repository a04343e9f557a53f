package clearing

import (
	"errors"
	"time"

	"escrowd/internal/models"
)

// ErrNoReferenceTime возвращается для HELD-эскроу, у которого нет ни одной
// временной метки, от которой можно отсчитать конец клирингового периода.
// Такая запись — нарушение целостности данных, а не повод молча пропустить.
var ErrNoReferenceTime = errors.New("held escrow has no usable reference timestamp")

// Durations задаёт клиринговые периоды в днях по типу плательщика:
// для бизнеса короче, для частных лиц длиннее.
type Durations struct {
	BusinessDays   int
	IndividualDays int
}

// Policy решает, истёк ли клиринговый период эскроу.
// Не делает ввода-вывода и детерминирована по (escrow, now).
type Policy struct {
	Durations Durations
}

// DurationDaysFor возвращает период в днях для типа плательщика.
func (p Policy) DurationDaysFor(t models.PayerType) int {
	if t == models.PayerTypeBusiness {
		return p.Durations.BusinessDays
	}
	return p.Durations.IndividualDays
}

// EligibleForRelease сообщает, можно ли выпускать эскроу в момент now.
// Правила:
//   - только статус HELD может быть выпущен;
//   - при заполненном ClearingEndsAt — выпуск с момента now >= ClearingEndsAt;
//   - для старых записей без ClearingEndsAt конец периода вычисляется от
//     HeldAt (либо AcceptedAt, либо CreatedAt) плюс ClearingDurationDays;
//   - если опорной метки нет вовсе — ErrNoReferenceTime.
func (p Policy) EligibleForRelease(e models.Escrow, now time.Time) (bool, error) {
	if e.Status != models.EscrowStatusHeld {
		return false, nil
	}
	if e.ClearingEndsAt != nil {
		return !now.Before(*e.ClearingEndsAt), nil
	}
	ref := referenceTime(e)
	if ref == nil {
		return false, ErrNoReferenceTime
	}
	days := e.ClearingDurationDays
	if days <= 0 {
		days = p.DurationDaysFor(e.PayerType)
	}
	endsAt := ref.Add(time.Duration(days) * 24 * time.Hour)
	return !now.Before(endsAt), nil
}

// referenceTime выбирает самую раннюю пригодную опорную метку.
func referenceTime(e models.Escrow) *time.Time {
	if e.HeldAt != nil {
		return e.HeldAt
	}
	if e.AcceptedAt != nil {
		return e.AcceptedAt
	}
	if !e.CreatedAt.IsZero() {
		t := e.CreatedAt
		return &t
	}
	return nil
}
