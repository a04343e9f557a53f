package clearing

import (
	"context"
	"log"
	"time"
)

// Scheduler периодически запускает клиринговый цикл в отдельной горутине:
// раз в сутки в заданное время runAt, либо просто по интервалу.
type Scheduler struct {
	releaser *Releaser
	runAt    string // "HH:MM"; пустая строка — интервал от старта
	interval time.Duration
	stopCh   chan struct{}
}

func NewScheduler(r *Releaser, runAt string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{releaser: r, runAt: runAt, interval: interval, stopCh: make(chan struct{})}
}

// Start запускает планировщик.
func (s *Scheduler) Start() {
	go func() {
		timer := time.NewTimer(s.initialDelay(time.Now()))
		defer timer.Stop()
		for {
			select {
			case <-timer.C:
				s.runOnce()
				timer.Reset(s.interval)
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() { close(s.stopCh) }

// initialDelay считает задержку до ближайшего запуска runAt;
// без runAt первый запуск происходит через interval.
func (s *Scheduler) initialDelay(now time.Time) time.Duration {
	if s.runAt == "" {
		return s.interval
	}
	at, err := time.Parse("15:04", s.runAt)
	if err != nil {
		return s.interval
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

func (s *Scheduler) runOnce() {
	res, err := s.releaser.RunReleaseCycle(context.Background(), TriggerScheduled)
	if err != nil {
		log.Printf("клиринговый цикл не выполнен: %v", err)
		return
	}
	log.Printf("клиринговый цикл: обработано %d, выпущено %d, пропущено %d, ошибок %d",
		res.Processed, res.Released, res.Skipped, res.Errors)
}
