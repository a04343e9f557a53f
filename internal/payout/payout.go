package payout

import "context"

// Request описывает запрос на выплату получателю.
// Amount — в минимальных единицах валюты (центах).
type Request struct {
	PayeeID        string
	Amount         int64
	Currency       string
	Reference      string
	IdempotencyKey string
}

// Provider — внешний платёжный сервис, исполняющий выплаты.
// Возвращает идентификатор выплаты на стороне провайдера.
type Provider interface {
	RequestPayout(ctx context.Context, r Request) (string, error)
}
