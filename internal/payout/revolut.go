package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RevolutClient выполняет выплаты через Revolut Business API.
type RevolutClient struct {
	baseURL   string
	token     string
	accountID string
	http      *http.Client
}

// NewRevolutClient создаёт клиента выплат. Таймаут ограничивает каждый
// запрос, чтобы цикл клиринга не завис на провайдере.
func NewRevolutClient(baseURL, token, accountID string, timeout time.Duration) *RevolutClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RevolutClient{
		baseURL:   baseURL,
		token:     token,
		accountID: accountID,
		http:      &http.Client{Timeout: timeout},
	}
}

var _ Provider = (*RevolutClient)(nil)

type payRequest struct {
	RequestID string      `json:"request_id"`
	AccountID string      `json:"account_id"`
	Receiver  payReceiver `json:"receiver"`
	Amount    int64       `json:"amount"`
	Currency  string      `json:"currency"`
	Reference string      `json:"reference"`
}

type payReceiver struct {
	CounterpartyID string `json:"counterparty_id"`
}

type payResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

func (c *RevolutClient) RequestPayout(ctx context.Context, r Request) (string, error) {
	body, err := json.Marshal(payRequest{
		RequestID: r.IdempotencyKey,
		AccountID: c.accountID,
		Receiver:  payReceiver{CounterpartyID: r.PayeeID},
		Amount:    r.Amount,
		Currency:  r.Currency,
		Reference: r.Reference,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pay", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("payout provider status %d: %s", resp.StatusCode, string(b))
	}
	var pr payResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("payout response decode: %w", err)
	}
	if pr.ID == "" {
		return "", fmt.Errorf("payout provider returned empty id")
	}
	return pr.ID, nil
}
