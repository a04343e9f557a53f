package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	lastCycleKey    = "clearing:last_cycle"
	cycleHistoryKey = "clearing:cycles"
)

// CycleCache хранит в Redis результат последнего клирингового цикла и
// короткую историю прогонов для операторских панелей.
type CycleCache struct {
	client *redis.Client
	limit  int64
}

func NewCycleCache(client *redis.Client, limit int64) *CycleCache {
	if limit <= 0 {
		limit = 30
	}
	return &CycleCache{client: client, limit: limit}
}

// StoreResult записывает результат цикла как последний и добавляет его
// в усечённую историю.
func (c *CycleCache) StoreResult(ctx context.Context, result any) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, lastCycleKey, b, 0)
	pipe.LPush(ctx, cycleHistoryKey, b)
	pipe.LTrim(ctx, cycleHistoryKey, 0, c.limit-1)
	_, err = pipe.Exec(ctx)
	return err
}

// LastResult возвращает результат последнего цикла или nil, если его нет.
func (c *CycleCache) LastResult(ctx context.Context, dst any) (bool, error) {
	b, err := c.client.Get(ctx, lastCycleKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

// History возвращает недавние результаты циклов, новые первыми.
func (c *CycleCache) History(ctx context.Context) ([]json.RawMessage, error) {
	vals, err := c.client.LRange(ctx, cycleHistoryKey, 0, c.limit-1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	res := make([]json.RawMessage, 0, len(vals))
	for _, v := range vals {
		res = append(res, json.RawMessage(v))
	}
	return res, nil
}
