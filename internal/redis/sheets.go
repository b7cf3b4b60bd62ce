package redis

import (
	"context"
	"encoding/json"
	"fmt"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/cifrabot/internal/sheets"
)

// GetSheet returns a cached sheet or sheets.ErrCacheMiss
func (redis *DBManager) GetSheet(ctx context.Context, url string) (*sheets.Sheet, error) {
	data, err := redis.client.Get(ctx, sheetKey(url)).Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return nil, sheets.ErrCacheMiss
		}
		return nil, err
	}
	return decodeSheet(data)
}

// SetSheet stores a sheet under its URL
func (redis *DBManager) SetSheet(ctx context.Context, sheet *sheets.Sheet) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, sheetKey(sheet.URL), data, redis.sheetTTL).Err()
}

func decodeSheet(data []byte) (*sheets.Sheet, error) {
	var sheet sheets.Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("corrupt cached sheet: %w", err)
	}
	if sheet.URL == "" || sheet.Chords == "" {
		return nil, sheets.ErrCacheMiss
	}
	return &sheet, nil
}
