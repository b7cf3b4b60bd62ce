package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/cifrabot/internal/utils"
)

// DefaultSheetTTL is how long a fetched sheet stays cached
const DefaultSheetTTL = 24 * time.Hour

type DBManager struct {
	client   *redisClient.Client
	sheetTTL time.Duration
}

// NewDBManager connects to addr. A bare host:port is treated as a TLS
// endpoint with the default user, full redis:// or rediss:// URLs are used as is.
func NewDBManager(addr, password string) (*DBManager, error) {
	opt, err := redisClient.ParseURL(connURL(addr, password))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewDBManagerWithClient(redisClient.NewClient(opt)), nil
}

// NewDBManagerFromEnv reads REDIS_URL and the optional REDIS_PASSWORD
func NewDBManagerFromEnv() (*DBManager, error) {
	env, err := utils.LoadEnv([]string{"REDIS_URL"})
	if err != nil {
		return nil, fmt.Errorf("failed to load redis env: %w", err)
	}
	password := utils.OptionalEnv([]string{"REDIS_PASSWORD"})["REDIS_PASSWORD"]
	return NewDBManager(env["REDIS_URL"], password)
}

func NewDBManagerWithClient(client *redisClient.Client) *DBManager {
	return &DBManager{client: client, sheetTTL: DefaultSheetTTL}
}

// SetSheetTTL changes the expiry of sheets stored from now on. Zero keeps them forever.
func (redis *DBManager) SetSheetTTL(ttl time.Duration) {
	redis.sheetTTL = ttl
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

// IncrementSongCount bumps how many times a chat asked for a sheet
func (redis *DBManager) IncrementSongCount(ctx context.Context, chatID int64, sheetURL string) error {
	err := redis.client.HIncrBy(ctx, requestsKey(chatID), sheetURL, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment song count for chat %d and sheet %s: %v", chatID, sheetURL, err)
	}
	return nil
}

// GetSongCounts retrieves the request counts of a chat keyed by sheet URL
func (redis *DBManager) GetSongCounts(ctx context.Context, chatID int64) (map[string]int, error) {
	raw, err := redis.client.HGetAll(ctx, requestsKey(chatID)).Result()
	if err != nil {
		if err == redisClient.Nil {
			return map[string]int{}, nil
		}
		return nil, err
	}
	return parseCounts(raw), nil
}

func parseCounts(raw map[string]string) map[string]int {
	result := make(map[string]int, len(raw))
	for url, count := range raw {
		countInt, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[url] = countInt
	}
	return result
}

func connURL(addr, password string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return fmt.Sprintf("rediss://default:%s@%s", password, addr)
}

func sheetKey(url string) string {
	return "sheet:" + strings.TrimSuffix(url, "/")
}

func requestsKey(chatID int64) string {
	return fmt.Sprintf("requests:%d", chatID)
}

const sessionsKey = "sessions"
