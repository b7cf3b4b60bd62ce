package redis

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/cifrabot/internal/users"
)

// SaveSession writes the state of one chat
func (redis *DBManager) SaveSession(ctx context.Context, state users.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return redis.client.HSet(ctx, sessionsKey, strconv.FormatInt(state.ChatID, 10), data).Err()
}

// LoadSessions retrieves every stored chat state
func (redis *DBManager) LoadSessions(ctx context.Context) ([]users.UserState, error) {
	raw, err := redis.client.HGetAll(ctx, sessionsKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			return []users.UserState{}, nil
		}
		return nil, err
	}
	return decodeSessions(raw), nil
}

func (redis *DBManager) DeleteSession(ctx context.Context, chatID int64) error {
	return redis.client.HDel(ctx, sessionsKey, strconv.FormatInt(chatID, 10)).Err()
}

func decodeSessions(raw map[string]string) []users.UserState {
	list := make([]users.UserState, 0, len(raw))
	for _, data := range raw {
		var state users.UserState
		if err := json.Unmarshal([]byte(data), &state); err != nil {
			continue
		}
		list = append(list, state)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ChatID < list[j].ChatID })
	return list
}
