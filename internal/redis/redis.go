package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/liveset/internal/users"
)

const (
	sessionPrefix = "session:"
	setCountsKey  = "set_counts"
)

type DBManager struct {
	client *redisClient.Client
}

// NewDBManager connects to Redis. redisURL is either a full redis:// or
// rediss:// URL or a bare host:port, in which case TLS and the default
// user are assumed.
func NewDBManager(redisURL, password string) (*DBManager, error) {
	connURL := redisURL
	if !strings.Contains(redisURL, "://") {
		connURL = fmt.Sprintf("rediss://default:%s@%s", password, redisURL)
	}
	opt, err := redisClient.ParseURL(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if opt.Password == "" {
		opt.Password = password
	}

	return NewDBManagerWithClient(redisClient.NewClient(opt)), nil
}

// NewDBManagerWithClient wraps an existing client
func NewDBManagerWithClient(client *redisClient.Client) *DBManager {
	return &DBManager{client: client}
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

func sessionKey(chatID int64) string {
	return sessionPrefix + strconv.FormatInt(chatID, 10)
}

// SaveSession stores the presentation state of a chat
func (redis *DBManager) SaveSession(ctx context.Context, session users.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, sessionKey(session.ChatID), sessionJSON, 0).Err()
}

// GetSession retrieves the presentation state of a chat
func (redis *DBManager) GetSession(ctx context.Context, chatID int64) (users.Session, bool, error) {
	data, err := redis.client.Get(ctx, sessionKey(chatID)).Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return users.Session{}, false, nil
		}
		return users.Session{}, false, err
	}
	var session users.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return users.Session{}, false, err
	}
	return session, true, nil
}

func (redis *DBManager) DeleteSession(ctx context.Context, chatID int64) error {
	return redis.client.Del(ctx, sessionKey(chatID)).Err()
}

// ClearSessions removes every stored session and returns how many were removed
func (redis *DBManager) ClearSessions(ctx context.Context) (int, error) {
	var removed int
	iter := redis.client.Scan(ctx, 0, sessionPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := redis.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %v", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (redis *DBManager) IncrementSetCount(ctx context.Context, setNumber string) error {
	err := redis.client.HIncrBy(ctx, setCountsKey, setNumber, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment count for set %s: %v", setNumber, err)
	}
	return nil
}

// GetSetCounts retrieves how often every set was loaded
func (redis *DBManager) GetSetCounts(ctx context.Context) (map[string]int, error) {
	result := make(map[string]int)
	raw, err := redis.client.HGetAll(ctx, setCountsKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			return result, nil
		}
		return nil, err
	}
	for setNumber, count := range raw {
		countInt, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[setNumber] = countInt
	}
	return result, nil
}
