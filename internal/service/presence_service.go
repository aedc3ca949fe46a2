package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceKeyPrefix = "presence:"
	presenceTTL       = 2 * time.Minute
)

// PresenceService mirrors socket liveness into Redis so other instances and
// offline tooling can query who is connected. Keys expire in case a crash
// skips the offline write.
type PresenceService struct {
	client *redis.Client
}

func NewPresenceService(client *redis.Client) *PresenceService {
	return &PresenceService{client: client}
}

func (s *PresenceService) SetUserOnline(ctx context.Context, userID string) error {
	key := presenceKeyPrefix + userID
	if err := s.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), presenceTTL).Err(); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	return nil
}

func (s *PresenceService) SetUserOffline(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, presenceKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to clear presence: %w", err)
	}
	return nil
}

func (s *PresenceService) IsUserOnline(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.Exists(ctx, presenceKeyPrefix+userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}
	return n > 0, nil
}

// OnlineUsers lists the user IDs with a live presence key.
func (s *PresenceService) OnlineUsers(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, presenceKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan presence keys: %w", err)
		}
		for _, k := range keys {
			ids = append(ids, k[len(presenceKeyPrefix):])
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}
