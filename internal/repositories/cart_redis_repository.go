package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"kirana/internal/apperrors"
	"kirana/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore is a Redis-backed CartSessionStore. Each user's cart is
// a hash keyed by product id, the value a JSON-encoded cart line.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore creates a new RedisCartStore around an existing
// client.
func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{
		client: client,
	}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Load reads back every cart line stored for the user.
func (s *RedisCartStore) Load(ctx context.Context, userID string) ([]models.CartLine, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load cart session: %v", apperrors.ErrStorage, err)
	}
	lines := make([]models.CartLine, 0, len(fields))
	for productID, raw := range fields {
		var line models.CartLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return nil, fmt.Errorf("%w: corrupt cart line for product %s: %v", apperrors.ErrStorage, productID, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Save writes one cart line through to the hash.
func (s *RedisCartStore) Save(ctx context.Context, userID string, line models.CartLine) error {
	raw, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("%w: failed to encode cart line: %v", apperrors.ErrStorage, err)
	}
	if err := s.client.HSet(ctx, cartKey(userID), line.ProductID, raw).Err(); err != nil {
		return fmt.Errorf("%w: failed to save cart line: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Remove deletes one cart line from the hash.
func (s *RedisCartStore) Remove(ctx context.Context, userID, productID string) error {
	if err := s.client.HDel(ctx, cartKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("%w: failed to remove cart line: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Clear deletes the whole cart hash.
func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: failed to clear cart session: %v", apperrors.ErrStorage, err)
	}
	return nil
}
