package pantry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store 單一鍵值的食材櫃儲存；沒有資料時 Load 回傳 nil, nil
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// NewStore 依設定選擇儲存後端
func NewStore(ctx context.Context, cfg config.PantryConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		common.LogInfo("食材櫃使用記憶體儲存", zap.String("key", cfg.Key))
		return NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store, err := NewRedisStore(ctx, client, cfg.Key)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		common.LogInfo("食材櫃使用 Redis 儲存",
			zap.String("addr", cfg.RedisAddr),
			zap.String("key", cfg.Key),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown pantry backend %q", cfg.Backend)
	}
}

// MemoryStore 行程內儲存
// --------------------------------------------------
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load 讀取資料
func (m *MemoryStore) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save 覆寫資料
func (m *MemoryStore) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

// Close 無需釋放資源
func (m *MemoryStore) Close() error {
	return nil
}

// RedisStore 以單一 Redis 鍵保存
// --------------------------------------------------
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore 創建 Redis 儲存並測試連接
func NewRedisStore(ctx context.Context, client *redis.Client, key string) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, common.ErrStoreUnavailable.Wrap(fmt.Errorf("failed to connect to Redis: %w", err))
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load 讀取資料
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, common.ErrStoreUnavailable.Wrap(fmt.Errorf("failed to get pantry: %w", err))
	}
	return data, nil
}

// Save 覆寫資料，不設過期時間
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return common.ErrStoreUnavailable.Wrap(fmt.Errorf("failed to set pantry: %w", err))
	}
	return nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
