package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"beautycenter/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.OpenSQLiteMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { storage.CloseDB(db) })
	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func mustCenter(t *testing.T, db *gorm.DB, name string) *storage.Center {
	t.Helper()
	c := &storage.Center{Name: name, Phone: "+71234567890"}
	a := &storage.Address{Street: "Tverskaya", City: "Moscow", State: "MO", Number: 1}
	require.NoError(t, NewCenterService(db).Create(context.Background(), c, a))
	return c
}

func mustService(t *testing.T, db *gorm.DB, name string) *storage.Service {
	t.Helper()
	s := &storage.Service{Name: name, Category: "hair"}
	require.NoError(t, NewCatalogService(db).Create(context.Background(), s))
	return s
}

func mustUser(t *testing.T, db *gorm.DB, name string) *storage.User {
	t.Helper()
	u, err := NewUserService(db).Create(context.Background(), name, "secret-pass", name+"@example.com")
	require.NoError(t, err)
	return u
}

// memoryStore 以内存 map 模拟令牌服务所需的 Redis 命令。
type memoryStore struct {
	data map[string]string
}

func newMemoryStore() *memoryStore { return &memoryStore{data: map[string]string{}} }

func (m *memoryStore) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	default:
		panic("unsupported value type")
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}
