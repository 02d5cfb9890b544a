package core

import (
	"context"
	"errors"
)

// ErrStoreNotFound 表示 key 不存在（store 实现统一返回此错误）。
var ErrStoreNotFound = errors.New("store: key not found")

// KeyValueStore 是字节级 KV 存储的领域接口，service 层用它缓存预测响应。
// 实现见 store 包（memory / redis）。
type KeyValueStore interface {
	Name() string

	// Get 读取 key；不存在返回 ErrStoreNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入 key；ttl 为可选的过期秒数。
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除 key；key 不存在不算错误。
	Delete(ctx context.Context, key string) error

	Close() error
}
