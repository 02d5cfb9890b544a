package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/agrikit/core"
)

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "absent"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Fatalf("Get absent = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Fatalf("Get after delete = %v, want ErrStoreNotFound", err)
	}

	// 删除不存在的 key 不算错误
	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "short", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := ms.Get(ctx, "short"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := ms.Get(ctx, "short"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Fatalf("Get after expiry = %v, want ErrStoreNotFound", err)
	}
}
