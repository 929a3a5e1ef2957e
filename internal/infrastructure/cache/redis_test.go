package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_SelectsDB(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb, err := OpenRedis(ctx, Options{Addr: mr.Addr(), DB: 2})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.Set(ctx, "session:abc", "1", 0).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	mr.Select(2)
	if got, err := mr.Get("session:abc"); err != nil || got != "1" {
		t.Fatalf("db 2 value = %q, %v", got, err)
	}
	mr.Select(0)
	if mr.Exists("session:abc") {
		t.Fatalf("key leaked into db 0")
	}
}

func TestOpenRedis_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	ctx := context.Background()

	if _, err := OpenRedis(ctx, Options{Addr: mr.Addr()}); err == nil {
		t.Fatalf("expected auth error without password")
	}
	rdb, err := OpenRedis(ctx, Options{Addr: mr.Addr(), Password: "s3cret"})
	if err != nil {
		t.Fatalf("OpenRedis with password: %v", err)
	}
	_ = rdb.Close()
}

func TestOpenRedis_UnreachableWrapsAddr(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	_, err = OpenRedis(context.Background(), Options{Addr: addr, PingTimeout: time.Second})
	if err == nil {
		t.Fatalf("expected error for closed server")
	}
	if !strings.Contains(err.Error(), addr) {
		t.Fatalf("error %q does not name %s", err, addr)
	}
}

func TestOpenRedis_CanceledContext(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := OpenRedis(ctx, Options{Addr: mr.Addr()}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
