package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "echonova.db")
	db, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	closeDB(db)
}

func TestOpenInvalidDriver(t *testing.T) {
	if _, err := Open("mongo", "x"); err == nil {
		t.Fatalf("expected invalid driver error")
	}
	if _, err := Open("postgres", ""); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

func TestConnOpensOnceUnderConcurrentFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conn.db")
	var opens int32
	release := make(chan struct{})
	conn := NewConn(func(ctx context.Context) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		<-release
		return Open("sqlite", path)
	}, logger.NewNop(), WithMigrations(AutoMigrateAll))
	t.Cleanup(func() { _ = conn.Close() })

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*gorm.DB, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = conn.DB(context.Background())
		}(i)
	}
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different handle", i)
		}
	}
	if got := atomic.LoadInt32(&opens); got != 1 {
		t.Fatalf("opener called %d times, want 1", got)
	}
	if err := conn.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestConnDoesNotCacheFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retry.db")
	var calls int32
	conn := NewConn(func(ctx context.Context) (*gorm.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("database is starting up")
		}
		return Open("sqlite", path)
	}, logger.NewNop())
	t.Cleanup(func() { _ = conn.Close() })

	if _, err := conn.DB(context.Background()); err == nil {
		t.Fatalf("expected first attempt to fail")
	}
	if _, err := conn.DB(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("opener called %d times, want 2", got)
	}
}

func TestStaticProvider(t *testing.T) {
	if _, err := (Static{}).DB(context.Background()); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}
