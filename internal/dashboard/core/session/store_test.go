package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/kvstore"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingKV struct {
	*kvstore.Memory
	setErr error
	getErr error
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingKV) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Memory.Get(ctx, key)
}

func TestLoad_Absent(t *testing.T) {
	s := NewStore(kvstore.NewMemory(), quietLogger())

	res, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != Absent {
		t.Fatalf("expected Absent, got %s", res.Status)
	}
	if _, ok := s.Current(); ok {
		t.Fatal("expected no cached session")
	}
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	want := entity.Session{Token: "tok", User: entity.User{ID: "u1", Nombre: "Ana", Email: "ana@mail.com"}}

	if err := NewStore(kv, quietLogger()).Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	// a fresh store simulates a process restart
	s := NewStore(kv, quietLogger())
	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Status != Restored {
		t.Fatalf("expected Restored, got %s", res.Status)
	}
	if res.Session != want {
		t.Fatalf("expected %+v, got %+v", want, res.Session)
	}
	if got, ok := s.Current(); !ok || got != want {
		t.Fatalf("expected cache to hold restored session, got %+v %v", got, ok)
	}
}

func TestLoad_CorruptedRecordIsPurged(t *testing.T) {
	cases := map[string]string{
		"not json":      "{not-json",
		"wrong shape":   `["a","b"]`,
		"missing token": `{"user":{"id":"u1"}}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := kvstore.NewMemory()
			_ = kv.Set(ctx, StorageKey, raw)

			s := NewStore(kv, quietLogger())
			res, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != Corrupted {
				t.Fatalf("expected Corrupted, got %s", res.Status)
			}
			if !errors.Is(res.Err, entity.ErrCorruptSession) {
				t.Fatalf("expected ErrCorruptSession, got %v", res.Err)
			}
			if _, err := kv.Get(ctx, StorageKey); !errors.Is(err, kvstore.ErrNotFound) {
				t.Fatalf("expected record removed, got %v", err)
			}
			if _, ok := s.Current(); ok {
				t.Fatal("expected no cached session")
			}
		})
	}
}

func TestLoad_StorageFaultIsReturned(t *testing.T) {
	boom := errors.New("disk on fire")
	s := NewStore(&failingKV{Memory: kvstore.NewMemory(), getErr: boom}, quietLogger())

	if _, err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSave_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Memory: kvstore.NewMemory()}
	s := NewStore(kv, quietLogger())

	first := entity.Session{Token: "first"}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	kv.setErr = errors.New("read-only")
	if err := s.Save(ctx, entity.Session{Token: "second"}); err == nil {
		t.Fatal("expected save error")
	}

	if got, _ := s.Current(); got != first {
		t.Fatalf("expected cache to keep %+v, got %+v", first, got)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := NewStore(kv, quietLogger())

	_ = s.Save(ctx, entity.Session{Token: "tok"})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Fatal("expected cache cleared")
	}
	if _, err := kv.Get(ctx, StorageKey); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("expected record removed, got %v", err)
	}
}
