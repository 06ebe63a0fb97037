// Package session persists the authenticated session in durable key-value
// storage and keeps an in-memory copy written through on every change.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/kvstore"
)

// StorageKey is the single durable key holding the serialized session.
const StorageKey = "swapshop_session"

type Status int

const (
	Absent Status = iota
	Restored
	Corrupted
)

func (s Status) String() string {
	switch s {
	case Restored:
		return "restored"
	case Corrupted:
		return "corrupted"
	default:
		return "absent"
	}
}

// LoadResult is the outcome of reading durable storage. Session is only
// meaningful when Status is Restored; Err carries the parse failure when
// Status is Corrupted.
type LoadResult struct {
	Session entity.Session
	Status  Status
	Err     error
}

// updatedAtReader is implemented by backends that track write times.
type updatedAtReader interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

type Store struct {
	kv     ports.KeyValueStore
	logger *slog.Logger

	mu      sync.RWMutex
	current *entity.Session
}

func NewStore(kv ports.KeyValueStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// Load reads and parses the persisted session. A record that does not parse,
// or parses without a token, is purged and reported as Corrupted. The returned
// error is reserved for storage faults.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		s.setCurrent(nil)
		return LoadResult{Status: Absent}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("session: load: %w", err)
	}

	sess, perr := decode(raw)
	if perr != nil {
		s.logger.WarnContext(ctx, "purging corrupted session record", "error", perr)
		if err := s.kv.Delete(ctx, StorageKey); err != nil {
			return LoadResult{}, fmt.Errorf("session: purge corrupted record: %w", err)
		}
		s.setCurrent(nil)
		return LoadResult{Status: Corrupted, Err: perr}, nil
	}

	attrs := []any{"user_id", sess.User.ID}
	if r, ok := s.kv.(updatedAtReader); ok {
		if at, err := r.UpdatedAt(ctx, StorageKey); err == nil {
			attrs = append(attrs, "saved_at", at)
		}
	}
	s.logger.InfoContext(ctx, "session restored", attrs...)

	s.setCurrent(&sess)
	return LoadResult{Session: sess, Status: Restored}, nil
}

// Save persists sess. The cache is only updated once the durable write
// succeeded.
func (s *Store) Save(ctx context.Context, sess entity.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	s.setCurrent(&sess)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	s.setCurrent(nil)
	return nil
}

// Current returns the cached session, if any.
func (s *Store) Current() (entity.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return entity.Session{}, false
	}
	return *s.current, true
}

func (s *Store) setCurrent(sess *entity.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}

func decode(raw string) (entity.Session, error) {
	var sess entity.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return entity.Session{}, fmt.Errorf("%w: %v", entity.ErrCorruptSession, err)
	}
	if !sess.Valid() {
		return entity.Session{}, fmt.Errorf("%w: missing token", entity.ErrCorruptSession)
	}
	return sess, nil
}
