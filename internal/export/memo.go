package export

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/observability"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

// MemoryStore keeps encoded exports in an in-process LRU.
type MemoryStore struct {
	lru *lru.Cache[string, []byte]
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = 64
	}
	c, _ := lru.New[string, []byte](size)
	return &MemoryStore{lru: c}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte) error {
	s.lru.Add(key, val)
	return nil
}

func (s *MemoryStore) Len() int { return s.lru.Len() }

type Result struct {
	Data []byte
	Key  string
	Hit  bool
}

// Memo memoizes Encode by content key. A nil store disables caching; store
// errors are logged and never fail the export.
type Memo struct {
	store     Store
	logger    *slog.Logger
	opTimeout time.Duration
}

func NewMemo(store Store, logger *slog.Logger, opTimeout time.Duration) *Memo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memo{store: store, logger: logger, opTimeout: opTimeout}
}

func (m *Memo) Encode(ctx context.Context, records []model.Record, columns []model.Field) (Result, error) {
	key, err := ContentKey(records, columns)
	if err != nil {
		return Result{}, err
	}

	if m.store != nil {
		cctx, cancel := m.opContext(ctx)
		b, ok, err := m.store.Get(cctx, key)
		cancel()
		switch {
		case err != nil:
			observability.IncExportCacheError()
			m.logger.WarnContext(ctx, "export cache get failed", "key", key, "err", err)
		case ok:
			observability.IncExportCacheHit()
			return Result{Data: b, Key: key, Hit: true}, nil
		default:
			observability.IncExportCacheMiss()
		}
	}

	data, err := Encode(records, columns)
	if err != nil {
		return Result{}, err
	}

	if m.store != nil {
		cctx, cancel := m.opContext(ctx)
		if err := m.store.Set(cctx, key, data); err != nil {
			observability.IncExportCacheError()
			m.logger.WarnContext(ctx, "export cache set failed", "key", key, "err", err)
		}
		cancel()
	}
	return Result{Data: data, Key: key}, nil
}

func (m *Memo) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.opTimeout)
}
