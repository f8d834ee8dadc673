package database

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/user/hebrew-imagegen/internal/entity"
)

type memoryEntry struct {
	data  []byte
	timer *time.Timer
}

type memoryImageRepository struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
}

// NewMemoryImageRepository creates an in-memory image store. A positive ttl
// schedules automatic deletion per entry; zero keeps entries for the process
// lifetime.
func NewMemoryImageRepository(ttl time.Duration) ImageRepository {
	return &memoryImageRepository{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
	}
}

func (r *memoryImageRepository) Put(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrEmptyImage
	}

	id := uuid.New().String()
	r.store(id, data)

	logrus.WithFields(logrus.Fields{"image_id": id, "bytes": len(data)}).Debug("image stored")
	return id, nil
}

func (r *memoryImageRepository) Get(ctx context.Context, id string) ([]byte, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, entity.ErrImageNotFound
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Replace overwrites an existing entry in place and returns the same id. No
// revision history is kept.
func (r *memoryImageRepository) Replace(ctx context.Context, id string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrEmptyImage
	}

	r.mu.Lock()
	old, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return "", entity.ErrImageNotFound
	}
	if old.timer != nil {
		old.timer.Stop()
	}

	r.store(id, data)
	return id, nil
}

func (r *memoryImageRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok {
		return entity.ErrImageNotFound
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	return nil
}

// store copies data into a fresh entry so callers cannot mutate stored bytes
// and readers with a stale entry pointer keep seeing a complete slice.
func (r *memoryImageRepository) store(id string, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)

	e := &memoryEntry{data: buf}
	if r.ttl > 0 {
		e.timer = time.AfterFunc(r.ttl, func() {
			_ = r.Delete(context.Background(), id)
		})
	}

	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()
}
