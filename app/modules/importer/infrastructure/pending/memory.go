package importpending

import (
	"context"
	"sync"
	"time"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/google/uuid"
)

type memoryItem struct {
	batch     importdomain.PendingBatch
	expiresAt time.Time
}

// MemoryStore keeps pending batches in process memory. Expired batches are
// dropped lazily on access.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[uuid.UUID]memoryItem
	now   func() time.Time
}

// NewMemoryStore creates a MemoryStore whose batches live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		items: make(map[uuid.UUID]memoryItem),
		now:   time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, batch *importdomain.PendingBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[batch.ID] = memoryItem{batch: *batch, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*importdomain.PendingBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, importdomain.ErrBatchNotFound
	}
	if s.now().After(item.expiresAt) {
		delete(s.items, id)
		return nil, importdomain.ErrBatchNotFound
	}
	batch := item.batch
	return &batch, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}
