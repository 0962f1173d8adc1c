package importservice

import (
	"context"
	"sync"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/google/uuid"
)

type FakePendingStore struct {
	mu      sync.Mutex
	batches map[uuid.UUID]importdomain.PendingBatch
	SaveErr error
}

func NewFakePendingStore() *FakePendingStore {
	return &FakePendingStore{batches: make(map[uuid.UUID]importdomain.PendingBatch)}
}

func (f *FakePendingStore) Save(ctx context.Context, batch *importdomain.PendingBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.batches[batch.ID] = *batch
	return nil
}

func (f *FakePendingStore) Get(ctx context.Context, id uuid.UUID) (*importdomain.PendingBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.batches[id]
	if !ok {
		return nil, importdomain.ErrBatchNotFound
	}
	return &b, nil
}

func (f *FakePendingStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.batches, id)
	return nil
}

func (f *FakePendingStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type FakeAudit struct {
	mu      sync.Mutex
	Entries []auditservice.Entry
	Err     error
}

func (f *FakeAudit) Record(ctx context.Context, entry auditservice.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Entries = append(f.Entries, entry)
	return nil
}

type published struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu       sync.Mutex
	Messages []published
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, published{Topic: topic, Payload: payload})
	return nil
}
