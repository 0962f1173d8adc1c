package challengeservice

import (
	"context"
	"sync"

	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
)

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
