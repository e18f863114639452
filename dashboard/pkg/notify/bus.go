// Package notify carries layout updates from the process that changed a
// layout to every other view of it.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/store"
)

// Handler receives a published payload.
type Handler func(payload []byte)

// Bus is a fire-and-forget topic broadcaster. There is no acknowledgement and
// no ordering beyond last write.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe registers h for topic. The returned func unsubscribes and is
	// safe to call more than once.
	Subscribe(topic string, h Handler) (cancel func())
}

// MemoryBus fans out synchronously to subscribers in this process.
type MemoryBus struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[int]Handler)}
}

func (b *MemoryBus) Publish(_ context.Context, topic string, payload []byte) error {
	b.deliver(topic, payload)
	return nil
}

func (b *MemoryBus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
		})
	}
}

// deliver calls handlers outside the lock so a handler may subscribe or
// cancel without deadlocking.
func (b *MemoryBus) deliver(topic string, payload []byte) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// StoreBus writes each payload to the key-value store under the topic name,
// leaving the latest update on record, and then fans out in-process.
type StoreBus struct {
	kv    store.KV
	local *MemoryBus
}

func NewStoreBus(kv store.KV) *StoreBus {
	return &StoreBus{kv: kv, local: NewMemoryBus()}
}

func (b *StoreBus) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.kv.Set(ctx, topic, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w", topic, err)
	}
	b.local.deliver(topic, payload)
	return nil
}

func (b *StoreBus) Subscribe(topic string, h Handler) func() {
	return b.local.Subscribe(topic, h)
}
