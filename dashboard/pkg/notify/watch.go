package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/store"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchBus publishes by writing the topic record into a FileKV directory and
// delivers records that other processes write there. It watches the directory
// with fsnotify and waits for writes to settle before reading.
//
// Writes made through this bus are not echoed back to its own subscribers,
// the same way a browser storage event only fires in the other tabs.
type WatchBus struct {
	mu       sync.Mutex
	kv       *store.FileKV
	local    *MemoryBus
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	pending  map[string]time.Time
	written  map[string]string
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
}

// NewWatchBus creates a bus over kv's directory. Call Start to begin
// delivering and Stop to release the watcher.
func NewWatchBus(kv *store.FileKV, debounce time.Duration, log *zap.Logger) (*WatchBus, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &WatchBus{
		kv:       kv,
		local:    NewMemoryBus(),
		watcher:  watcher,
		log:      logging.OrNop(log).Named("watch"),
		debounce: debounce,
		pending:  make(map[string]time.Time),
		written:  make(map[string]string),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (b *WatchBus) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running || b.closed {
		b.mu.Unlock()
		return nil
	}
	if err := b.watcher.Add(b.kv.Dir()); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("watch %s: %w", b.kv.Dir(), err)
	}
	b.running = true
	b.mu.Unlock()

	b.log.Debug("watching", zap.String("dir", b.kv.Dir()))
	go b.run(ctx)
	return nil
}

// Stop ends delivery and closes the watcher. Safe to call more than once.
func (b *WatchBus) Stop() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	wasRunning := b.running
	b.running = false
	b.closed = true
	b.mu.Unlock()

	if wasRunning {
		close(b.stopCh)
		<-b.doneCh
	}
	if err := b.watcher.Close(); err != nil {
		b.log.Warn("closing watcher", zap.Error(err))
	}
}

func (b *WatchBus) Publish(ctx context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	b.written[topic] = string(payload)
	b.mu.Unlock()

	if err := b.kv.Set(ctx, topic, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w", topic, err)
	}
	return nil
}

func (b *WatchBus) Subscribe(topic string, h Handler) func() {
	return b.local.Subscribe(topic, h)
}

func (b *WatchBus) run(ctx context.Context) {
	defer close(b.doneCh)

	tick := b.debounce / 2
	if tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	if tick < 5*time.Millisecond {
		tick = 5 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			b.handleEvent(event)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.log.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			b.flush(ctx)
		}
	}
}

func (b *WatchBus) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".json") {
		return
	}
	topic := strings.TrimSuffix(base, ".json")

	b.mu.Lock()
	b.pending[topic] = time.Now()
	b.mu.Unlock()
}

// flush delivers topics whose last event is older than the debounce window.
func (b *WatchBus) flush(ctx context.Context) {
	now := time.Now()
	var settled []string

	b.mu.Lock()
	for topic, at := range b.pending {
		if now.Sub(at) >= b.debounce {
			settled = append(settled, topic)
			delete(b.pending, topic)
		}
	}
	b.mu.Unlock()

	for _, topic := range settled {
		value, ok, err := b.kv.Get(ctx, topic)
		if err != nil {
			b.log.Warn("reading changed record", zap.String("topic", topic), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		b.mu.Lock()
		own := b.written[topic] == value
		b.mu.Unlock()
		if own {
			continue
		}

		b.local.deliver(topic, []byte(value))
	}
}
