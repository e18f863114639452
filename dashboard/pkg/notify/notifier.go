package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"go.uber.org/zap"
)

// Topic is the record name every layout update is published under.
const Topic = "dashboard_update_trigger"

// Update is the broadcast payload. Timestamp is Unix milliseconds.
type Update struct {
	Profile   layout.Profile `json:"profile"`
	Timestamp int64          `json:"timestamp"`
	Layout    layout.Layout  `json:"layout"`
}

// Notifier encodes layout changes onto a Bus.
type Notifier struct {
	bus Bus
	log *zap.Logger
	now func() time.Time
}

func NewNotifier(bus Bus, log *zap.Logger) *Notifier {
	return &Notifier{bus: bus, log: logging.OrNop(log).Named("notify"), now: time.Now}
}

// Broadcast publishes the new layout for a profile.
func (n *Notifier) Broadcast(ctx context.Context, p layout.Profile, l layout.Layout) error {
	l.Normalize()
	payload, err := json.Marshal(Update{
		Profile:   p,
		Timestamp: n.now().UnixMilli(),
		Layout:    l,
	})
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	if err := n.bus.Publish(ctx, Topic, payload); err != nil {
		return fmt.Errorf("broadcast %s layout: %w", p, err)
	}
	n.log.Debug("broadcast", zap.String("profile", string(p)), zap.Int("cards", len(l.Cards)))
	return nil
}

// Listen calls fn for every update addressed to profile p. Payloads that do
// not decode are logged and dropped.
func (n *Notifier) Listen(p layout.Profile, fn func(Update)) (cancel func()) {
	return n.bus.Subscribe(Topic, func(payload []byte) {
		var u Update
		if err := json.Unmarshal(payload, &u); err != nil {
			n.log.Warn("dropping undecodable update", zap.Error(err))
			return
		}
		if u.Profile != p {
			return
		}
		u.Layout.Normalize()
		fn(u)
	})
}
