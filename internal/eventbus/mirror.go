// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
	ws "github.com/RayaneAll/honeypot-attack-map/internal/websocket"
)

// Feed is the live feed the mirror subscribes to. Satisfied by *websocket.Hub.
type Feed interface {
	Subscribe(s ws.Subscriber)
	Unsubscribe(s ws.Subscriber)
}

// AttackPublisher delivers one attack to the message bus.
type AttackPublisher interface {
	PublishAttack(ctx context.Context, event *models.AttackEvent) error
}

// Mirror forwards every new_attack broadcast of a Feed to an AttackPublisher.
//
// The mirror holds one hub subscription per run. If it falls behind by more
// than its buffer the hub drops it; Done is then closed and the owner is
// expected to Shutdown and Start again.
type Mirror struct {
	feed      Feed
	publisher AttackPublisher
	buffer    int

	mu   sync.Mutex
	sub  *ws.ChannelSubscriber
	done chan struct{}

	running   atomic.Bool
	forwarded atomic.Uint64
	failed    atomic.Uint64
}

// NewMirror creates a stopped mirror.
func NewMirror(feed Feed, publisher AttackPublisher, buffer int) (*Mirror, error) {
	if feed == nil {
		return nil, errors.New("feed cannot be nil")
	}
	if publisher == nil {
		return nil, ErrNilPublisher
	}
	if buffer < 1 {
		buffer = DefaultConfig().Buffer
	}
	return &Mirror{
		feed:      feed,
		publisher: publisher,
		buffer:    buffer,
	}, nil
}

// Start subscribes to the feed and begins forwarding. Calling Start on a
// running mirror is a no-op.
//
// Forwarding outlives ctx: queued attacks are still published during
// Shutdown, which is what stops the mirror.
func (m *Mirror) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running.Load() {
		return nil
	}

	sub := ws.NewChannelSubscriber(m.buffer)
	done := make(chan struct{})
	m.sub, m.done = sub, done
	m.running.Store(true)

	m.feed.Subscribe(sub)
	go m.forward(context.WithoutCancel(ctx), sub, done)

	logging.Info().
		Str("component", "eventbus").
		Uint64("subscriber_id", sub.ID()).
		Int("buffer", m.buffer).
		Msg("attack mirror started")
	return nil
}

func (m *Mirror) forward(ctx context.Context, sub *ws.ChannelSubscriber, done chan struct{}) {
	defer close(done)
	defer m.running.Store(false)

	for msg := range sub.Messages() {
		if msg.Type != ws.MessageTypeNewAttack {
			continue
		}
		event, ok := msg.Data.(*models.AttackEvent)
		if !ok || event == nil {
			continue
		}

		if err := m.publisher.PublishAttack(ctx, event); err != nil {
			m.failed.Add(1)
			logging.Warn().
				Str("component", "eventbus").
				Int64("attack_id", event.ID).
				Uint64("seq", msg.Seq).
				Err(err).
				Msg("failed to mirror attack")
			continue
		}
		m.forwarded.Add(1)
	}
}

// Shutdown unsubscribes from the feed and waits until queued attacks have
// been published or ctx expires.
func (m *Mirror) Shutdown(ctx context.Context) {
	m.mu.Lock()
	sub, done := m.sub, m.done
	m.sub = nil
	m.mu.Unlock()

	if sub == nil {
		return
	}

	m.feed.Unsubscribe(sub)
	sub.Close()

	select {
	case <-done:
		logging.Info().
			Str("component", "eventbus").
			Uint64("forwarded", m.forwarded.Load()).
			Uint64("failed", m.failed.Load()).
			Msg("attack mirror stopped")
	case <-ctx.Done():
		logging.Warn().
			Str("component", "eventbus").
			Err(ctx.Err()).
			Msg("attack mirror shutdown timed out with attacks still queued")
	}
}

// IsRunning reports whether the mirror holds a live subscription.
func (m *Mirror) IsRunning() bool {
	return m.running.Load()
}

// Done is closed when the current run ends, either through Shutdown or
// because the feed dropped the subscription. It is nil before Start.
func (m *Mirror) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Forwarded returns the number of attacks published.
func (m *Mirror) Forwarded() uint64 {
	return m.forwarded.Load()
}

// Failed returns the number of attacks whose publish failed.
func (m *Mirror) Failed() uint64 {
	return m.failed.Load()
}
