// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (e.g. SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub maintains the set of active subscribers and broadcasts to them.
type Hub struct {
	subscribers map[uint64]Subscriber
	mu          sync.RWMutex
	seq         atomic.Uint64
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]Subscriber),
	}
}

// Subscribe registers s. Subscribing the same id twice is a no-op.
func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	_, exists := h.subscribers[s.ID()]
	if !exists {
		h.subscribers[s.ID()] = s
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	if exists {
		return
	}
	metrics.WSConnections.Set(float64(total))
	logging.Debug().
		Str("component", "websocket-hub").
		Uint64("subscriber_id", s.ID()).
		Int("total_subscribers", total).
		Msg("subscriber added")
}

// Unsubscribe removes and closes s. It is safe to call more than once.
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	current, ok := h.subscribers[s.ID()]
	if ok {
		delete(h.subscribers, s.ID())
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	if !ok {
		return
	}
	current.Close()
	metrics.WSConnections.Set(float64(total))
	logging.Debug().
		Str("component", "websocket-hub").
		Uint64("subscriber_id", s.ID()).
		Int("total_subscribers", total).
		Msg("subscriber removed")
}

// snapshot returns the current subscribers sorted by id.
func (h *Hub) snapshot() []Subscriber {
	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].ID() < subs[j].ID()
	})
	return subs
}

// Broadcast sends msg to every subscriber in id order and returns the
// number of successful deliveries. The hub lock is not held during sends.
// A subscriber whose send fails is unsubscribed and closed.
func (h *Hub) Broadcast(msg Message) int {
	delivered := 0
	for _, s := range h.snapshot() {
		if err := s.Send(msg); err != nil {
			metrics.WSMessagesDropped.Inc()
			if errors.Is(err, ErrSendBufferFull) {
				metrics.WSErrors.WithLabelValues("buffer_full").Inc()
			} else {
				metrics.WSErrors.WithLabelValues("send_failed").Inc()
			}
			logging.Warn().
				Str("component", "websocket-hub").
				Uint64("subscriber_id", s.ID()).
				Str("message_type", msg.Type).
				Err(err).
				Msg("dropping subscriber after failed send")
			h.Unsubscribe(s)
			continue
		}
		delivered++
	}
	if delivered > 0 {
		metrics.WSMessagesSent.Add(float64(delivered))
	}
	return delivered
}

// Publish broadcasts a persisted attack as a new_attack message. Sequence
// numbers follow call order, so callers that serialize Publish get a feed
// ordered the same way.
func (h *Hub) Publish(ctx context.Context, event *models.AttackEvent) error {
	if event == nil {
		return errors.New("attack event is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h.Broadcast(Message{
		Type: MessageTypeNewAttack,
		Seq:  h.seq.Add(1),
		Data: event,
	})
	return nil
}

// LastSeq returns the sequence number of the last published attack.
func (h *Hub) LastSeq() uint64 {
	return h.seq.Load()
}

// SubscriberCount returns the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// RunWithContext blocks until ctx is done, then closes every subscriber and
// returns ctx.Err(). It is designed for use with suture supervision; a
// restarted hub keeps accepting subscribers.
func (h *Hub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	h.logGracefulShutdown(ctx)
	return ctx.Err()
}

// logGracefulShutdown closes all subscribers and logs the shutdown.
// ctx.Err() is not logged as an error since cancellation is expected here.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	closed := h.closeAll()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAll removes and closes every subscriber in id order.
func (h *Hub) closeAll() int {
	h.mu.Lock()
	subs := make([]Subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		subs = append(subs, s)
	}
	h.subscribers = make(map[uint64]Subscriber)
	h.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].ID() < subs[j].ID()
	})
	for _, s := range subs {
		s.Close()
	}
	metrics.WSConnections.Set(0)
	return len(subs)
}
