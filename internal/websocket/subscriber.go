// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package websocket

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrSubscriberClosed is returned by Send after Close.
	ErrSubscriberClosed = errors.New("subscriber closed")

	// ErrSendBufferFull is returned when a subscriber cannot keep up.
	ErrSendBufferFull = errors.New("subscriber send buffer full")
)

// subscriberIDCounter hands out process-unique, increasing subscriber ids.
// Broadcast order follows these ids.
var subscriberIDCounter atomic.Uint64

// NextSubscriberID returns a fresh subscriber id.
func NextSubscriberID() uint64 {
	return subscriberIDCounter.Add(1)
}

// Subscriber receives broadcast messages. Once subscribed it is owned by the
// Hub, which closes it on failed send, on Unsubscribe and on shutdown.
// Send must not block.
type Subscriber interface {
	ID() uint64
	Send(msg Message) error
	Close()
}

// ChannelSubscriber delivers messages on a buffered Go channel.
type ChannelSubscriber struct {
	id        uint64
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewChannelSubscriber creates a subscriber with the given buffer size.
func NewChannelSubscriber(buffer int) *ChannelSubscriber {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSubscriber{
		id:   NextSubscriberID(),
		ch:   make(chan Message, buffer),
		done: make(chan struct{}),
	}
}

// ID returns the subscriber id.
func (s *ChannelSubscriber) ID() uint64 {
	return s.id
}

// Messages returns the delivery channel. It is closed after Close.
func (s *ChannelSubscriber) Messages() <-chan Message {
	return s.ch
}

// Done is closed when the subscriber is closed.
func (s *ChannelSubscriber) Done() <-chan struct{} {
	return s.done
}

// Send queues msg without blocking.
func (s *ChannelSubscriber) Send(msg Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSubscriberClosed
	}
	select {
	case s.ch <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops delivery. Messages already queued stay readable.
func (s *ChannelSubscriber) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		close(s.done)
	})
}
