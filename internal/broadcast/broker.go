// Package broadcast is the same-origin notification bus between sessions
// viewing one file. It is not a network transport: delivery is in-process
// and synchronous, there is no ordering guarantee across different files'
// channels and no persistence of undelivered messages - a session that is
// not subscribed when a message is sent never sees it. The authoritative
// state is always re-readable from storage.
package broadcast

import (
	"log/slog"
	"sync"
)

// Handler receives inbound messages. Handlers run on the publisher's
// goroutine and must not block; a handler may itself publish (the broker
// holds no locks during dispatch).
type Handler func(Message)

// Broker routes messages between the subscriptions of each file channel.
// Channel names derive deterministically from the file id, so every
// session viewing the same file shares exactly one logical channel.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	logger *slog.Logger
}

// NewBroker creates an empty broker
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		topics: make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe joins the file's channel with the given per-session instance
// tag. The handler is invoked for every message published by other
// subscriptions on the same channel.
func (b *Broker) Subscribe(fileID, tag string, handler Handler) *Subscription {
	sub := &Subscription{
		broker:  b,
		fileID:  fileID,
		tag:     tag,
		handler: handler,
	}

	b.mu.Lock()
	subs, ok := b.topics[fileID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[fileID] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	b.logger.Debug("channel subscribed", "file_id", fileID, "tag", tag)
	return sub
}

// publish fans a message out to every other subscription on the channel.
// The subscriber set is copied under the lock and dispatch happens outside
// it, so handlers can publish replies without deadlocking.
func (b *Broker) publish(from *Subscription, msg Message) {
	b.mu.RLock()
	subs := b.topics[from.fileID]
	targets := make([]*Subscription, 0, len(subs))
	for sub := range subs {
		if sub != from {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.handler(msg)
	}
}

func (b *Broker) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[sub.fileID]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, sub.fileID)
	}
}

// Subscription is one session's handle on a file channel.
type Subscription struct {
	broker  *Broker
	fileID  string
	tag     string
	handler Handler

	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

// Tag returns the per-session instance tag
func (s *Subscription) Tag() string { return s.tag }

// Publish sends a message to every other subscription on the channel.
// The sender tag is stamped onto the message. Publishing on a closed
// subscription is a no-op.
func (s *Subscription) Publish(msg Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	msg.Tag = s.tag
	s.broker.publish(s, msg)
}

// Close leaves the channel. Safe to call more than once; the channel is
// torn down when its last subscription closes.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.broker.unsubscribe(s)
		s.broker.logger.Debug("channel unsubscribed", "file_id", s.fileID, "tag", s.tag)
	})
}
