// Package notifications publishes board events into Redis channels for
// downstream delivery (mobile push, websocket fan-out, digests).
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event kinds carried on user channels.
const (
	EventHelpOffered   = "help_offered"
	EventHelpWithdrawn = "help_withdrawn"
)

// Event is the payload published when someone offers or withdraws help on a
// request. RecipientID is the request creator; ActorID is the helper. Title
// and Description are the request's own fields; Headline is display copy.
type Event struct {
	Kind        string    `json:"kind"`
	RecipientID uint      `json:"recipientId"`
	ActorID     uint      `json:"actorId"`
	RequestID   uint      `json:"requestId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Headline    string    `json:"headline"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Notifier publishes board events into per-user Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier backed by the provided Redis client. A nil
// client is allowed; every publish becomes a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// HelpOffered notifies a request creator that actorID has offered to help.
func (n *Notifier) HelpOffered(ctx context.Context, recipientID, actorID, requestID uint, title, description string) error {
	return n.publishEvent(ctx, Event{
		Kind:        EventHelpOffered,
		RecipientID: recipientID,
		ActorID:     actorID,
		RequestID:   requestID,
		Title:       title,
		Description: description,
		Headline:    fmt.Sprintf("Someone offered to help with %q!", title),
		OccurredAt:  time.Now().UTC(),
	})
}

// HelpWithdrawn notifies a request creator that actorID has withdrawn their offer.
func (n *Notifier) HelpWithdrawn(ctx context.Context, recipientID, actorID, requestID uint, title, description string) error {
	return n.publishEvent(ctx, Event{
		Kind:        EventHelpWithdrawn,
		RecipientID: recipientID,
		ActorID:     actorID,
		RequestID:   requestID,
		Title:       title,
		Description: description,
		Headline:    fmt.Sprintf("A help offer on %q was withdrawn", title),
		OccurredAt:  time.Now().UTC(),
	})
}

func (n *Notifier) publishEvent(ctx context.Context, ev Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, UserChannel(ev.RecipientID), payload).Err()
}

// PublishBroadcast sends a payload to every connected listener.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, "notifications:broadcast", payload).Err()
}

// StartPatternSubscriber subscribes to `notifications:user:*` and the
// broadcast channel, invoking onMessage for each incoming message. Delivery
// transports (push, websocket gateways) attach here.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*", "notifications:broadcast")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
