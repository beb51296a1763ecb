package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) (*Notifier, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewNotifier(rdb), rdb
}

func TestHelpOfferedPublishesToRecipientChannel(t *testing.T) {
	n, rdb := newTestNotifier(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, UserChannel(7))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, n.HelpOffered(ctx, 7, 12, 3, "Need a ride to the airport", "Flying home Friday afternoon."))

	select {
	case msg := <-sub.Channel():
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, EventHelpOffered, ev.Kind)
		assert.Equal(t, uint(7), ev.RecipientID)
		assert.Equal(t, uint(12), ev.ActorID)
		assert.Equal(t, uint(3), ev.RequestID)
		assert.Equal(t, "Need a ride to the airport", ev.Title)
		assert.Equal(t, "Flying home Friday afternoon.", ev.Description)
		assert.Contains(t, ev.Headline, "Need a ride to the airport")
	case <-time.After(2 * time.Second):
		t.Fatal("no message received on recipient channel")
	}
}

func TestHelpWithdrawnPublishesEvent(t *testing.T) {
	n, rdb := newTestNotifier(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, UserChannel(4))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, n.HelpWithdrawn(ctx, 4, 9, 11, "Study group for finals", "Calc II, twice a week."))

	select {
	case msg := <-sub.Channel():
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, EventHelpWithdrawn, ev.Kind)
		assert.Equal(t, uint(9), ev.ActorID)
		assert.Equal(t, "Calc II, twice a week.", ev.Description)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received on recipient channel")
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	n := NewNotifier(nil)
	ctx := context.Background()
	assert.NoError(t, n.HelpOffered(ctx, 1, 2, 3, "anything", ""))
	assert.NoError(t, n.HelpWithdrawn(ctx, 1, 2, 3, "anything", ""))
	assert.NoError(t, n.PublishBroadcast(ctx, "hello"))
	assert.NoError(t, n.StartPatternSubscriber(ctx, nil))
}

func TestPatternSubscriberReceivesUserEvents(t *testing.T) {
	n, _ := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		received <- channel
	}))

	// Give the pattern subscription a moment to register.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, n.HelpOffered(ctx, 21, 8, 5, "Borrow a bike pump", "Back tire is flat."))

	select {
	case channel := <-received:
		assert.Equal(t, UserChannel(21), channel)
	case <-time.After(2 * time.Second):
		t.Fatal("pattern subscriber did not receive event")
	}
}
