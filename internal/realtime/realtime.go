// Package realtime carries row change events between writers and subscribers
// over Redis pub/sub, one channel per table.
package realtime

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Error wrapping
	"time"          // Event timestamps

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Tables with a change feed
const (
	TablePosts         = "community_posts"
	TableChat          = "chat_messages"
	TableNotifications = "notifications"
)

// Tables lists every table with a change feed
var Tables = []string{TablePosts, TableChat, TableNotifications}

// EventType of a row change
type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// Event is a single row change
type Event struct {
	Table  string          `json:"table"`  // Table the row belongs to
	Type   EventType       `json:"type"`   // INSERT, UPDATE or DELETE
	Record json.RawMessage `json:"record"` // Row as JSON
	At     time.Time       `json:"at"`     // When the change was published
}

// Broker publishes and subscribes to change events
type Broker struct {
	rdb    *redis.Client
	prefix string
}

// NewBroker returns a broker using the "hub:changes:" channel prefix
func NewBroker(rdb *redis.Client) *Broker {
	return &Broker{rdb: rdb, prefix: "hub:changes:"}
}

func (b *Broker) channel(table string) string { return b.prefix + table }

// Publish sends a change event for record on table
func (b *Broker) Publish(ctx context.Context, table string, typ EventType, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", table, err)
	}
	payload, err := json.Marshal(Event{Table: table, Type: typ, Record: raw, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", table, err)
	}
	return b.rdb.Publish(ctx, b.channel(table), payload).Err()
}

// Subscription is a live change feed; Events is closed once the subscription ends
type Subscription struct {
	pubsub *redis.PubSub
	events chan Event
}

// Subscribe starts a feed for tables. It returns once Redis confirmed the subscription,
// so events published afterwards are delivered.
func (b *Broker) Subscribe(ctx context.Context, tables ...string) (*Subscription, error) {
	if len(tables) == 0 {
		tables = Tables
	}
	channels := make([]string, len(tables))
	for i, t := range tables {
		channels[i] = b.channel(t)
	}
	pubsub := b.rdb.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %v: %w", tables, err)
	}
	sub := &Subscription{pubsub: pubsub, events: make(chan Event)}
	go sub.pump(ctx)
	return sub, nil
}

func (s *Subscription) pump(ctx context.Context) {
	defer close(s.events)
	defer s.pubsub.Close()
	msgs := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logrus.WithFields(logrus.Fields{
					"channel": msg.Channel,
					"error":   err.Error(),
				}).Warn("Dropping malformed change event")
				continue
			}
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Events returns the feed
func (s *Subscription) Events() <-chan Event { return s.events }

// SubscribeToChanges calls handler for every change on tables until ctx is done
func (b *Broker) SubscribeToChanges(ctx context.Context, handler func(Event), tables ...string) error {
	sub, err := b.Subscribe(ctx, tables...)
	if err != nil {
		return err
	}
	for ev := range sub.Events() {
		handler(ev)
	}
	return ctx.Err()
}
