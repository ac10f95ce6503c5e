package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// topicPrefix namespaces hub events on the shared broker.
const topicPrefix = "hub."

// BrokerTopics returns the prefixed broker-side names of the given hub
// topics. Consumer clients subscribe to these.
func BrokerTopics(topics ...string) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = topicPrefix + t
	}
	return out
}

// KafkaBridge mirrors local events to Kafka and replays inbound Kafka
// events onto the local bus. Envelope IDs survive the round trip, so the
// consumer dedupe layer absorbs the duplicates a mirror inevitably creates.
type KafkaBridge struct {
	client *kgo.Client
	logger *slog.Logger
}

// KafkaBridgeOption configures the bridge.
type KafkaBridgeOption func(*KafkaBridge)

// WithBridgeLogger sets the structured logger.
func WithBridgeLogger(l *slog.Logger) KafkaBridgeOption {
	return func(b *KafkaBridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewKafkaBridge wraps an existing franz-go client.
func NewKafkaBridge(client *kgo.Client, opts ...KafkaBridgeOption) *KafkaBridge {
	b := &KafkaBridge{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EnsureTopics creates the hub topics if the broker does not have them yet.
// Existing topics are left untouched.
func (b *KafkaBridge) EnsureTopics(ctx context.Context, topics ...string) error {
	admin := kadm.NewClient(b.client)
	resp, err := admin.CreateTopics(ctx, 3, 1, nil, BrokerTopics(topics...)...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Tap returns the bus tap that mirrors every envelope outbound. Produce is
// asynchronous and best-effort: a broker outage must not stall publishers.
func (b *KafkaBridge) Tap() Tap {
	return func(ctx context.Context, evt Envelope) {
		value, err := json.Marshal(evt)
		if err != nil {
			b.logger.ErrorContext(ctx, "encode event for kafka", "topic", evt.Topic, "error", err)
			return
		}
		record := &kgo.Record{
			Topic: topicPrefix + evt.Topic,
			Key:   []byte(evt.ID),
			Value: value,
		}
		b.client.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
			if err != nil {
				b.logger.WarnContext(ctx, "mirror event to kafka failed",
					"topic", evt.Topic, "event_id", evt.ID, "error", err)
			}
		})
	}
}

// Run consumes the subscribed Kafka topics and replays each envelope onto
// the bus until the context is cancelled. The client must have been built
// with consumer options for the prefixed hub topics.
func (b *KafkaBridge) Run(ctx context.Context, bus *Bus) error {
	for {
		fetches := b.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			b.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			var evt Envelope
			if err := json.Unmarshal(record.Value, &evt); err != nil {
				b.logger.WarnContext(ctx, "discard malformed kafka event",
					"topic", record.Topic, "error", err)
				return
			}
			if err := bus.PublishEnvelope(ctx, evt); err != nil {
				b.logger.WarnContext(ctx, "replay kafka event failed",
					"topic", evt.Topic, "event_id", evt.ID, "error", err)
			}
		})
	}
}

// Close flushes pending produce requests and releases the client.
func (b *KafkaBridge) Close() {
	_ = b.client.Flush(context.Background())
	b.client.Close()
}
