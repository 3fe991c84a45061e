// Package kafka implements the messaging substrate over Kafka-compatible
// brokers with franz-go. Every actor gets a single-partition inbox topic,
// which preserves per-sender FIFO delivery across processes.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
)

// InboxTopicPrefix names the per-actor inbox topics.
const InboxTopicPrefix = "clinic.inbox."

// InboxTopic returns the inbox topic for an actor identity.
func InboxTopic(actorID string) string {
	return InboxTopicPrefix + actorID
}

// Config holds transport configuration.
type Config struct {
	// Brokers is a list of broker addresses.
	Brokers []string
	// GroupPrefix prefixes each actor's consumer group.
	GroupPrefix string
	// LingerMS is the producer linger time.
	LingerMS int64
	// RetentionMS is the inbox topic retention.
	RetentionMS int64
}

// DefaultConfig returns defaults for a local broker.
func DefaultConfig() Config {
	return Config{
		Brokers:     []string{"localhost:9092"},
		GroupPrefix: "clinic",
		LingerMS:    5,
		RetentionMS: 86400000, // 1 day
	}
}

// Transport is a broker-backed messaging.Network. Attach starts a
// consumer that drains the actor's inbox topic into a local mailbox;
// Send produces to the receiver's inbox topic.
type Transport struct {
	cfg      Config
	logger   *zap.Logger
	tracer   trace.Tracer
	producer *kgo.Client
	admin    *kadm.Client

	mu        sync.Mutex
	consumers map[string]*inboxConsumer

	delivered int64
	dropped   int64
}

var _ messaging.Network = (*Transport)(nil)

type inboxConsumer struct {
	mbox   *messaging.Mailbox
	client *kgo.Client
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTransport connects to the brokers and prepares the shared producer.
func NewTransport(cfg Config, logger *zap.Logger) (*Transport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	producer, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerLinger(time.Duration(cfg.LingerMS)*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create producer client: %w", err)
	}
	adminBase, err := kgo.NewClient(kgo.SeedBrokers(cfg.Brokers...))
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("create admin client: %w", err)
	}
	return &Transport{
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer("clinic-kafka-transport"),
		producer:  producer,
		admin:     kadm.NewClient(adminBase),
		consumers: make(map[string]*inboxConsumer),
	}, nil
}

// Attach ensures the actor's inbox topic exists and starts draining it
// into a mailbox. Attaching an already-attached identity returns the
// existing mailbox.
func (t *Transport) Attach(id string) *messaging.Mailbox {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.consumers[id]; ok {
		return c.mbox
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := t.ensureInboxTopic(ctx, id); err != nil {
		t.logger.Warn("inbox topic setup failed, relying on auto-create",
			zap.String("actor", id), zap.Error(err))
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(t.cfg.Brokers...),
		kgo.ConsumerGroup(t.cfg.GroupPrefix+"-"+id),
		kgo.ConsumeTopics(InboxTopic(id)),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	)
	if err != nil {
		cancel()
		t.logger.Error("inbox consumer create failed", zap.String("actor", id), zap.Error(err))
		mbox := messaging.NewMailbox(id)
		mbox.Close()
		return mbox
	}

	c := &inboxConsumer{
		mbox:   messaging.NewMailbox(id),
		client: client,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.consumers[id] = c
	go t.consumeLoop(ctx, id, c)
	t.logger.Info("actor attached to broker", zap.String("actor", id))
	return c.mbox
}

// Detach stops the actor's inbox consumer and closes its mailbox.
func (t *Transport) Detach(id string) {
	t.mu.Lock()
	c, ok := t.consumers[id]
	delete(t.consumers, id)
	t.mu.Unlock()
	if !ok {
		return
	}
	c.cancel()
	<-c.done
	c.client.Close()
	c.mbox.Close()
	t.logger.Info("actor detached from broker", zap.String("actor", id))
}

// Send produces the message to the receiver's inbox topic, keyed by
// sender so one sender's messages stay ordered. Sending is fire-and-forget:
// the record is handed to the producer without waiting for the broker
// acknowledgment, and delivery failures are counted and logged in the
// produce callback instead of being returned.
func (t *Transport) Send(ctx context.Context, m *messaging.Message) error {
	ctx, span := t.tracer.Start(ctx, "kafka.send",
		trace.WithAttributes(
			attribute.String("message.tag", string(m.Tag)),
			attribute.String("message.receiver", m.Receiver),
		))
	defer span.End()

	value, err := json.Marshal(m)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("encode message %s: %w", m.ID, err)
	}

	record := &kgo.Record{
		Topic: InboxTopic(m.Receiver),
		Key:   []byte(m.Sender),
		Value: value,
	}
	injectTraceHeaders(ctx, record)

	// The caller's context only scopes the enqueue; the in-flight record
	// must survive the caller moving on.
	receiver, tag := m.Receiver, m.Tag
	t.producer.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err != nil {
			atomic.AddInt64(&t.dropped, 1)
			t.logger.Error("produce failed",
				zap.String("receiver", receiver),
				zap.String("tag", string(tag)),
				zap.Error(err))
			return
		}
		atomic.AddInt64(&t.delivered, 1)
	})
	return nil
}

// Close stops every consumer and the shared clients.
func (t *Transport) Close() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.consumers))
	for id := range t.consumers {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	for _, id := range ids {
		t.Detach(id)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := t.producer.Flush(flushCtx); err != nil {
		t.logger.Warn("flush on close failed", zap.Error(err))
	}
	t.producer.Close()
	t.admin.Close()
}

// Stats holds transport delivery counters.
type Stats struct {
	Delivered int64
	Dropped   int64
	Attached  int
}

// Stats returns current delivery counters.
func (t *Transport) Stats() Stats {
	t.mu.Lock()
	attached := len(t.consumers)
	t.mu.Unlock()
	return Stats{
		Delivered: atomic.LoadInt64(&t.delivered),
		Dropped:   atomic.LoadInt64(&t.dropped),
		Attached:  attached,
	}
}

func (t *Transport) consumeLoop(ctx context.Context, id string, c *inboxConsumer) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		for _, err := range fetches.Errors() {
			t.logger.Error("fetch error",
				zap.String("actor", id),
				zap.String("topic", err.Topic),
				zap.Error(err.Err))
		}
		fetches.EachRecord(func(record *kgo.Record) {
			var m messaging.Message
			if err := json.Unmarshal(record.Value, &m); err != nil {
				t.logger.Warn("undecodable record dropped",
					zap.String("topic", record.Topic),
					zap.Int64("offset", record.Offset),
					zap.Error(err))
				return
			}
			c.mbox.Deliver(&m)
		})
	}
}

// ensureInboxTopic creates the single-partition inbox topic. One
// partition keeps delivery order intact.
func (t *Transport) ensureInboxTopic(ctx context.Context, id string) error {
	retention := fmt.Sprintf("%d", t.cfg.RetentionMS)
	configs := map[string]*string{"retention.ms": &retention}
	resp, err := t.admin.CreateTopics(ctx, 1, 1, configs, InboxTopic(id))
	if err != nil {
		return err
	}
	for _, r := range resp {
		if r.Err != nil && r.Err.Error() != "TOPIC_ALREADY_EXISTS" {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// HealthCheck verifies broker connectivity.
func HealthCheck(ctx context.Context, brokers []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// injectTraceHeaders adds OpenTelemetry trace context to record headers.
func injectTraceHeaders(ctx context.Context, record *kgo.Record) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	sc := span.SpanContext()
	record.Headers = append(record.Headers,
		kgo.RecordHeader{Key: "traceparent", Value: []byte(fmt.Sprintf("00-%s-%s-%02x",
			sc.TraceID().String(),
			sc.SpanID().String(),
			sc.TraceFlags()))},
	)
}
