package kafka

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/nws-alert-monitor/internal/config"
	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/observability"
)

const (
	queueSize    = 256
	maxBatch     = 64
	flushTimeout = 10 * time.Second
)

// ErrQueueFull is returned by Publish when the broker is not keeping up.
var ErrQueueFull = errors.New("kafka publish queue full")

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes announced alerts to a Kafka topic. Publish only enqueues;
// a background goroutine writes batches so a slow or unreachable broker
// never blocks the caller. Delivery failures are logged and counted.
// It implements pipeline.Sink.
type Writer struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger

	queue     chan kafkago.Message
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewWriter creates a Kafka producer for the configured alert topic and
// starts its delivery goroutine. Call Close to flush and stop it.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newWriter(w, cfg.KafkaTopic, flushTimeout, metrics, logger)
}

func newWriter(mw messageWriter, topic string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &Writer{
		writer:  mw,
		topic:   topic,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
		queue:   make(chan kafkago.Message, queueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Publish queues one alert for delivery. Messages are keyed by alert identity
// so re-announcements of the same alert land on the same partition.
func (w *Writer) Publish(_ context.Context, a domain.NotifiedAlert) error {
	msg, err := serializeToMessage(a)
	if err != nil {
		return err
	}
	select {
	case w.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close flushes queued alerts, waiting at most one flush timeout per batch,
// and closes the producer.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		close(w.stop)
		<-w.done
	})
	return w.writer.Close()
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case msg := <-w.queue:
			w.flush(w.collect(msg))
		case <-w.stop:
			for {
				select {
				case msg := <-w.queue:
					w.flush(w.collect(msg))
				default:
					return
				}
			}
		}
	}
}

// collect gathers whatever else is already queued behind first.
func (w *Writer) collect(first kafkago.Message) []kafkago.Message {
	batch := []kafkago.Message{first}
	for len(batch) < maxBatch {
		select {
		case msg := <-w.queue:
			batch = append(batch, msg)
		default:
			return batch
		}
	}
	return batch
}

func (w *Writer) flush(batch []kafkago.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.writer.WriteMessages(ctx, batch...); err != nil {
		w.metrics.SinkErrors.WithLabelValues("kafka").Add(float64(len(batch)))
		w.logger.Warn("kafka publish failed", "topic", w.topic, "batch_size", len(batch), "error", err)
		return
	}
	w.logger.Debug("alerts published", "topic", w.topic, "batch_size", len(batch))
}

// identityKey hashes headline and description into a stable message key.
func identityKey(id domain.Identity) []byte {
	h := sha256.New()
	h.Write([]byte(id.Headline))
	h.Write([]byte{0})
	h.Write([]byte(id.Description))
	return []byte(hex.EncodeToString(h.Sum(nil)))
}

func serializeToMessage(a domain.NotifiedAlert) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   identityKey(a.Identity()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(a.Category)},
			{Key: "notified_at", Value: []byte(a.NotifiedAt.Format(time.RFC3339))},
		},
	}, nil
}
