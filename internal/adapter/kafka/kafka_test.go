package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/observability"
)

func testAlert() domain.NotifiedAlert {
	return domain.NotifiedAlert{
		ClassifiedAlert: domain.ClassifiedAlert{
			Category:    domain.CategoryTornado,
			Event:       "Tornado Warning",
			Headline:    "H1",
			Description: "D1",
		},
		NotifiedAt: time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC),
	}
}

func TestSerializeToMessage(t *testing.T) {
	a := testAlert()

	msg, err := serializeToMessage(a)
	require.NoError(t, err)

	assert.Len(t, msg.Key, 64)
	assert.Equal(t, identityKey(a.Identity()), msg.Key)

	var decoded domain.NotifiedAlert
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, a.ClassifiedAlert, decoded.ClassifiedAlert)
	assert.True(t, a.NotifiedAt.Equal(decoded.NotifiedAt))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("tornado"), msg.Headers[0].Value)
	assert.Equal(t, "notified_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-04-26T15:10:00Z"), msg.Headers[1].Value)
}

func TestIdentityKey(t *testing.T) {
	same := identityKey(domain.Identity{Headline: "H1", Description: "D1"})
	assert.Equal(t, same, identityKey(domain.Identity{Headline: "H1", Description: "D1"}))

	assert.NotEqual(t, same, identityKey(domain.Identity{Headline: "H1", Description: "D2"}))
	// The separator keeps field boundaries distinct.
	assert.NotEqual(t,
		identityKey(domain.Identity{Headline: "ab", Description: "c"}),
		identityKey(domain.Identity{Headline: "a", Description: "bc"}))
}

// fakeWriter records batches; when hang is set every write blocks until its
// context expires, like a broker that accepts connections and never answers.
type fakeWriter struct {
	mu      sync.Mutex
	batches [][]kafkago.Message
	hang    bool
	closed  bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, msgs)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriter_PublishDelivers(t *testing.T) {
	fw := &fakeWriter{}
	w := newWriter(fw, "alerts", time.Second, observability.NewMetricsForTesting(), discardLogger())

	for range 3 {
		require.NoError(t, w.Publish(context.Background(), testAlert()))
	}
	require.NoError(t, w.Close())

	assert.Equal(t, 3, fw.count())
	assert.True(t, fw.closed)
}

func TestWriter_HungBrokerDoesNotBlockPublish(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	w := newWriter(&fakeWriter{hang: true}, "alerts", 50*time.Millisecond, metrics, discardLogger())

	start := time.Now()
	for range 10 {
		require.NoError(t, w.Publish(context.Background(), testAlert()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.NoError(t, w.Close())
	assert.InDelta(t, 10, testutil.ToFloat64(metrics.SinkErrors.WithLabelValues("kafka")), 0)
}

func TestWriter_QueueFull(t *testing.T) {
	w := newWriter(&fakeWriter{hang: true}, "alerts", 100*time.Millisecond, observability.NewMetricsForTesting(), discardLogger())
	t.Cleanup(func() { _ = w.Close() })

	var err error
	for i := 0; i < queueSize+maxBatch+2 && err == nil; i++ {
		err = w.Publish(context.Background(), testAlert())
	}
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestWriter_UnresponsiveBrokerPublishIsBounded(t *testing.T) {
	// Accepts connections and never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	kw := &kafkago.Writer{
		Addr:         kafkago.TCP(ln.Addr().String()),
		Topic:        "alerts",
		BatchTimeout: 10 * time.Millisecond,
	}
	metrics := observability.NewMetricsForTesting()
	w := newWriter(kw, "alerts", 200*time.Millisecond, metrics, discardLogger())

	start := time.Now()
	for range 5 {
		require.NoError(t, w.Publish(context.Background(), testAlert()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.NoError(t, w.Close())
	assert.Positive(t, testutil.ToFloat64(metrics.SinkErrors.WithLabelValues("kafka")))
}
