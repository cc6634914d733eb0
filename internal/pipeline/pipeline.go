package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
	"github.com/couchcryptid/nws-alert-monitor/internal/observability"
)

// Fetcher reads the current alert records. Failures yield an empty result.
type Fetcher interface {
	Fetch(ctx context.Context) []domain.RawAlertRecord
}

// SoundPlayer plays the sound mapped to a category.
type SoundPlayer interface {
	Play(ctx context.Context, c domain.Category) error
}

// AlertLogger persists one announced alert and returns where it was written.
type AlertLogger interface {
	WriteAlert(a domain.NotifiedAlert) (string, error)
}

// Sink is an optional outbound channel for announced alerts (Kafka, ntfy).
type Sink interface {
	Name() string
	Publish(ctx context.Context, a domain.NotifiedAlert) error
}

// Display is the presentation surface driven by the poll loop.
type Display interface {
	Refresh(c domain.Category)
	SetTheme(color string)
}

// Poller runs the fetch-classify-notify loop.
type Poller struct {
	fetcher  Fetcher
	rules    domain.Rules
	notifier *Notifier
	state    *monitor.State
	display  Display
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewPoller creates a Poller that sleeps interval between cycles on clock.
func NewPoller(f Fetcher, rules domain.Rules, n *Notifier, state *monitor.State, d Display, clock clockwork.Clock, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		fetcher:  f,
		rules:    rules,
		notifier: n,
		state:    state,
		display:  d,
		clock:    clock,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run polls immediately and then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	for {
		p.Poll(ctx)

		if !p.sleep(ctx) {
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Poll runs a single cycle and returns the number of alerts announced.
func (p *Poller) Poll(ctx context.Context) int {
	start := p.clock.Now()
	p.metrics.Polls.Inc()

	records := p.fetcher.Fetch(ctx)
	classified := domain.Classify(records, p.rules)

	announced := 0
	for _, c := range domain.Categories {
		alerts := classified[c]
		p.metrics.AlertsClassified.WithLabelValues(string(c)).Add(float64(len(alerts)))
		announced += p.notifier.Notify(ctx, c, alerts)
		p.metrics.HistorySize.WithLabelValues(string(c)).Set(float64(p.state.Size(c)))
	}

	p.display.SetTheme(domain.ThemeColor(p.state.AnyActive()))
	p.metrics.SeenIdentities.Set(float64(p.state.SeenCount()))
	if p.state.Muted() {
		p.metrics.Muted.Set(1)
	} else {
		p.metrics.Muted.Set(0)
	}
	p.metrics.PollDuration.Observe(p.clock.Since(start).Seconds())

	p.logger.Debug("poll complete",
		"fetched", len(records),
		"matched", classified.Total(),
		"announced", announced,
	)
	return announced
}

func (p *Poller) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(p.interval):
		return true
	}
}
