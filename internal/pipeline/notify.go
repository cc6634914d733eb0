package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
	"github.com/couchcryptid/nws-alert-monitor/internal/observability"
)

// Notifier announces newly seen alerts exactly once per identity.
type Notifier struct {
	state   *monitor.State
	sound   SoundPlayer
	log     AlertLogger
	sinks   []Sink
	display Display
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewNotifier creates a Notifier. sinks may be empty.
func NewNotifier(state *monitor.State, sound SoundPlayer, log AlertLogger, sinks []Sink, display Display, logger *slog.Logger, metrics *observability.Metrics) *Notifier {
	return &Notifier{
		state:   state,
		sound:   sound,
		log:     log,
		sinks:   sinks,
		display: display,
		logger:  logger,
		metrics: metrics,
	}
}

// Notify processes one category's freshly classified alerts in order and
// returns how many were announced. Side-effect failures are logged and
// counted; the identity is still marked seen.
func (n *Notifier) Notify(ctx context.Context, c domain.Category, alerts []domain.ClassifiedAlert) int {
	announced := 0
	for _, a := range alerts {
		if n.state.Seen(a.Identity()) {
			n.metrics.AlertsDuplicate.WithLabelValues(string(c)).Inc()
			continue
		}

		na := domain.NotifiedAlert{ClassifiedAlert: a, NotifiedAt: domain.Now()}
		n.announce(ctx, na)

		n.state.Record(na)
		n.display.Refresh(c)

		n.metrics.AlertsNotified.WithLabelValues(string(c)).Inc()
		n.logger.Info("alert notified", "category", c, "event", a.Event, "headline", a.Headline)
		announced++
	}
	return announced
}

// announce runs the sound, log file and sink side effects for one alert.
func (n *Notifier) announce(ctx context.Context, a domain.NotifiedAlert) {
	if !n.state.Muted() {
		if err := n.sound.Play(ctx, a.Category); err != nil {
			n.sinkFailed("sound", a, err)
		}
	}

	if path, err := n.log.WriteAlert(a); err != nil {
		n.sinkFailed("logfile", a, err)
	} else {
		n.logger.Debug("alert log written", "path", path)
	}

	for _, s := range n.sinks {
		if err := s.Publish(ctx, a); err != nil {
			n.sinkFailed(s.Name(), a, err)
		}
	}
}

func (n *Notifier) sinkFailed(sink string, a domain.NotifiedAlert, err error) {
	n.metrics.SinkErrors.WithLabelValues(sink).Inc()
	n.logger.Warn("alert side effect failed",
		"sink", sink,
		"category", a.Category,
		"event", a.Event,
		"error", err,
	)
}
