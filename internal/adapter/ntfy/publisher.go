package ntfy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// Publisher pushes announced alerts to an ntfy topic using header-mode
// publishing (message body plus Title/Tags/Priority headers).
// It implements pipeline.Sink.
type Publisher struct {
	endpoint   string
	httpClient *http.Client
}

// NewPublisher creates a Publisher for baseURL/topic.
func NewPublisher(baseURL, topic string, timeout time.Duration) *Publisher {
	return &Publisher{
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + topic,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the sink in logs and metrics.
func (p *Publisher) Name() string { return "ntfy" }

var (
	priorities = map[domain.Category]string{
		domain.CategoryTornado:           "5",
		domain.CategoryThunderstorm:      "4",
		domain.CategoryTornadoWatch:      "3",
		domain.CategoryThunderstormWatch: "3",
	}
	tags = map[domain.Category]string{
		domain.CategoryTornado:           "rotating_light,tornado",
		domain.CategoryThunderstorm:      "warning,cloud_with_lightning",
		domain.CategoryTornadoWatch:      "eyes,tornado",
		domain.CategoryThunderstormWatch: "eyes,cloud_with_lightning",
	}
)

// Publish posts one alert.
func (p *Publisher) Publish(ctx context.Context, a domain.NotifiedAlert) error {
	body := a.Headline
	if a.Description != "" {
		body += "\n\n" + a.Description
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", a.Event)
	req.Header.Set("Tags", tags[a.Category])
	req.Header.Set("Priority", priorities[a.Category])

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ntfy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ntfy HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
