package ntfy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tornadoAlert() domain.NotifiedAlert {
	return domain.NotifiedAlert{ClassifiedAlert: domain.ClassifiedAlert{
		Category:    domain.CategoryTornado,
		Event:       "Tornado Warning",
		Headline:    "Tornado Warning issued for San Saba County",
		Description: "A confirmed tornado was located near Chappel.",
	}}
}

func TestPublisher_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storm-desk", r.URL.Path)
		assert.Equal(t, "Tornado Warning", r.Header.Get("Title"))
		assert.Equal(t, "5", r.Header.Get("Priority"))
		assert.Equal(t, "rotating_light,tornado", r.Header.Get("Tags"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "Tornado Warning issued for San Saba County\n\nA confirmed tornado was located near Chappel.", string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL+"/", "storm-desk", 5*time.Second)
	require.NoError(t, p.Publish(context.Background(), tornadoAlert()))
	assert.Equal(t, "ntfy", p.Name())
}

func TestPublisher_WatchPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.Header.Get("Priority"))
	}))
	defer srv.Close()

	a := tornadoAlert()
	a.Category = domain.CategoryThunderstormWatch
	require.NoError(t, NewPublisher(srv.URL, "t", 5*time.Second).Publish(context.Background(), a))
}

func TestPublisher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"limit reached"}`))
	}))
	defer srv.Close()

	err := NewPublisher(srv.URL, "t", 5*time.Second).Publish(context.Background(), tornadoAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "limit reached")
}
