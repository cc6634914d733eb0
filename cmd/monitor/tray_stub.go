//go:build !windows

package main

import (
	"context"
	"log/slog"

	httpadapter "github.com/couchcryptid/nws-alert-monitor/internal/adapter/http"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
)

// startTray is a no-op off Windows; the dashboard carries the mute toggle.
func startTray(_ context.Context, _ *monitor.State, _ *httpadapter.Hub, _ func(), logger *slog.Logger) {
	logger.Debug("system tray not supported on this platform")
}
