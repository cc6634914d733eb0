//go:build windows

package main

import (
	"context"
	"log/slog"

	"github.com/getlantern/systray"

	httpadapter "github.com/couchcryptid/nws-alert-monitor/internal/adapter/http"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
)

// startTray runs the system tray on the calling goroutine with a sound mute
// toggle and a Quit item. It returns once the tray exits.
func startTray(ctx context.Context, state *monitor.State, hub *httpadapter.Hub, onQuit func(), logger *slog.Logger) {
	systray.Run(func() {
		systray.SetTitle("NWS Alerts")
		systray.SetTooltip("NWS alert monitor running in the background")
		mMute := systray.AddMenuItem("Mute sounds", "Toggle alert sounds")
		if state.Muted() {
			mMute.Check()
		}
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Stop the monitor")

		go func() {
			for {
				select {
				case <-mMute.ClickedCh:
					if state.ToggleMute() {
						mMute.Check()
					} else {
						mMute.Uncheck()
					}
					hub.NotifyMute()
				case <-mQuit.ClickedCh:
					onQuit()
					systray.Quit()
					return
				case <-ctx.Done():
					systray.Quit()
					return
				}
			}
		}()
	}, func() {
		logger.Info("tray exited")
	})
}
