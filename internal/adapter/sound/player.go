package sound

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// Player plays a category's sound file through an external player command.
// Playback is fire-and-forget: Play returns once the player has started.
// It implements pipeline.SoundPlayer.
type Player struct {
	files   map[domain.Category]string
	command []string
	escape  func(string) string
	logger  *slog.Logger

	// start launches the player; swapped in tests.
	start func(name string, args ...string) (wait func() error, err error)
}

// NewPlayer creates a Player. command overrides the platform default player
// (for example "paplay" or "mpv --no-video {file}"); the sound file path
// replaces {file}, or is appended when absent. Categories without a file play
// nothing.
func NewPlayer(files map[domain.Category]string, command string, logger *slog.Logger) *Player {
	return newPlayer(files, command, runtime.GOOS, logger)
}

func newPlayer(files map[domain.Category]string, command, goos string, logger *slog.Logger) *Player {
	p := &Player{
		files:   files,
		command: strings.Fields(command),
		escape:  verbatim,
		logger:  logger,
		start:   startProcess,
	}
	if len(p.command) == 0 {
		p.command, p.escape = defaultCommand(goos)
	}
	return p
}

// Play starts playback of the sound mapped to c.
func (p *Player) Play(_ context.Context, c domain.Category) error {
	path := p.files[c]
	if path == "" {
		return nil
	}

	args := p.args(path)
	wait, err := p.start(args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("start sound player %s: %w", args[0], err)
	}

	go func() {
		if err := wait(); err != nil {
			p.logger.Warn("sound playback failed", "category", c, "file", path, "error", err)
		}
	}()
	return nil
}

// args substitutes {file} in the command, or appends the path when the
// command has no placeholder.
func (p *Player) args(path string) []string {
	out := make([]string, 0, len(p.command)+1)
	substituted := false
	for _, a := range p.command {
		if strings.Contains(a, "{file}") {
			a = strings.ReplaceAll(a, "{file}", p.escape(path))
			substituted = true
		}
		out = append(out, a)
	}
	if !substituted {
		out = append(out, path)
	}
	return out
}

// defaultCommand returns the platform player and the escaping applied to the
// path before it replaces {file}.
func defaultCommand(goos string) ([]string, func(string) string) {
	switch goos {
	case "windows":
		return []string{"powershell", "-NoProfile", "-NonInteractive", "-Command",
			"(New-Object Media.SoundPlayer '{file}').PlaySync()"}, powershellQuote
	case "darwin":
		return []string{"afplay"}, verbatim
	default:
		return []string{"aplay", "-q"}, verbatim
	}
}

func verbatim(s string) string { return s }

// powershellQuote escapes s for use inside a single-quoted PowerShell string.
func powershellQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func startProcess(name string, args ...string) (func() error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}
