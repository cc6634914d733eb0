package sound

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedStart struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *recordedStart) start(name string, args ...string) (func() error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.err != nil {
		return nil, r.err
	}
	return func() error { return nil }, nil
}

func testPlayer(command string, rec *recordedStart) *Player {
	p := NewPlayer(map[domain.Category]string{
		domain.CategoryTornado:      "/sounds/X3.wav",
		domain.CategoryThunderstorm: "/sounds/X2.wav",
	}, command, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.start = rec.start
	return p
}

func TestPlayer_PlaysCategoryFile(t *testing.T) {
	rec := &recordedStart{}
	p := testPlayer("paplay", rec)

	require.NoError(t, p.Play(context.Background(), domain.CategoryThunderstorm))
	assert.Equal(t, [][]string{{"paplay", "/sounds/X2.wav"}}, rec.calls)
}

func TestPlayer_PlaceholderCommand(t *testing.T) {
	rec := &recordedStart{}
	p := testPlayer("mpv --really-quiet --volume=80 {file}", rec)

	require.NoError(t, p.Play(context.Background(), domain.CategoryTornado))
	assert.Equal(t, [][]string{{"mpv", "--really-quiet", "--volume=80", "/sounds/X3.wav"}}, rec.calls)
}

func TestPlayer_NoFileIsSilent(t *testing.T) {
	rec := &recordedStart{}
	p := testPlayer("paplay", rec)

	require.NoError(t, p.Play(context.Background(), domain.CategoryTornadoWatch))
	assert.Empty(t, rec.calls)
}

func TestPlayer_StartError(t *testing.T) {
	rec := &recordedStart{err: errors.New("executable file not found")}
	p := testPlayer("paplay", rec)

	err := p.Play(context.Background(), domain.CategoryTornado)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paplay")
}

func TestDefaultCommand(t *testing.T) {
	mac, _ := defaultCommand("darwin")
	assert.Equal(t, []string{"afplay"}, mac)
	linux, _ := defaultCommand("linux")
	assert.Equal(t, []string{"aplay", "-q"}, linux)

	win, _ := defaultCommand("windows")
	assert.Equal(t, "powershell", win[0])
	assert.Contains(t, win[len(win)-1], "{file}")
}

func TestPlayer_WindowsDefaultEscapesQuotes(t *testing.T) {
	rec := &recordedStart{}
	p := newPlayer(map[domain.Category]string{
		domain.CategoryTornado: `C:\Users\O'Brien\X3.wav`,
	}, "", "windows", slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.start = rec.start

	require.NoError(t, p.Play(context.Background(), domain.CategoryTornado))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, `(New-Object Media.SoundPlayer 'C:\Users\O''Brien\X3.wav').PlaySync()`, rec.calls[0][len(rec.calls[0])-1])
}

func TestPlayer_CustomCommandPathVerbatim(t *testing.T) {
	rec := &recordedStart{}
	p := newPlayer(map[domain.Category]string{
		domain.CategoryTornado: "/sounds/O'Brien.wav",
	}, "mpv {file}", "windows", slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.start = rec.start

	require.NoError(t, p.Play(context.Background(), domain.CategoryTornado))
	assert.Equal(t, [][]string{{"mpv", "/sounds/O'Brien.wav"}}, rec.calls)
}
