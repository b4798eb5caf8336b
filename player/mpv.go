package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	seekTimeout       = 5 * time.Second
	quitTimeout       = 3 * time.Second
)

// cellSize approximates the pixel size of one terminal cell when sizing the mpv window.
const (
	cellWidth  = 9
	cellHeight = 18
)

// MPV drives an mpv process over its JSON-IPC socket. It plays pre-rendered
// recordings (for example a video export of a cast) and reports the mpv position.
type MPV struct {
	source     string
	target     Surface
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	events     *EventListener

	mu sync.Mutex // serializes socket writes

	stateMu  sync.Mutex
	restarts []chan struct{} // seeks waiting for playback-restart
	position float64
	playing  bool
	disposed bool
}

// NewMPV starts mpv paused on source and returns once its IPC socket accepts connections.
func NewMPV(binary, source string, target Surface, opts Options) (*MPV, error) {
	safeSource, err := sanitizeMediaTarget(source)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	if binary == "" {
		binary = "mpv"
	}
	if target == nil {
		target = Discard
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}

	m := &MPV{
		source:     safeSource,
		target:     target,
		opts:       opts.withDefaults(),
		socketPath: filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes)),
		exited:     make(chan struct{}),
	}

	m.cmd = exec.Command(binary, m.args()...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = NewEventListener(m.socketPath, m.onEvent)
	if err := m.events.Start(); err != nil {
		_ = m.Dispose()
		return nil, err
	}

	return m, nil
}

// args builds the mpv command line. mpv starts paused so the synchronizer decides when to play.
func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--pause=yes",
		"--keep-open=yes",
		"--idle=yes",
		"--force-window=yes",
		"--hr-seek=yes",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--osc=%s", yesNo(m.opts.ShowControls)),
		fmt.Sprintf("--geometry=%dx%d", m.opts.Columns*cellWidth, m.opts.Rows*cellHeight),
	}

	switch m.opts.Fit {
	case FitNone:
		args = append(args, "--video-unscaled=yes")
	case FitWidth, FitHeight:
		args = append(args, "--keepaspect-window=yes")
	}

	return append(args, "--", m.source)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) checkUsable() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.disposed {
		return ErrDisposed
	}

	select {
	case <-m.exited:
		return errors.New("mpv exited")
	default:
		return nil
	}
}

// onEvent receives property changes and events from the listener.
func (m *MPV) onEvent(name string, data interface{}) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	switch name {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			m.position = pos
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			m.playing = !paused
		}
	case "playback-restart":
		for _, ch := range m.restarts {
			close(ch)
		}
		m.restarts = nil
	default:
		return
	}

	if !m.disposed {
		m.target.Draw(Frame{Time: m.position, Columns: m.opts.Columns, Rows: m.opts.Rows, Playing: m.playing})
	}
}

// Seek implements Handle. It returns after mpv reports that playback restarted at the new position.
func (m *MPV) Seek(ctx context.Context, seconds float64) error {
	if err := m.checkUsable(); err != nil {
		return err
	}

	restarted := make(chan struct{})
	m.stateMu.Lock()
	m.restarts = append(m.restarts, restarted)
	m.stateMu.Unlock()

	if _, err := m.sendCommand([]interface{}{"seek", seconds, "absolute+exact"}); err != nil {
		return err
	}

	timer := time.NewTimer(seekTimeout)
	defer timer.Stop()

	select {
	case <-restarted:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.exited:
		return errors.New("mpv exited during seek")
	case <-timer.C:
		return fmt.Errorf("seek to %.3fs: no playback restart after %s", seconds, seekTimeout)
	}
}

// Play implements Handle.
func (m *MPV) Play(ctx context.Context) error {
	return m.setPause(ctx, false)
}

// Pause implements Handle.
func (m *MPV) Pause(ctx context.Context) error {
	return m.setPause(ctx, true)
}

func (m *MPV) setPause(ctx context.Context, paused bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.checkUsable(); err != nil {
		return err
	}
	return m.Set("pause", paused)
}

// Duration implements Handle. It returns 0 while mpv has not opened the media yet.
func (m *MPV) Duration(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := m.checkUsable(); err != nil {
		return 0, err
	}

	d, err := m.getFloatProperty("duration")
	if err != nil && strings.Contains(err.Error(), "property unavailable") {
		return 0, nil
	}
	return d, err
}

// Dispose implements Handle. It asks mpv to quit and kills it if it does not exit in time.
func (m *MPV) Dispose() error {
	m.stateMu.Lock()
	if m.disposed {
		m.stateMu.Unlock()
		return nil
	}
	m.disposed = true
	m.stateMu.Unlock()

	if m.events != nil {
		m.events.Stop()
	}

	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set a property
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a source is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty source")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in source")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("source must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
