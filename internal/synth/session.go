package synth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"synthgrid/internal/config"
	"synthgrid/internal/logging"
)

// Session is a long-lived handle to the external synthesis engine. One session
// is created per batch; setup (library path, support routines, grid binding)
// happens exactly once. Sessions are not reentrant and must never be shared
// across concurrent callers: the engine keeps request state in shared
// variables (wave, spectrum), so overlapping commands would corrupt results.
// A mutex serializes in-process callers and a file lock keeps a second
// process from attaching to the same engine.
type Session struct {
	cfg    config.Engine
	logger *slog.Logger
	conn   Conn
	lock   *flock.Flock

	mu         sync.Mutex
	initOnce   sync.Once
	initErr    error
	cmdTimeout time.Duration
}

// Option configures a session.
type Option func(*Session)

// WithConn injects a custom engine connection (primarily for tests).
func WithConn(conn Conn) Option {
	return func(s *Session) {
		if conn != nil {
			s.conn = conn
		}
	}
}

// StartSession launches the engine, acquires the exclusive session lock, and
// performs the one-time setup. A setup failure is fatal for the batch: the
// error carries ErrEngineSetup and no retry is attempted.
func StartSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	session := &Session{
		cfg:        cfg.Engine,
		logger:     logger.With(slog.String(logging.FieldComponent, "synth")),
		cmdTimeout: time.Duration(cfg.Engine.CommandTimeout) * time.Second,
	}
	for _, opt := range opts {
		opt(session)
	}

	lockPath := cfg.SessionLockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, Wrap(ErrEngineSetup, "session lock", "create lock directory", err)
	}
	session.lock = flock.New(lockPath)
	locked, err := session.lock.TryLock()
	if err != nil {
		return nil, Wrap(ErrEngineSetup, "session lock", lockPath, err)
	}
	if !locked {
		return nil, Wrap(ErrEngineSetup, "session lock", fmt.Sprintf("another session holds %s", lockPath), nil)
	}

	if session.conn == nil {
		conn, err := dial(ctx, cfg.Engine.Binary, cfg.Engine.Args, cfg.Engine.Prompt,
			time.Duration(cfg.Engine.StartupTimeout)*time.Second)
		if err != nil {
			_ = session.lock.Unlock()
			return nil, Wrap(ErrEngineSetup, "start engine", cfg.Engine.Binary, err)
		}
		session.conn = conn
	}

	if err := session.Initialize(ctx); err != nil {
		_ = session.Close()
		return nil, err
	}
	return session, nil
}

// Initialize performs the one-time engine setup. It is idempotent: repeated
// calls return the first outcome without reissuing commands.
func (s *Session) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.initialize(ctx)
	})
	return s.initErr
}

func (s *Session) initialize(ctx context.Context) error {
	commands := []string{
		fmt.Sprintf("!path = '%s:' + !path", s.cfg.LibraryPath),
		".compile " + s.cfg.BroadenRoutine,
		".compile " + s.cfg.ExtractRoutine,
		fmt.Sprintf("grid='%s'", s.cfg.GridPath),
	}
	for _, command := range commands {
		if _, err := s.exec(ctx, command); err != nil {
			return Wrap(ErrEngineSetup, "initialize", command, err)
		}
	}
	s.logger.Debug("engine session initialized",
		slog.String("binary", s.cfg.Binary),
		slog.String("grid", s.cfg.GridPath))
	return nil
}

// exec issues one command and surfaces engine-reported errors. Callers hold
// s.mu when the command touches request state.
func (s *Session) exec(ctx context.Context, command string) ([]string, error) {
	if s.cmdTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cmdTimeout)
		defer cancel()
	}
	lines, err := s.conn.Exec(ctx, command)
	if err != nil {
		return nil, err
	}
	if err := engineReportedError(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// engineReportedError detects diagnostic lines in command output. The engine
// prefixes errors and warnings with "% "; anything mentioning an error aborts
// the command.
func engineReportedError(lines []string) error {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "% ") {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "error") || strings.Contains(lower, "undefined") ||
			strings.Contains(lower, "unable") || strings.Contains(lower, "not found") {
			return fmt.Errorf("engine reported: %s", strings.TrimPrefix(trimmed, "% "))
		}
	}
	return nil
}

// Close terminates the engine process and releases the session lock.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var connErr error
	if s.conn != nil {
		connErr = s.conn.Close()
		s.conn = nil
	}
	if s.lock != nil {
		_ = s.lock.Unlock()
		s.lock = nil
	}
	return connErr
}
