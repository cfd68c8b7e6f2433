package synth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Conn is a command channel to a running synthesis engine process. Exec writes
// one command line and returns the output lines the engine printed before its
// next ready prompt. Implementations are not safe for concurrent use; Session
// serializes access.
type Conn interface {
	Exec(ctx context.Context, command string) ([]string, error)
	Close() error
}

// procConn drives an engine subprocess over stdin/stdout pipes. The engine is
// expected to echo nothing and to print a fixed prompt when it is ready for
// the next command, matching an interactive IDL-style session.
type procConn struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader
	prompt string

	mu     sync.Mutex
	broken bool
}

// dial launches the engine binary and waits for the first prompt.
func dial(ctx context.Context, binary string, args []string, prompt string, startupTimeout time.Duration) (Conn, error) {
	if strings.TrimSpace(binary) == "" {
		return nil, errors.New("engine binary required")
	}
	if prompt == "" {
		return nil, errors.New("engine prompt required")
	}

	cmd := exec.Command(binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}

	conn := &procConn{
		cmd:    cmd,
		stdin:  stdin,
		reader: bufio.NewReader(stdout),
		prompt: prompt,
	}

	startCtx := ctx
	if startupTimeout > 0 {
		var cancel context.CancelFunc
		startCtx, cancel = context.WithTimeout(ctx, startupTimeout)
		defer cancel()
	}
	if _, err := conn.readUntilPrompt(startCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wait for engine prompt: %w", err)
	}
	return conn, nil
}

func (c *procConn) Exec(ctx context.Context, command string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return nil, errors.New("connection is no longer usable")
	}

	if _, err := io.WriteString(c.stdin, command+"\n"); err != nil {
		c.broken = true
		return nil, fmt.Errorf("write command: %w", err)
	}

	lines, err := c.readUntilPrompt(ctx)
	if err != nil {
		c.broken = true
		return nil, err
	}
	return lines, nil
}

// readUntilPrompt accumulates engine output until the stream ends with the
// ready prompt. A cancelled context abandons the read and poisons the
// connection, since the stream position is then unknown.
func (c *procConn) readUntilPrompt(ctx context.Context) ([]string, error) {
	type result struct {
		lines []string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		var buf strings.Builder
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				done <- result{nil, fmt.Errorf("read engine output: %w", err)}
				return
			}
			buf.WriteByte(b)
			if b == byte(c.prompt[len(c.prompt)-1]) && strings.HasSuffix(buf.String(), c.prompt) {
				text := strings.TrimSuffix(buf.String(), c.prompt)
				done <- result{splitLines(text), nil}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		c.broken = true
		return nil, ctx.Err()
	case res := <-done:
		return res.lines, res.err
	}
}

func (c *procConn) Close() error {
	c.mu.Lock()
	c.broken = true
	c.mu.Unlock()

	_ = c.stdin.Close()
	if c.cmd.Process != nil {
		// Give the engine a moment to exit on closed stdin before killing it.
		// Shutdown errors are discarded; the process is going away either way.
		waited := make(chan error, 1)
		go func() { waited <- c.cmd.Wait() }()
		select {
		case <-waited:
		case <-time.After(2 * time.Second):
			_ = c.cmd.Process.Kill()
			<-waited
		}
	}
	return nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
