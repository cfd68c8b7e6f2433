package synth

import (
	"context"
	"testing"
	"time"
)

// shellEngine mimics the engine's prompt discipline: print the ready prompt,
// echo each command line, prompt again.
const shellEngine = `printf 'IDL> '; while IFS= read -r line; do printf '%s\nIDL> ' "$line"; done`

func dialShell(t *testing.T) Conn {
	t.Helper()
	conn, err := dial(context.Background(), "sh", []string{"-c", shellEngine}, "IDL> ", 10*time.Second)
	if err != nil {
		t.Fatalf("dial returned error: %v", err)
	}
	return conn
}

func TestProcConnExecRoundTrip(t *testing.T) {
	conn := dialShell(t)
	defer conn.Close()

	lines, err := conn.Exec(context.Background(), "grid='synthspec'")
	if err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "grid='synthspec'" {
		t.Fatalf("unexpected output lines: %v", lines)
	}
}

func TestProcConnCloseTerminatesProcess(t *testing.T) {
	conn := dialShell(t)

	if err := conn.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := conn.Exec(context.Background(), "print, wave"); err == nil {
		t.Fatal("expected Exec to fail after Close")
	}
}

func TestProcConnCancelledReadPoisonsConnection(t *testing.T) {
	// An engine that never prints its prompt again leaves the stream position
	// unknown, so a cancelled command must poison the connection.
	conn, err := dial(context.Background(), "sh",
		[]string{"-c", "printf 'IDL> '; cat >/dev/null"}, "IDL> ", 10*time.Second)
	if err != nil {
		t.Fatalf("dial returned error: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := conn.Exec(ctx, "print, wave"); err == nil {
		t.Fatal("expected cancelled Exec to fail")
	}
	if _, err := conn.Exec(context.Background(), "print, wave"); err == nil {
		t.Fatal("expected poisoned connection to refuse further commands")
	}
}
