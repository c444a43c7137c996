package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

// withStdout redirects os.Stdout for the duration of f because New
// writes there directly.
func withStdout(t *testing.T, f func()) []byte {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	f()
	os.Stdout = orig

	_ = w.Close()
	out, _ := io.ReadAll(r)
	_ = r.Close()
	return out
}

func decodeEvents(t *testing.T, out []byte) []map[string]any {
	t.Helper()
	var events []map[string]any
	dec := json.NewDecoder(bytes.NewReader(out))
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("invalid json log: %v\n%s", err, out)
		}
		events = append(events, ev)
	}
	return events
}

func TestErrorEventCarriesServiceAndStack(t *testing.T) {
	out := withStdout(t, func() {
		log := New("motoguard")
		log.Error().Stack().Err(pkgerrors.New("location provider unreachable")).Msg("activation failed")
	})

	events := decodeEvents(t, out)
	if len(events) != 1 {
		t.Fatalf("expected one log event, got %d", len(events))
	}
	ev := events[0]

	if svc, _ := ev["service"].(string); svc != "motoguard" {
		t.Fatalf("expected service=\"motoguard\", got %v", ev["service"])
	}
	if lvl, _ := ev["level"].(string); lvl != "error" {
		t.Fatalf("expected level=\"error\", got %v", ev["level"])
	}
	if _, ok := ev["stack"]; !ok {
		t.Fatalf("error event has no stack: %v", ev)
	}
	if _, ok := ev["time"]; !ok {
		t.Fatalf("event has no timestamp: %v", ev)
	}
}

// Plain errors without a pkg/errors stack must still render one when a
// call site asks for it, since most store and transport errors arrive
// unwrapped.
func TestStackAttachedToPlainErrors(t *testing.T) {
	out := withStdout(t, func() {
		log := New("motoguard")
		log.Error().Stack().Err(io.ErrUnexpectedEOF).Msg("corrupt stored record")
	})

	events := decodeEvents(t, out)
	if len(events) != 1 {
		t.Fatalf("expected one log event, got %d", len(events))
	}
	if _, ok := events[0]["stack"]; !ok {
		t.Fatalf("plain error rendered without stack: %v", events[0])
	}
}
