package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "rendering")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "rendering") {
		t.Errorf("output = %q, want the message", buf.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "rendering")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &bytes.Buffer{}, "rendering")
	s.Start()
	<-ctx.Done()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "rendering")
	s.Stop() // before Start
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWith(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "rendering")
	s.Start()
	s.StopWithSuccess("done")
	if !strings.Contains(buf.String(), iconSuccess+" done") {
		t.Errorf("output = %q, want success line", buf.String())
	}

	buf.Reset()
	s = newSpinner(context.Background(), &buf, "rendering")
	s.Start()
	s.StopWithError("failed")
	if !strings.Contains(buf.String(), iconError+" failed") {
		t.Errorf("output = %q, want error line", buf.String())
	}
}
