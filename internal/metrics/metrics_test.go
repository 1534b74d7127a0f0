package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/stackmotion/pkg/observability"
)

func TestHooksUpdateCollectors(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnTransitionStart(ctx, 0)
	if got := testutil.ToFloat64(m.inFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnCheckpointWritten(ctx, 0, 2)
	m.OnInfeasible(ctx, 0, 1, "full")
	m.OnFrameRendered(ctx, 0, 0, 10*time.Millisecond)
	m.OnFrameRendered(ctx, 0, 1, 10*time.Millisecond)
	m.OnFrameSkipped(ctx, 0, 2)
	m.OnTransitionComplete(ctx, 0, "complete", time.Second, nil)
	m.OnCheckpointLoaded(ctx, 1)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"in flight", testutil.ToFloat64(m.inFlight), 0},
		{"complete", testutil.ToFloat64(m.transitions.WithLabelValues("complete")), 1},
		{"written", testutil.ToFloat64(m.checkpoints.WithLabelValues("written")), 1},
		{"loaded", testutil.ToFloat64(m.checkpoints.WithLabelValues("loaded")), 1},
		{"infeasible", testutil.ToFloat64(m.infeasible), 1},
		{"rendered", testutil.ToFloat64(m.frames.WithLabelValues("rendered")), 2},
		{"skipped", testutil.ToFloat64(m.frames.WithLabelValues("skipped")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	m := New()
	m.Register()
	if observability.Transition() != m {
		t.Error("Register() did not install transition hooks")
	}
	if observability.Frame() != m {
		t.Error("Register() did not install frame hooks")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.OnFrameSkipped(context.Background(), 0, 0)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "ok"},
		{"/metrics", `stackmotion_frames_total{outcome="skipped"} 1`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.want) {
				t.Errorf("body does not contain %q:\n%s", tt.want, body)
			}
		})
	}
}
