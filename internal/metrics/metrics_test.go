package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jackzampolin/docsort/internal/types"
)

func TestObserveClassification(t *testing.T) {
	m := New()

	m.ObserveClassification(types.BucketCorrect, nil)
	m.ObserveClassification(types.BucketCorrect, nil)
	m.ObserveClassification(types.BucketAnomalous, nil)
	m.ObserveClassification(types.BucketImageOnly,
		types.NewFailure(types.FailureRelocation, "a.pdf", errors.New("disk full")))
	m.ObserveClassification(types.BucketImageOnly, errors.New("stale"))

	if got := testutil.ToFloat64(m.classifications.WithLabelValues("correct")); got != 2 {
		t.Errorf("correct = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.classifications.WithLabelValues("anomalous")); got != 1 {
		t.Errorf("anomalous = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.relocationFailures); got != 1 {
		t.Errorf("relocation failures = %v, want 1", got)
	}
}

func TestObserveExtraction(t *testing.T) {
	m := New()

	m.ObserveExtraction("text", 10*time.Millisecond, nil)
	m.ObserveExtraction("text", 10*time.Millisecond,
		types.NewFailure(types.FailureEmptyText, "a.pdf", nil))
	m.ObserveExtraction("image", 10*time.Millisecond,
		types.NewFailure(types.FailureRender, "a.pdf", errors.New("bad stream")))
	m.ObserveExtraction("image", 10*time.Millisecond, errors.New("other"))

	tests := []struct {
		kind string
		want float64
	}{
		{"empty_text", 1},
		{"render", 1},
		{"unknown", 1},
		{"open", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.extractionFailures.WithLabelValues(tt.kind)); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.kind, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(m.extractionDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestObserveQueue(t *testing.T) {
	m := New()
	m.ObserveQueue(3, 10)
	if got := testutil.ToFloat64(m.queueRemaining); got != 7 {
		t.Errorf("remaining = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.queueProcessed); got != 3 {
		t.Errorf("processed = %v, want 3", got)
	}
}

func TestObserveAssistant(t *testing.T) {
	m := New()
	m.ObserveAssistant(AssistantOK, 200*time.Millisecond)
	m.ObserveAssistant("", 0)
	if got := testutil.ToFloat64(m.assistantRequests.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.assistantRequests.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveClassification(types.BucketCorrect, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `docsort_classifications_total{bucket="correct"} 1`) {
		t.Errorf("exposition missing classification counter:\n%s", body)
	}
}

func TestMiddleware(t *testing.T) {
	m := New()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/api/triage/pages/1/image", "/api/triage/pages/2/image", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/triage/pages/{source}/image", "200")); got != 2 {
		t.Errorf("page image requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "other", "404")); got != 1 {
		t.Errorf("404 requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requestInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestStatusRecorder_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}
	sr.Write([]byte("x"))
	sr.Flush()
	if !rec.Flushed {
		t.Error("Flush not passed through")
	}
}
