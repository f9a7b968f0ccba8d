package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for _, label := range m.GetLabel() {
				if want, ok := labels[label.GetName()]; ok && want != label.GetValue() {
					matched = false
					break
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestCollector_LoginCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.LoginGranted(false)
	c.LoginGranted(false)
	c.LoginGranted(true)
	c.LoginRejected("invalid_credentials")
	c.LoginRejected("session_conflict")
	c.LoginRejected("session_conflict")

	if got := counterValue(t, reg, "planner_logins_granted_total", map[string]string{"forced": "false"}); got != 2 {
		t.Errorf("granted{forced=false} = %v, want 2", got)
	}
	if got := counterValue(t, reg, "planner_logins_granted_total", map[string]string{"forced": "true"}); got != 1 {
		t.Errorf("granted{forced=true} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "planner_logins_rejected_total", map[string]string{"reason": "session_conflict"}); got != 2 {
		t.Errorf("rejected{reason=session_conflict} = %v, want 2", got)
	}
}

func TestCollector_SessionAndPurgeCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SessionsExpired(3)
	c.SessionsExpired(2)
	c.RecordsPurged("events", 4)
	c.RecordsPurged("tasks", 1)

	if got := counterValue(t, reg, "planner_sessions_expired_total", nil); got != 5 {
		t.Errorf("sessions_expired = %v, want 5", got)
	}
	if got := counterValue(t, reg, "planner_records_purged_total", map[string]string{"kind": "events"}); got != 4 {
		t.Errorf("records_purged{kind=events} = %v, want 4", got)
	}
}

func TestCollector_HTTPInstrumentation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, 200, 50*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, 200, 150*time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, 404, 10*time.Millisecond)

	if got := counterValue(t, reg, "planner_http_requests_total", map[string]string{"method": "GET", "status_code": "200"}); got != 2 {
		t.Errorf("http_requests{GET,200} = %v, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "planner_http_request_duration_seconds" {
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 3 {
				t.Errorf("sample_count = %d, want 3", h.GetSampleCount())
			}
		}
	}
}

func TestHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.LoginGranted(false)
	c.SessionsExpired(1)
	c.RecordsPurged("tasks", 2)
	c.RecordHTTPRequest(http.MethodGet, 200, 20*time.Millisecond)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, metric := range []string{
		"planner_logins_granted_total",
		"planner_sessions_expired_total",
		"planner_records_purged_total",
		"planner_http_requests_total",
		"planner_http_request_duration_seconds",
	} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}
