package logx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		record := map[string]any{}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("line %q is not JSON: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestProductionLogger(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(Options{Out: &buf, SessionID: "sess-1"})

	Debug("hidden")
	Info("connected", "url", "ws://x")
	logger := Component("Session")
	logger.Warn().Msg("component record")

	records := decodeLines(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records (debug filtered), got %d: %s", len(records), buf.String())
	}
	if records[0]["session_id"] != "sess-1" || records[0]["url"] != "ws://x" {
		t.Errorf("record = %v", records[0])
	}
	if records[1]["component"] != "Session" {
		t.Errorf("record = %v", records[1])
	}
}

func TestOddFieldsAreDropped(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(Options{Out: &buf})

	Info("odd", "key")

	records := decodeLines(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected a warning and the record, got %d", len(records))
	}
	if _, ok := records[1]["key"]; ok {
		t.Errorf("odd field should be dropped: %v", records[1])
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(Options{Out: &buf})

	h := middleware.RequestID(RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/messages", nil))

	records := decodeLines(t, &buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r["level"] != "warn" || r["status"] != float64(429) || r["component"] != "inspector" {
		t.Errorf("record = %v", r)
	}
	if r["request_id"] == "" {
		t.Error("request_id should be set")
	}
}
