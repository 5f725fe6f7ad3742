package diagnostics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lsmdb/pkg/config"
	"lsmdb/pkg/memmap"
)

func TestHTTPHandlerReportsSnapshot(t *testing.T) {
	env := memmap.New(config.Default(), nil)
	defer env.Close()

	handler := NewHTTPHandler()
	req := httptest.NewRequest(http.MethodGet, "/debug/envelopes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got.LiveEnvelopes < 1 {
		t.Fatalf("LiveEnvelopes = %d, want >= 1", got.LiveEnvelopes)
	}
}

func TestEnvelopeHTTPHandlerReportsIterators(t *testing.T) {
	env := memmap.New(config.Default(), nil)
	defer env.Close()

	handler := NewEnvelopeHTTPHandler(env)
	req := httptest.NewRequest(http.MethodGet, "/debug/envelopes/iterators", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got EnvelopeSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got.OpenIterators != 0 {
		t.Fatalf("OpenIterators = %d, want 0", got.OpenIterators)
	}
}
