package diagnostics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lsmdb/pkg/memmap"
)

// NewHTTPHandler returns a chi router exposing the leak-detector
// diagnostic over HTTP. This is not the tablet-server RPC surface
// spec.md puts out of scope — it carries no read/write/scan operation,
// only the allocation counts spec.md §6 already requires a teardown hook
// to report.
func NewHTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/debug/envelopes", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Report())
	})
	return r
}

// NewEnvelopeHTTPHandler additionally reports the given Envelope's
// open-iterator diagnostic under /debug/envelopes/iterators.
func NewEnvelopeHTTPHandler(env *memmap.Envelope) http.Handler {
	r := chi.NewRouter()
	r.Get("/debug/envelopes", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Report())
	})
	r.Get("/debug/envelopes/iterators", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ReportEnvelope(env))
	})
	return r
}
