// Package health serves the liveness and readiness probes.
package health

import (
	"encoding/json"
	"net/http"
	"time"
)

type ReadinessReporter interface {
	Readiness() (ready bool, lastFetch time.Time)
}

type status struct {
	Status    string     `json:"status"`
	LastFetch *time.Time `json:"last_fetch,omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, s status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(s)
}

// Liveness always answers ok while the process serves HTTP.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, status{Status: "ok"})
	}
}

// Readiness reports not_ready (503) while the latest upstream fetch failed.
func Readiness(rr ReadinessReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ready, last := rr.Readiness()
		s := status{Status: "not_ready"}
		code := http.StatusServiceUnavailable
		if ready {
			s.Status, code = "ready", http.StatusOK
		}
		if !last.IsZero() {
			s.LastFetch = &last
		}
		writeStatus(w, code, s)
	}
}
