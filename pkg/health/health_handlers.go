package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the general probes. Degraded still answers 200.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := c.Check()
		code := http.StatusOK
		if resp.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, resp)
	}
}

// ReadinessHandler serves the readiness probes; only healthy answers 200
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeBinary(w, c.CheckReadiness())
	}
}

// LivenessHandler serves the liveness probes; only healthy answers 200
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeBinary(w, c.CheckLiveness())
	}
}

// Register mounts the handlers under /health on mux
func (c *Checker) Register(mux *http.ServeMux) {
	mux.Handle("/health", c.Handler())
	mux.Handle("/health/ready", c.ReadinessHandler())
	mux.Handle("/health/live", c.LivenessHandler())
}

func writeBinary(w http.ResponseWriter, resp Response) {
	code := http.StatusOK
	if resp.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeResponse(w, code, resp)
}

func writeResponse(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
