package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"airtight/internal/observ"
)

// TimingPayload is the serialised form of a run's phase timings.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	Cached  int                  `json:"cached"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// Timings summarises the timer of a finished run.
func (r *Result) Timings() TimingPayload {
	payload := TimingPayload{Kind: "lint", Files: len(r.Files), Cached: r.CacheHits}
	if r.Timer == nil {
		return payload
	}
	report := r.Timer.Report()
	payload.TotalMS = report.TotalMS
	payload.Phases = report.Phases
	return payload
}

// WriteTimings renders the timings either as text or, when asJSON is set,
// as one JSON object.
func WriteTimings(w io.Writer, r *Result, asJSON bool) error {
	if r == nil || r.Timer == nil {
		return nil
	}
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(r.Timings())
	}
	if _, err := io.WriteString(w, r.Timer.Summary()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  files %d, cached %d\n", len(r.Files), r.CacheHits)
	return err
}
