package extraction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// HealthConfig holds the corpus-level thresholds a run must meet.
type HealthConfig struct {
	MinThroughput  float64 // documents per second
	MaxFailureRate float64 // failures / total
	TopFailures    int     // causes reported
}

// CauseCount is the number of failures sharing a cause category.
type CauseCount struct {
	Cause string `yaml:"cause" json:"cause"`
	Count int    `yaml:"count" json:"count"`
}

// Stats summarizes one backend's extraction run.
type Stats struct {
	Backend     string        `yaml:"backend" json:"backend"`
	Total       int           `yaml:"total" json:"total"`
	Failures    int           `yaml:"failures" json:"failures"`
	Elapsed     time.Duration `yaml:"elapsed" json:"elapsed"`
	Throughput  float64       `yaml:"docs_per_sec" json:"docs_per_sec"`
	FailureRate float64       `yaml:"failure_rate" json:"failure_rate"`
	TopCauses   []CauseCount  `yaml:"top_causes,omitempty" json:"top_causes,omitempty"`
}

func computeStats(backend string, docs []Document, results []Result, elapsed time.Duration, topN int) Stats {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	s := Stats{Backend: backend, Total: len(docs), Elapsed: elapsed}

	counts := make(map[string]int)
	for _, r := range results {
		if r.OK() {
			continue
		}
		s.Failures++
		counts[Cause(r.Err)]++
	}
	if s.Total > 0 {
		s.Throughput = float64(s.Total) / elapsed.Seconds()
		s.FailureRate = float64(s.Failures) / float64(s.Total)
	}
	s.TopCauses = topCauses(counts, topN)
	return s
}

func topCauses(counts map[string]int, n int) []CauseCount {
	causes := make([]CauseCount, 0, len(counts))
	for cause, count := range counts {
		causes = append(causes, CauseCount{Cause: cause, Count: count})
	}
	sort.Slice(causes, func(i, j int) bool {
		if causes[i].Count != causes[j].Count {
			return causes[i].Count > causes[j].Count
		}
		return causes[i].Cause < causes[j].Cause
	})
	if n > 0 && len(causes) > n {
		causes = causes[:n]
	}
	return causes
}

// Check applies the health gate: throughput must exceed MinThroughput and the
// failure rate must not exceed MaxFailureRate. An empty run has nothing to
// judge and passes.
func (s Stats) Check(h HealthConfig) error {
	if s.Total == 0 {
		return nil
	}
	var violations []string
	if s.Throughput <= h.MinThroughput {
		violations = append(violations, fmt.Sprintf("throughput %.3f docs/s does not exceed the minimum %.3f", s.Throughput, h.MinThroughput))
	}
	if s.FailureRate > h.MaxFailureRate {
		violations = append(violations, fmt.Sprintf("failure rate %.3f is above the maximum %.3f", s.FailureRate, h.MaxFailureRate))
	}
	if len(violations) == 0 {
		return nil
	}
	return &HealthError{Stats: s, Violations: violations}
}

// HealthError reports a run whose extraction was too slow or too broken to score.
type HealthError struct {
	Stats      Stats
	Violations []string
}

func (e *HealthError) Error() string {
	msg := fmt.Sprintf("backend %s failed the health check: %s", e.Stats.Backend, strings.Join(e.Violations, "; "))
	if len(e.Stats.TopCauses) > 0 {
		causes := make([]string, 0, len(e.Stats.TopCauses))
		for _, c := range e.Stats.TopCauses {
			causes = append(causes, fmt.Sprintf("%s=%d", c.Cause, c.Count))
		}
		msg += " (top failure causes: " + strings.Join(causes, ", ") + ")"
	}
	return msg
}

// Cause returns the category a failure is grouped under: "timeout",
// "canceled", "panic", the Category() of an error that has one, or else the
// Go type of the innermost wrapped error.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var pe *PanicError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &pe):
		return "panic"
	}

	var c interface{ Category() string }
	if errors.As(err, &c) {
		return c.Category()
	}

	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
