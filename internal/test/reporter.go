// Package test generates structured, schema-versioned JSON reports for a
// run of `.ail` test files, the same deterministic-JSON approach
// internal/errors uses for diagnostics.
package test

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"sort"
	"time"

	"github.com/sunholo/ailang/internal/schema"
)

// Case is one test file's outcome.
type Case struct {
	SID    string `json:"sid"`
	Suite  string `json:"suite"`
	Name   string `json:"name"`
	Status string `json:"status"` // passed|failed|errored|skipped
	TimeMs int64  `json:"time_ms"`
	Error  any    `json:"error,omitempty"`
}

// Counts tallies a Report's cases by status.
type Counts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// Report is one complete `ailang test` run.
type Report struct {
	Schema     string   `json:"schema"`
	RunID      string   `json:"run_id"`
	DurationMs int64    `json:"duration_ms"`
	Counts     Counts   `json:"counts"`
	Cases      []Case   `json:"cases"`
	Platform   Platform `json:"platform"`
}

// Platform records the environment a report was generated in, for
// reproducing a failure.
type Platform struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Timestamp string `json:"timestamp"`
}

func newReport() *Report {
	return &Report{
		Schema: schema.TestV1,
		RunID:  generateRunID(),
		Cases:  []Case{},
		Platform: Platform{
			GoVersion: runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func (r *Report) addCase(c Case) {
	r.Cases = append(r.Cases, c)
	r.Counts.Total++
	switch c.Status {
	case "passed":
		r.Counts.Passed++
	case "failed":
		r.Counts.Failed++
	case "errored":
		r.Counts.Errored++
	case "skipped":
		r.Counts.Skipped++
	}
}

func (r *Report) finalize(startTime time.Time) {
	r.DurationMs = time.Since(startTime).Milliseconds()
	sort.Slice(r.Cases, func(i, j int) bool {
		if r.Cases[i].Suite != r.Cases[j].Suite {
			return r.Cases[i].Suite < r.Cases[j].Suite
		}
		return r.Cases[i].Name < r.Cases[j].Name
	})
}

// ToJSON renders the report deterministically, matching the teacher's
// approach of sorted-key JSON for anything fed to AI tooling or diffed
// in golden tests.
func (r *Report) ToJSON() ([]byte, error) {
	if r.Cases == nil {
		r.Cases = []Case{}
	}
	data, err := schema.MarshalDeterministic(r)
	if err != nil {
		return nil, err
	}
	return schema.FormatJSON(data)
}

func generateRunID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// sid derives a stable identifier for a (suite, name) pair so the same
// test keeps the same SID across runs, letting failures be tracked over
// time without a separate test-registry file.
func sid(suite, name string) string {
	hash := sha256.Sum256([]byte(suite + "::" + name))
	return "T#" + hex.EncodeToString(hash[:8])
}

// Runner accumulates Cases across a directory of test files and produces
// one Report. Every `ailang test` invocation owns exactly one Runner.
type Runner struct {
	report    *Report
	startTime time.Time
}

// NewRunner starts a fresh test run.
func NewRunner() *Runner {
	return &Runner{report: newReport(), startTime: time.Now()}
}

// Run executes fn (typically: parse, check, and evaluate one `.ail`
// file) and records its outcome under suite/name.
func (r *Runner) Run(suite, name string, fn func() error) {
	start := time.Now()
	c := Case{SID: sid(suite, name), Suite: suite, Name: name}
	if err := fn(); err != nil {
		c.Status = "failed"
		c.Error = err.Error()
	} else {
		c.Status = "passed"
	}
	c.TimeMs = time.Since(start).Milliseconds()
	r.report.addCase(c)
}

// Skip records a case that was deliberately not run.
func (r *Runner) Skip(suite, name, reason string) {
	r.report.addCase(Case{SID: sid(suite, name), Suite: suite, Name: name, Status: "skipped", Error: reason})
}

// GetReport finalizes (sorts cases, stamps duration) and returns the
// accumulated report.
func (r *Runner) GetReport() *Report {
	r.report.finalize(r.startTime)
	return r.report
}
