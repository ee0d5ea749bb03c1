package test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sunholo/ailang/internal/schema"
)

func TestRunnerTracksPassAndFail(t *testing.T) {
	r := NewRunner()
	r.Run("suite", "ok", func() error { return nil })
	r.Run("suite", "bad", func() error { return errors.New("boom") })
	report := r.GetReport()

	if report.Counts.Total != 2 || report.Counts.Passed != 1 || report.Counts.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", report.Counts)
	}
}

func TestSkipIsCountedSeparately(t *testing.T) {
	r := NewRunner()
	r.Skip("suite", "later", "not implemented yet")
	report := r.GetReport()

	if report.Counts.Skipped != 1 || report.Counts.Total != 1 {
		t.Fatalf("unexpected counts: %+v", report.Counts)
	}
	if report.Cases[0].Error != "not implemented yet" {
		t.Errorf("expected skip reason to be recorded, got %v", report.Cases[0].Error)
	}
}

func TestCasesAreSortedBySuiteThenName(t *testing.T) {
	r := NewRunner()
	r.Run("z-suite", "a", func() error { return nil })
	r.Run("a-suite", "b", func() error { return nil })
	r.Run("a-suite", "a", func() error { return nil })
	report := r.GetReport()

	if len(report.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(report.Cases))
	}
	if report.Cases[0].Suite != "a-suite" || report.Cases[0].Name != "a" {
		t.Errorf("expected first case a-suite/a, got %s/%s", report.Cases[0].Suite, report.Cases[0].Name)
	}
	if report.Cases[2].Suite != "z-suite" {
		t.Errorf("expected last case in z-suite, got %s", report.Cases[2].Suite)
	}
}

func TestSameCaseGetsStableSID(t *testing.T) {
	first := sid("suite", "name")
	second := sid("suite", "name")
	if first != second {
		t.Fatalf("expected stable SID, got %q then %q", first, second)
	}
	if sid("suite", "other") == first {
		t.Fatalf("expected different names to get different SIDs")
	}
}

func TestToJSONProducesValidSchemaTaggedReport(t *testing.T) {
	r := NewRunner()
	r.Run("suite", "ok", func() error { return nil })
	data, err := r.GetReport().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed["schema"] != schema.TestV1 {
		t.Errorf("expected schema %q, got %v", schema.TestV1, parsed["schema"])
	}
}
