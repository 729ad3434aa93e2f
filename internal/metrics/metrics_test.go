package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) CountSubmissionsByStatus(context.Context) (map[string]int64, error) {
	return f.counts, f.err
}

func TestSubmissionCollector(t *testing.T) {
	c := NewSubmissionCollector(&fakeCounter{counts: map[string]int64{
		"pending":  3,
		"imported": 5,
	}})

	expected := `
# HELP birthdays_submissions Current number of submissions by review status
# TYPE birthdays_submissions gauge
birthdays_submissions{status="imported"} 5
birthdays_submissions{status="pending"} 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected collector output: %v", err)
	}
}

func TestSubmissionCollector_StoreError(t *testing.T) {
	c := NewSubmissionCollector(&fakeCounter{err: errors.New("db down")})

	if n := testutil.CollectAndCount(c); n != 0 {
		t.Errorf("CollectAndCount() = %d, want 0 on store error", n)
	}
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(reviewsTotal.WithLabelValues("import", "imported"))
	RecordReview("import", "imported")
	RecordReview("import", "imported")
	if got := testutil.ToFloat64(reviewsTotal.WithLabelValues("import", "imported")) - before; got != 2 {
		t.Errorf("reviews delta = %v, want 2", got)
	}

	before = testutil.ToFloat64(linksTotal.WithLabelValues("purged"))
	RecordLinkEvent("purged", 4)
	if got := testutil.ToFloat64(linksTotal.WithLabelValues("purged")) - before; got != 4 {
		t.Errorf("link events delta = %v, want 4", got)
	}
}

func TestInit_RegistersOnce(t *testing.T) {
	store := &fakeCounter{counts: map[string]int64{}}
	Init(store)
	Init(store)

	if err := prometheus.Register(submissionsTotal); err == nil {
		t.Error("submission counter should already be registered")
	}
}
