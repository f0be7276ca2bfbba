package mr

import (
	"context"
	"encoding/json"
	"testing"
)

// RunT runs r with opts and reports every violation as a test error,
// including the inputs and outputs and a replay hint. It returns the
// report for further assertions.
func RunT(tb testing.TB, r Runner, opts Options) Report {
	tb.Helper()

	err := r.Validate(opts.Relations)
	if err != nil {
		tb.Fatalf("invalid options: %v", err)
	}

	report := r.Run(context.Background(), opts)

	for _, v := range report.Violations {
		tb.Errorf("%s\n%s\nreplay: Replay(%q, %d, %d)", v, FormatCase(v), v.Relation, v.Seed, v.Case)
	}

	return report
}

// FormatCase renders the inputs and outputs of v as indented JSON for
// failure messages.
func FormatCase(v Violation) string {
	data, err := json.MarshalIndent(struct {
		Source      any `json:"source"`
		SourceOut   any `json:"source_out"`
		FollowUp    any `json:"follow_up"`
		FollowUpOut any `json:"follow_up_out"`
	}{v.Source, v.SourceOut, v.FollowUp, v.FollowUpOut}, "", "  ")
	if err != nil {
		return "(unprintable: " + err.Error() + ")"
	}

	return string(data)
}
