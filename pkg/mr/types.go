package mr

import (
	"context"
	"fmt"
	"time"
)

// SourceCheck is the relation name used for violations raised while
// generating or executing the source input, before any relation runs.
const SourceCheck = "(source)"

// Runner is the type-erased view of a [Suite] used by the CLI and by
// callers that handle suites of different input types together.
type Runner interface {
	Info() Info

	// Validate returns an error wrapping [ErrUnknownRelation] if any name
	// in relations is not defined by the suite.
	Validate(relations []string) error

	// Run executes opts.Cases cases and reports what it found. It stops
	// early when ctx is done or opts.MaxViolations is reached.
	Run(ctx context.Context, opts Options) Report

	// Replay re-executes a single case for one relation. It returns nil
	// when the relation holds. relation may be [SourceCheck].
	Replay(relation string, seed uint64, caseIndex int) (*Violation, error)

	// RunStream executes one case whose input and transforms are all drawn
	// from stream. Empty relations means all of them.
	RunStream(stream *ByteStream, relations []string) []Violation
}

// Info describes a suite for listings.
type Info struct {
	Name      string
	Doc       string
	Relations []RelationInfo
}

// RelationInfo describes a relation for listings.
type RelationInfo struct {
	Name string
	Doc  string
}

// Options controls a [Runner.Run].
type Options struct {
	// Cases is the number of source inputs to generate.
	Cases int

	// Seed selects the pseudo-random streams. Same seed, same inputs.
	Seed uint64

	// Relations limits the run to the named relations. Empty means all.
	Relations []string

	// MaxViolations stops the run once that many violations were found.
	// Zero means no limit.
	MaxViolations int

	// OnViolation, if set, is called for each violation as it is found.
	OnViolation func(Violation)
}

// Stats counts outcomes for one relation.
type Stats struct {
	Relation   string `json:"relation"`
	Checked    int    `json:"checked"`
	Skipped    int    `json:"skipped"`
	Violations int    `json:"violations"`
}

// Report is the outcome of a [Runner.Run].
type Report struct {
	Suite      string        `json:"suite"`
	Seed       uint64        `json:"seed"`
	Cases      int           `json:"cases"`
	Stats      []Stats       `json:"stats"`
	Violations []Violation   `json:"violations,omitempty"`
	Duration   time.Duration `json:"duration_ns"`

	// Canceled is set when the context ended the run early.
	Canceled bool `json:"canceled,omitempty"`

	// Truncated is set when MaxViolations ended the run early.
	Truncated bool `json:"truncated,omitempty"`
}

// OK reports whether the run found no violations.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Checked returns the number of relation checks across all relations.
func (r Report) Checked() int {
	total := 0
	for _, s := range r.Stats {
		total += s.Checked
	}

	return total
}

// Violation is a single failed check together with everything needed to
// look at it and reproduce it.
type Violation struct {
	Suite    string `json:"suite"`
	Relation string `json:"relation"`
	Seed     uint64 `json:"seed"`

	// Case is the case index within the seed, or -1 for stream-driven cases.
	Case int `json:"case"`

	Source      any    `json:"source"`
	SourceOut   any    `json:"source_out,omitempty"`
	FollowUp    any    `json:"follow_up,omitempty"`
	FollowUpOut any    `json:"follow_up_out,omitempty"`
	Message     string `json:"message"`

	err error
}

// Err returns the underlying error, which wraps [ErrRelation], [ErrPanic]
// or [ErrExec]. It is nil for violations decoded from JSON.
func (v Violation) Err() error {
	return v.err
}

func (v Violation) String() string {
	return fmt.Sprintf("%s/%s seed=%d case=%d: %s", v.Suite, v.Relation, v.Seed, v.Case, v.Message)
}
