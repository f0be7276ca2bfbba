package mr

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Case is what a relation check sees: the source input and the follow-up
// derived from it, each with the algorithm's output. Checks must not modify
// any of the four values.
type Case[In, Out any] struct {
	Source      In
	SourceOut   Out
	FollowUp    In
	FollowUpOut Out
}

// Relation is a metamorphic relation: a rule deriving a follow-up input
// plus the property expected to hold between the two outputs.
type Relation[In, Out any] struct {
	Name string
	Doc  string

	// Transform derives the follow-up input. It receives a private copy of
	// the source input and may modify it. Returning false means the
	// relation does not apply to this input; the case is counted as skipped.
	Transform func(src Source, in In) (In, bool)

	// Check returns nil when the relation holds, otherwise an error,
	// usually from [Equal] or [Expect].
	Check func(c Case[In, Out]) error
}

// Suite ties an algorithm to its input generator and relations.
//
// Exec always receives a private copy of its input (made with Clone), so
// algorithms that work in place are safe to wrap directly.
type Suite[In, Out any] struct {
	Name string
	Doc  string

	Generate  func(src Source) In
	Exec      func(in In) (Out, error)
	Clone     func(in In) In
	Relations []Relation[In, Out]
}

var _ Runner = (*Suite[int, int])(nil)

// Info implements [Runner].
func (s *Suite[In, Out]) Info() Info {
	info := Info{Name: s.Name, Doc: s.Doc}

	for _, rel := range s.Relations {
		info.Relations = append(info.Relations, RelationInfo{Name: rel.Name, Doc: rel.Doc})
	}

	return info
}

// Validate implements [Runner].
func (s *Suite[In, Out]) Validate(relations []string) error {
	for _, name := range relations {
		if name == SourceCheck {
			continue
		}

		if !slices.ContainsFunc(s.Relations, func(r Relation[In, Out]) bool { return r.Name == name }) {
			return fmt.Errorf("%w: %s has no relation %q", ErrUnknownRelation, s.Name, name)
		}
	}

	return nil
}

// Run implements [Runner]. Relations in opts that the suite does not define
// are ignored; call Validate first to reject them.
func (s *Suite[In, Out]) Run(ctx context.Context, opts Options) Report {
	start := time.Now()
	rels := s.selected(opts.Relations)

	report := Report{
		Suite: s.Name,
		Seed:  opts.Seed,
		Stats: make([]Stats, len(rels)),
	}

	for i, rel := range rels {
		report.Stats[i].Relation = rel.Name
	}

	for caseIndex := range opts.Cases {
		if ctx.Err() != nil {
			report.Canceled = true

			break
		}

		report.Cases++

		found := s.runCase(caseSource(opts.Seed, caseIndex), rels, report.Stats, func(name string) Source {
			return relationSource(opts.Seed, caseIndex, name)
		})

		stop := false

		for _, v := range found {
			v.Seed = opts.Seed
			v.Case = caseIndex

			report.Violations = append(report.Violations, v)

			if opts.OnViolation != nil {
				opts.OnViolation(v)
			}

			if opts.MaxViolations > 0 && len(report.Violations) >= opts.MaxViolations {
				report.Truncated = true
				stop = true

				break
			}
		}

		if stop {
			break
		}
	}

	report.Duration = time.Since(start)

	return report
}

// Replay implements [Runner].
func (s *Suite[In, Out]) Replay(relation string, seed uint64, caseIndex int) (*Violation, error) {
	err := s.Validate([]string{relation})
	if err != nil {
		return nil, err
	}

	var rels []Relation[In, Out]
	if relation != SourceCheck {
		rels = s.selected([]string{relation})
	}

	stats := make([]Stats, len(rels))

	found := s.runCase(caseSource(seed, caseIndex), rels, stats, func(name string) Source {
		return relationSource(seed, caseIndex, name)
	})

	if len(found) == 0 {
		return nil, nil
	}

	v := found[0]
	v.Seed = seed
	v.Case = caseIndex

	return &v, nil
}

// RunStream implements [Runner].
func (s *Suite[In, Out]) RunStream(stream *ByteStream, relations []string) []Violation {
	rels := s.selected(relations)
	stats := make([]Stats, len(rels))

	found := s.runCase(stream, rels, stats, func(string) Source { return stream })

	for i := range found {
		found[i].Case = -1
	}

	return found
}

func (s *Suite[In, Out]) selected(names []string) []Relation[In, Out] {
	if len(names) == 0 {
		return s.Relations
	}

	var rels []Relation[In, Out]

	for _, rel := range s.Relations {
		if slices.Contains(names, rel.Name) {
			rels = append(rels, rel)
		}
	}

	return rels
}

// runCase generates one source input and checks every relation in rels
// against it. stats[i] is updated for rels[i].
func (s *Suite[In, Out]) runCase(gen Source, rels []Relation[In, Out], stats []Stats, relSource func(name string) Source) []Violation {
	var (
		in  In
		out Out
	)

	err := safely(func() error {
		in = s.Generate(gen)

		return nil
	})
	if err != nil {
		return []Violation{s.violation(SourceCheck, err, nil)}
	}

	out, err = s.exec(in)
	if err != nil {
		return []Violation{s.violation(SourceCheck, err, &Case[In, Out]{Source: in})}
	}

	var found []Violation

	for i, rel := range rels {
		c := Case[In, Out]{Source: s.Clone(in), SourceOut: out}

		var applies bool

		err := safely(func() error {
			c.FollowUp, applies = rel.Transform(relSource(rel.Name), s.Clone(in))

			return nil
		})
		if err != nil {
			stats[i].Violations++
			found = append(found, s.violation(rel.Name, err, &c))

			continue
		}

		if !applies {
			stats[i].Skipped++

			continue
		}

		c.FollowUpOut, err = s.exec(c.FollowUp)
		if err == nil {
			err = safely(func() error { return rel.Check(c) })
		}

		stats[i].Checked++

		if err != nil {
			stats[i].Violations++
			found = append(found, s.violation(rel.Name, err, &c))
		}
	}

	return found
}

func (s *Suite[In, Out]) exec(in In) (Out, error) {
	var out Out

	err := safely(func() error {
		var execErr error

		out, execErr = s.Exec(s.Clone(in))
		if execErr != nil {
			return fmt.Errorf("%w: %w", ErrExec, execErr)
		}

		return nil
	})

	return out, err
}

func (s *Suite[In, Out]) violation(relation string, err error, c *Case[In, Out]) Violation {
	v := Violation{
		Suite:    s.Name,
		Relation: relation,
		Message:  err.Error(),
		err:      err,
	}

	if c != nil {
		v.Source = c.Source
		v.SourceOut = c.SourceOut
		v.FollowUp = c.FollowUp
		v.FollowUpOut = c.FollowUpOut
	}

	return v
}

// safely runs fn and converts a panic into an error wrapping [ErrPanic].
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	return fn()
}
