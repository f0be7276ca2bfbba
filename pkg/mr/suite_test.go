package mr_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mrsuite/pkg/mr"
)

var violationOpts = []cmp.Option{
	cmp.AllowUnexported(mr.Violation{}),
	cmp.Comparer(func(a, b error) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}

		return a.Error() == b.Error()
	}),
}

func sum(in []int) (int, error) {
	total := 0
	for _, v := range in {
		total += v
	}

	return total, nil
}

func sumSuite() *mr.Suite[[]int, int] {
	return &mr.Suite[[]int, int]{
		Name: "sum",
		Doc:  "sum of a slice",
		Generate: func(src mr.Source) []int {
			s := make([]int, src.IntN(8))
			for i := range s {
				s[i] = mr.IntRange(src, -50, 50)
			}

			return s
		},
		Exec:  sum,
		Clone: slices.Clone[[]int],
		Relations: []mr.Relation[[]int, int]{
			{
				Name: "permute",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					mr.Shuffle(src, len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })

					return in, true
				},
				Check: func(c mr.Case[[]int, int]) error {
					return mr.Equal(c.SourceOut, c.FollowUpOut)
				},
			},
			{
				Name: "non-empty-only",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return in, len(in) > 0
				},
				Check: func(c mr.Case[[]int, int]) error {
					return mr.Equal(c.SourceOut, c.FollowUpOut)
				},
			},
			{
				Name: "wrong-append-one",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return append(in, 1), true
				},
				Check: func(c mr.Case[[]int, int]) error {
					return mr.Expect(c.SourceOut == c.FollowUpOut, "sum changed from %d to %d", c.SourceOut, c.FollowUpOut)
				},
			},
		},
	}
}

func Test_Suite_Counts_Checked_And_Skipped_When_Run(t *testing.T) {
	t.Parallel()

	report := sumSuite().Run(context.Background(), mr.Options{
		Cases:     200,
		Seed:      7,
		Relations: []string{"permute", "non-empty-only"},
	})

	require.True(t, report.OK(), "violations: %v", report.Violations)
	require.Equal(t, 200, report.Cases)
	require.Len(t, report.Stats, 2)

	assert.Equal(t, 200, report.Stats[0].Checked)
	assert.Equal(t, 0, report.Stats[0].Skipped)
	assert.Equal(t, 200, report.Stats[1].Checked+report.Stats[1].Skipped)
	assert.Positive(t, report.Stats[1].Skipped, "empty slices should be generated sometimes")
	assert.Equal(t, 200+report.Stats[1].Checked, report.Checked())
}

func Test_Suite_Reports_Violation_When_Relation_Does_Not_Hold(t *testing.T) {
	t.Parallel()

	report := sumSuite().Run(context.Background(), mr.Options{
		Cases:     10,
		Seed:      1,
		Relations: []string{"wrong-append-one"},
	})

	require.Len(t, report.Violations, 10)

	v := report.Violations[3]
	assert.Equal(t, "sum", v.Suite)
	assert.Equal(t, "wrong-append-one", v.Relation)
	assert.Equal(t, uint64(1), v.Seed)
	assert.Equal(t, 3, v.Case)
	require.ErrorIs(t, v.Err(), mr.ErrRelation)
	assert.Equal(t, v.SourceOut.(int)+1, v.FollowUpOut)
}

func Test_Suite_Stops_When_MaxViolations_Reached(t *testing.T) {
	t.Parallel()

	var seen []mr.Violation

	report := sumSuite().Run(context.Background(), mr.Options{
		Cases:         100,
		Seed:          1,
		MaxViolations: 3,
		OnViolation:   func(v mr.Violation) { seen = append(seen, v) },
	})

	require.Len(t, report.Violations, 3)
	assert.True(t, report.Truncated)
	assert.Equal(t, 3, report.Cases)

	if diff := cmp.Diff(report.Violations, seen, violationOpts...); diff != "" {
		t.Fatalf("callback saw different violations (-report +callback):\n%s", diff)
	}
}

func Test_Suite_Stops_When_Context_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := sumSuite().Run(ctx, mr.Options{Cases: 100, Seed: 1})

	assert.True(t, report.Canceled)
	assert.Equal(t, 0, report.Cases)
}

func Test_Suite_Generates_Same_Inputs_When_Relations_Filtered(t *testing.T) {
	t.Parallel()

	for i := range 5 {
		seed := uint64(100 + i)

		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			all := sumSuite().Run(context.Background(), mr.Options{Cases: 20, Seed: seed})
			one := sumSuite().Run(context.Background(), mr.Options{Cases: 20, Seed: seed, Relations: []string{"wrong-append-one"}})

			var fromAll []mr.Violation

			for _, v := range all.Violations {
				if v.Relation == "wrong-append-one" {
					fromAll = append(fromAll, v)
				}
			}

			if diff := cmp.Diff(fromAll, one.Violations, violationOpts...); diff != "" {
				t.Fatalf("filtering relations changed inputs (-all +filtered):\n%s", diff)
			}
		})
	}
}

func Test_Suite_Replay_Reproduces_Violation_When_Given_Seed_And_Case(t *testing.T) {
	t.Parallel()

	suite := sumSuite()
	report := suite.Run(context.Background(), mr.Options{Cases: 10, Seed: 42})
	require.NotEmpty(t, report.Violations)

	want := report.Violations[len(report.Violations)-1]

	got, err := suite.Replay(want.Relation, want.Seed, want.Case)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.FollowUp, got.FollowUp)
	assert.Equal(t, want.Message, got.Message)

	held, err := suite.Replay("permute", want.Seed, want.Case)
	require.NoError(t, err)
	assert.Nil(t, held)
}

func Test_Suite_Returns_ErrUnknownRelation_When_Filter_Names_Missing_Relation(t *testing.T) {
	t.Parallel()

	suite := sumSuite()

	require.ErrorIs(t, suite.Validate([]string{"permute", "nope"}), mr.ErrUnknownRelation)
	require.NoError(t, suite.Validate([]string{mr.SourceCheck, "permute"}))

	_, err := suite.Replay("nope", 1, 0)
	require.ErrorIs(t, err, mr.ErrUnknownRelation)
}

func Test_Suite_Recovers_Panic_When_Algorithm_Panics(t *testing.T) {
	t.Parallel()

	suite := sumSuite()
	suite.Exec = func(in []int) (int, error) {
		if len(in) > 3 {
			panic("too long")
		}

		return sum(in)
	}

	report := suite.Run(context.Background(), mr.Options{Cases: 50, Seed: 3, Relations: []string{"permute"}})
	require.NotEmpty(t, report.Violations)

	for _, v := range report.Violations {
		assert.Equal(t, mr.SourceCheck, v.Relation)
		require.ErrorIs(t, v.Err(), mr.ErrPanic)
		assert.Contains(t, v.Message, "too long")
	}
}

func Test_Suite_Reports_ErrExec_When_Algorithm_Rejects_Input(t *testing.T) {
	t.Parallel()

	errOdd := errors.New("odd length")

	suite := sumSuite()
	suite.Exec = func(in []int) (int, error) {
		if len(in)%2 == 1 {
			return 0, errOdd
		}

		return sum(in)
	}

	report := suite.Run(context.Background(), mr.Options{Cases: 50, Seed: 3, Relations: []string{"permute"}})
	require.NotEmpty(t, report.Violations)
	require.ErrorIs(t, report.Violations[0].Err(), mr.ErrExec)
	require.ErrorIs(t, report.Violations[0].Err(), errOdd)
}

func Test_Suite_Gives_Exec_A_Copy_When_Algorithm_Mutates_Input(t *testing.T) {
	t.Parallel()

	suite := sumSuite()
	suite.Exec = func(in []int) (int, error) {
		total, err := sum(in)
		clear(in)

		return total, err
	}

	mr.RunT(t, suite, mr.Options{Cases: 100, Seed: 9, Relations: []string{"permute", "non-empty-only"}})
}

func Test_Suite_RunStream_Is_Deterministic_When_Bytes_Equal(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 5))

	for range 20 {
		data := make([]byte, 32)
		for i := range data {
			data[i] = byte(rng.IntN(256))
		}

		a := sumSuite().RunStream(mr.NewByteStream(data), nil)
		b := sumSuite().RunStream(mr.NewByteStream(data), nil)

		require.Len(t, a, 1, "only wrong-append-one should fail")
		assert.Equal(t, -1, a[0].Case)
		assert.Equal(t, a[0].Source, b[0].Source)
		assert.Equal(t, a[0].FollowUp, b[0].FollowUp)
	}
}

func Test_Info_Lists_Relations_In_Order(t *testing.T) {
	t.Parallel()

	info := sumSuite().Info()

	want := mr.Info{
		Name: "sum",
		Doc:  "sum of a slice",
		Relations: []mr.RelationInfo{
			{Name: "permute"},
			{Name: "non-empty-only"},
			{Name: "wrong-append-one"},
		},
	}

	if diff := cmp.Diff(want, info); diff != "" {
		t.Fatalf("Info mismatch (-want +got):\n%s", diff)
	}
}
