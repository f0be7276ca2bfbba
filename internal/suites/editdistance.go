package suites

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// PairInput is the pair of strings whose distance is measured.
type PairInput struct {
	A string `json:"a"`
	B string `json:"b"`
}

const maxWordLen = 12

// A small alphabet makes shared characters likely; the accented runes
// exercise rune (not byte) counting.
var alphabet = []rune("abcdeéü")

type pairRelation = mr.Relation[PairInput, int]

// EditDistance returns the suite for [algo.EditDistance].
func EditDistance() *mr.Suite[PairInput, int] {
	return &mr.Suite[PairInput, int]{
		Name: "editdistance",
		Doc:  "Levenshtein distance between two strings",
		Generate: func(src mr.Source) PairInput {
			return PairInput{A: randomWord(src, maxWordLen), B: randomWord(src, maxWordLen)}
		},
		Exec: func(in PairInput) (int, error) {
			return algo.EditDistance(in.A, in.B), nil
		},
		Clone: func(in PairInput) PairInput { return in },
		Relations: []pairRelation{
			{
				Name: "symmetry",
				Doc:  "swapping the strings keeps the distance",
				Transform: func(_ mr.Source, in PairInput) (PairInput, bool) {
					return PairInput{A: in.B, B: in.A}, true
				},
				Check: sameDistance,
			},
			{
				Name: "self",
				Doc:  "a string is at distance 0 from itself, and only equal strings are at distance 0",
				Transform: func(_ mr.Source, in PairInput) (PairInput, bool) {
					return PairInput{A: in.A, B: in.A}, true
				},
				Check: func(c mr.Case[PairInput, int]) error {
					if err := mr.Equal(0, c.FollowUpOut); err != nil {
						return err
					}

					return mr.Expect((c.SourceOut == 0) == (c.Source.A == c.Source.B),
						"distance %d for %q and %q", c.SourceOut, c.Source.A, c.Source.B)
				},
			},
			{
				Name: "common-prefix",
				Doc:  "prepending the same string to both keeps the distance",
				Transform: func(src mr.Source, in PairInput) (PairInput, bool) {
					p := randomWord(src, 6)

					return PairInput{A: p + in.A, B: p + in.B}, true
				},
				Check: sameDistance,
			},
			{
				Name: "common-suffix",
				Doc:  "appending the same string to both keeps the distance",
				Transform: func(src mr.Source, in PairInput) (PairInput, bool) {
					s := randomWord(src, 6)

					return PairInput{A: in.A + s, B: in.B + s}, true
				},
				Check: sameDistance,
			},
			{
				Name: "reverse",
				Doc:  "reversing both strings keeps the distance",
				Transform: func(_ mr.Source, in PairInput) (PairInput, bool) {
					return PairInput{A: reverseString(in.A), B: reverseString(in.B)}, true
				},
				Check: sameDistance,
			},
			{
				Name: "append-char",
				Doc:  "appending one character to one string changes the distance by at most 1",
				Transform: func(src mr.Source, in PairInput) (PairInput, bool) {
					in.B += string(mr.Pick(src, alphabet))

					return in, true
				},
				Check: func(c mr.Case[PairInput, int]) error {
					delta := c.FollowUpOut - c.SourceOut

					return mr.Expect(delta >= -1 && delta <= 1, "distance moved from %d to %d", c.SourceOut, c.FollowUpOut)
				},
			},
			{
				Name: "rename-alphabet",
				Doc:  "renaming characters through a bijection keeps the distance",
				Transform: func(src mr.Source, in PairInput) (PairInput, bool) {
					used := slices.Compact(slices.Sorted(slices.Values([]rune(in.A + in.B))))
					perm := mr.Perm(src, len(used))

					rename := make(map[rune]rune, len(used))
					for i, r := range used {
						rename[r] = used[perm[i]]
					}

					apply := func(s string) string {
						return strings.Map(func(r rune) rune { return rename[r] }, s)
					}

					return PairInput{A: apply(in.A), B: apply(in.B)}, true
				},
				Check: sameDistance,
			},
			{
				Name: "triangle",
				Doc:  "d(a,b) <= d(a,c) + d(c,b) for a random c",
				Transform: func(src mr.Source, in PairInput) (PairInput, bool) {
					return PairInput{A: in.A, B: randomWord(src, maxWordLen)}, true
				},
				Check: func(c mr.Case[PairInput, int]) error {
					via := c.FollowUp.B
					rest := algo.EditDistance(via, c.Source.B)

					return mr.Expect(c.SourceOut <= c.FollowUpOut+rest,
						"d(a,b)=%d > d(a,c)=%d + d(c,b)=%d with c=%q", c.SourceOut, c.FollowUpOut, rest, via)
				},
			},
			{
				Name: "concat",
				Doc:  "d(a+x, b+y) <= d(a,b) + d(x,y)",
				Transform: func(src mr.Source, in PairInput) (PairInput, bool) {
					x, y := randomWord(src, 6), randomWord(src, 6)

					return PairInput{A: in.A + x, B: in.B + y}, true
				},
				Check: func(c mr.Case[PairInput, int]) error {
					x := c.FollowUp.A[len(c.Source.A):]
					y := c.FollowUp.B[len(c.Source.B):]
					tail := algo.EditDistance(x, y)

					return mr.Expect(c.FollowUpOut <= c.SourceOut+tail,
						"d(a+x,b+y)=%d > d(a,b)=%d + d(x,y)=%d", c.FollowUpOut, c.SourceOut, tail)
				},
			},
			{
				Name: "empty-b",
				Doc:  "distance to the empty string is the length, and bounds the source distance",
				Transform: func(_ mr.Source, in PairInput) (PairInput, bool) {
					return PairInput{A: in.A}, true
				},
				Check: func(c mr.Case[PairInput, int]) error {
					la := utf8.RuneCountInString(c.Source.A)
					lb := utf8.RuneCountInString(c.Source.B)

					if err := mr.Equal(la, c.FollowUpOut); err != nil {
						return err
					}

					return mr.Expect(c.SourceOut >= abs(la-lb) && c.SourceOut <= max(la, lb),
						"distance %d outside [%d, %d]", c.SourceOut, abs(la-lb), max(la, lb))
				},
			},
		},
	}
}

func sameDistance(c mr.Case[PairInput, int]) error {
	return mr.Equal(c.SourceOut, c.FollowUpOut)
}

func randomWord(src mr.Source, maxLen int) string {
	n := src.IntN(maxLen + 1)

	var b strings.Builder
	for range n {
		b.WriteRune(mr.Pick(src, alphabet))
	}

	return b.String()
}

func reverseString(s string) string {
	return string(reversed([]rune(s)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
