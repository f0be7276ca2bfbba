// Package mr runs metamorphic relations against an algorithm.
//
// A [Suite] bundles an algorithm with a generator for valid inputs and a
// list of [Relation]s. For every generated source input the harness derives
// a follow-up input per relation, runs the algorithm on both and asks the
// relation whether the two outputs are consistent.
//
// # Reproducing a failure
//
// Case i of a run with seed s draws its input from a PCG stream keyed by
// (s, i). Each relation's transform draws from its own stream keyed by the
// relation name, so narrowing a run to one relation replays the exact same
// inputs:
//
//	r := suites.Lookup("binarysearch")
//	v, err := r.Replay("prepend-smaller", seed, caseIndex)
//
// # Fuzzing
//
// [Runner.RunStream] drives a whole case from a [ByteStream] instead of a
// PCG stream, which lets go test -fuzz explore inputs directly.
package mr
