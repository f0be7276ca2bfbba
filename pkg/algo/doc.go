// Package algo contains the classic algorithms exercised by the metamorphic
// suites: searching, sorting, string distance, shortest paths and two small
// puzzles.
//
// Every function is single-threaded and keeps no state between calls.
// Functions that rewrite their arguments in place say so in their doc.
package algo
