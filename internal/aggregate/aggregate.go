// Package aggregate reduces a loaded dataset summary into the derived
// statistics behind every chart: per-source usage counts, actual-vs-target
// class balance, and descriptive statistics over the coverage, bounding-box,
// and channel columns.
//
// Every function here is pure: inputs are treated as read-only, outputs are
// freshly allocated, and nothing is retained between calls.
package aggregate

import "errors"

// ErrInvalidInput marks computations whose result is undefined for the given
// input, such as statistics over an empty record list. Callers distinguish
// "legitimately zero" from "undefined" with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
