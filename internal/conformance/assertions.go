package conformance

import (
	"fmt"
	"strings"

	"github.com/roach88/nbformat/internal/nbformat"
)

// AssertionError is returned when a case expectation fails.
type AssertionError struct {
	Type     string // verdict, violations or round_trip
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// matches reports whether a reported violation satisfies an expectation.
func (e ExpectedViolation) matches(v nbformat.Violation) bool {
	if e.Code != v.Code || e.Path != v.Path {
		return false
	}
	return e.Related == "" || e.Related == v.Related
}

// assertViolations checks that got and want describe the same multiset of
// violations. Order is ignored; each reported violation satisfies at most one
// expectation.
func assertViolations(want []ExpectedViolation, got nbformat.Violations) []error {
	used := make([]bool, len(got))
	var errs []error

	for _, w := range want {
		found := false
		for i, v := range got {
			if !used[i] && w.matches(v) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, &AssertionError{
				Type:     "violations",
				Expected: w.String(),
				Actual:   "not reported",
			})
		}
	}

	for i, v := range got {
		if !used[i] {
			errs = append(errs, &AssertionError{
				Type:     "violations",
				Expected: "no further violations",
				Actual:   v.Error(),
			})
		}
	}

	return errs
}
