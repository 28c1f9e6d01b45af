package conformance

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a case and, for golden cases, compares the serializer
// output against testdata/golden/{case.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/conformance -update
//
// Returns error if the case cannot be run.
// Test failure (via goldie) occurs if the output doesn't match the golden file.
func RunWithGolden(t *testing.T, c *Case) (*Result, error) {
	t.Helper()

	result, err := Run(c)
	if err != nil {
		return nil, err
	}

	if c.Golden && result.Pass {
		AssertGolden(t, c.Name, result.Output)
	}

	return result, nil
}

// AssertGolden compares data against testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
