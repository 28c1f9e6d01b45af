package conformance

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/nbformat/internal/nbformat"
)

// Run executes a case and returns its result.
//
// A clean parse must be expected valid, and its serialized form must parse
// back and serialize to the same bytes. A failed parse must report exactly the
// expected violations. Returns error only if the case itself is unusable.
func Run(c *Case) (*Result, error) {
	return RunWithLogger(c, slog.Default())
}

// RunWithLogger is Run with an explicit logger.
func RunWithLogger(c *Case, logger *slog.Logger) (*Result, error) {
	opts, err := c.Options.parseOptions()
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", c.Name, err)
	}

	result := NewResult(c.Name)
	logger.Debug("running case", "case", c.Name, "expect_valid", c.Valid)

	nb, err := nbformat.ParseJSON([]byte(c.Notebook), opts...)
	if err != nil {
		vs, ok := nbformat.AsViolations(err)
		if !ok {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		logger.Debug("case rejected", "case", c.Name, "violations", len(vs))
		if c.Valid {
			result.AddError((&AssertionError{
				Type:     "verdict",
				Expected: "valid",
				Actual:   vs.Error(),
			}).Error())
			return result, nil
		}
		for _, e := range assertViolations(c.Violations, vs) {
			result.AddError(e.Error())
		}
		return result, nil
	}

	if !c.Valid {
		result.AddError((&AssertionError{
			Type:     "verdict",
			Expected: fmt.Sprintf("%d violation(s)", len(c.Violations)),
			Actual:   "valid",
		}).Error())
		return result, nil
	}

	out, err := nbformat.Marshal(nb)
	if err != nil {
		return nil, fmt.Errorf("case %s: serialize: %w", c.Name, err)
	}
	result.Output = out

	if err := assertRoundTrip(out); err != nil {
		result.AddError(err.Error())
	}

	return result, nil
}

// RunAll runs every case in order.
func RunAll(cases []*Case, logger *slog.Logger) ([]*Result, error) {
	results := make([]*Result, 0, len(cases))
	for _, c := range cases {
		r, err := RunWithLogger(c, logger)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// CompareGolden checks the output of a golden case against {dir}/{name}.golden.
// Results of non-golden cases are left untouched.
func CompareGolden(dir string, c *Case, r *Result) error {
	if !c.Golden || !r.Pass {
		return nil
	}
	want, err := os.ReadFile(filepath.Join(dir, c.Name+".golden"))
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, r.Output) {
		r.AddError((&AssertionError{
			Type:     "golden",
			Expected: fmt.Sprintf("%d bytes matching %s.golden", len(want), c.Name),
			Actual:   fmt.Sprintf("%d bytes that differ", len(r.Output)),
		}).Error())
	}
	return nil
}

// assertRoundTrip re-parses serializer output and checks it is a fixpoint.
func assertRoundTrip(out []byte) error {
	again, err := nbformat.ParseJSON(out)
	if err != nil {
		return &AssertionError{
			Type:     "round_trip",
			Expected: "serialized output parses",
			Actual:   err.Error(),
		}
	}
	out2, err := nbformat.Marshal(again)
	if err != nil {
		return &AssertionError{
			Type:     "round_trip",
			Expected: "re-parsed notebook serializes",
			Actual:   err.Error(),
		}
	}
	if !bytes.Equal(out, out2) {
		return &AssertionError{
			Type:     "round_trip",
			Expected: string(out),
			Actual:   string(out2),
		}
	}
	return nil
}
