// Package schema cross-checks notebook documents against a CUE definition
// of the nbformat 4.5 schema.
//
// The check is structural only. It does not know about cell id or name
// uniqueness, which the nbformat package enforces.
package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed notebook.cue
var notebookCUE string

// Issue is one schema violation.
type Issue struct {
	// Path uses the same form as nbformat violations, e.g. cells[0].source.
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Checker holds a compiled schema.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so Check
// serializes callers with an internal mutex.
type Checker struct {
	mu       sync.Mutex
	ctx      *cue.Context
	notebook cue.Value
}

// New compiles the embedded schema.
func New() (*Checker, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(notebookCUE, cue.Filename("notebook.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	def := v.LookupPath(cue.ParsePath("#Notebook"))
	if !def.Exists() {
		return nil, fmt.Errorf("compile schema: #Notebook not defined")
	}
	return &Checker{ctx: ctx, notebook: def}, nil
}

// Check unifies JSON text with #Notebook and returns every violation.
// The error is non-nil only when data is not JSON.
func (c *Checker) Check(data []byte) ([]Issue, error) {
	expr, err := cuejson.Extract("notebook.ipynb", data)
	if err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	err = c.notebook.Unify(doc).Validate(cue.Concrete(true))
	return issues(err), nil
}

// Check compiles the schema and checks data against it.
func Check(data []byte) ([]Issue, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	return c.Check(data)
}

// issues flattens a CUE error list, dropping exact duplicates that
// disjunctions tend to produce.
func issues(err error) []Issue {
	if err == nil {
		return nil
	}

	var out []Issue
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		issue := Issue{
			Path:    formatPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
		}
		if !slices.Contains(out, issue) {
			out = append(out, issue)
		}
	}
	if len(out) == 0 {
		out = append(out, Issue{Message: err.Error()})
	}
	return out
}

// formatPath renders CUE selectors as cells[0].metadata.tags.
func formatPath(selectors []string) string {
	var b strings.Builder
	for _, sel := range selectors {
		if _, err := strconv.Atoi(sel); err == nil {
			b.WriteString("[" + sel + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strings.Trim(sel, `"`))
	}
	return b.String()
}
