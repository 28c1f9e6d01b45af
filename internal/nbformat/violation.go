package nbformat

import (
	"errors"
	"fmt"
	"strings"
)

// Kind groups violations by the rule family they break.
type Kind string

// Violation kinds.
const (
	// StructuralError: required field missing or a value of the wrong JSON type.
	StructuralError Kind = "StructuralError"
	// DiscriminantError: cell_type or output_type outside the closed set.
	DiscriminantError Kind = "DiscriminantError"
	// UniquenessError: duplicate cell id or name, duplicate or comma-containing tag.
	UniquenessError Kind = "UniquenessError"
	// EncodingError: a text field is neither a string nor a list of strings.
	EncodingError Kind = "EncodingError"
)

// Violation codes (E100-E139)
const (
	// Structural (E100-E109)
	ErrNilValue        = "E100" // nil cell or output in a constructed notebook
	ErrMissingField    = "E101" // required field absent
	ErrWrongType       = "E102" // field has the wrong JSON type
	ErrNegativeVersion = "E103" // nbformat or nbformat_minor below zero
	ErrForeignField    = "E104" // field belongs to another cell type
	ErrEmptyName       = "E105" // metadata.name is the empty string
	ErrShadowedField   = "E106" // Extra key collides with a recognized field

	// Discriminant (E110-E119)
	ErrUnknownCellType   = "E110" // cell_type not raw, markdown or code
	ErrUnknownOutputType = "E111" // output_type not in the closed set

	// Uniqueness (E120-E129)
	ErrDuplicateCellID   = "E120" // two cells share an id
	ErrDuplicateCellName = "E121" // two cells share metadata.name
	ErrDuplicateTag      = "E122" // a tag repeats within one cell
	ErrCommaInTag        = "E123" // a tag contains ","

	// Encoding (E130-E139)
	ErrBadText = "E130" // dual-encoding field is not a string or list of strings
)

// KindOf returns the kind a violation code belongs to.
func KindOf(code string) Kind {
	switch code {
	case ErrUnknownCellType, ErrUnknownOutputType:
		return DiscriminantError
	case ErrDuplicateCellID, ErrDuplicateCellName, ErrDuplicateTag, ErrCommaInTag:
		return UniquenessError
	case ErrBadText:
		return EncodingError
	default:
		return StructuralError
	}
}

// Violation is one broken rule, located by path.
type Violation struct {
	Kind Kind   `json:"kind"`
	Code string `json:"code"`
	// Path locates the offending value, e.g. cells[3].metadata.tags[1].
	Path string `json:"path"`
	// Related is the path of the earlier value a uniqueness violation collides with.
	Related string `json:"related,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	path := v.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("[%s] %s: %s", v.Code, path, v.Message)
}

// Violations is the complete list of violations found in one document.
type Violations []Violation

// Error implements the error interface by listing every violation.
func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d violation(s): %s", len(vs), strings.Join(msgs, "; "))
}

// OfKind returns the violations of the given kind.
func (vs Violations) OfKind(kind Kind) Violations {
	var out Violations
	for _, v := range vs {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether any violation carries code at path.
// An empty path matches any path.
func (vs Violations) Has(code, path string) bool {
	for _, v := range vs {
		if v.Code == code && (path == "" || v.Path == path) {
			return true
		}
	}
	return false
}

// AsViolations extracts the violation list from err.
func AsViolations(err error) (Violations, bool) {
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}

// collector accumulates violations; it never stops at the first one.
type collector struct {
	errs Violations
}

func (c *collector) add(code, path, format string, args ...any) {
	c.errs = append(c.errs, Violation{
		Kind:    KindOf(code),
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *collector) addRelated(code, path, related, format string, args ...any) {
	c.errs = append(c.errs, Violation{
		Kind:    KindOf(code),
		Code:    code,
		Path:    path,
		Related: related,
		Message: fmt.Sprintf(format, args...),
	})
}

// checkUnique reports every entry whose key was already seen, pointing
// Related at the first occurrence.
func (c *collector) checkUnique(entries []keyed, code, what string) {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if first, dup := seen[e.key]; dup {
			c.addRelated(code, e.path, first, "duplicate %s %q at %s (first used at %s)", what, e.key, e.path, first)
			continue
		}
		seen[e.key] = e.path
	}
}

// checkTags enforces the tag rules within one cell.
func (c *collector) checkTags(tags []keyed) {
	for _, t := range tags {
		if strings.Contains(t.key, ",") {
			c.add(ErrCommaInTag, t.path, "tag %q must not contain a comma", t.key)
		}
	}
	c.checkUnique(tags, ErrDuplicateTag, "tag")
}

// field and index build violation paths. Keys that would make the path
// ambiguous (mime types, execution keys) are written in bracket form.
func field(parent, name string) string {
	if name == "" || strings.ContainsAny(name, ".[]\"") {
		return fmt.Sprintf("%s[%q]", parent, name)
	}
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func index(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
