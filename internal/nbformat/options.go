package nbformat

import "fmt"

// ForeignFieldPolicy decides what happens to a field that belongs to another
// cell type, such as outputs on a markdown cell or attachments on a code cell.
type ForeignFieldPolicy int

const (
	// ForeignReject reports each foreign field as a StructuralError.
	ForeignReject ForeignFieldPolicy = iota
	// ForeignDrop discards foreign fields. They are not preserved, since the
	// cell type cannot carry them.
	ForeignDrop
)

// String returns the policy name used in configuration files.
func (p ForeignFieldPolicy) String() string {
	switch p {
	case ForeignDrop:
		return "drop"
	default:
		return "reject"
	}
}

// ParseForeignFieldPolicy parses "reject" or "drop".
// The empty string selects ForeignReject.
func ParseForeignFieldPolicy(s string) (ForeignFieldPolicy, error) {
	switch s {
	case "", "reject":
		return ForeignReject, nil
	case "drop":
		return ForeignDrop, nil
	default:
		return ForeignReject, fmt.Errorf("invalid foreign field policy %q: must be \"reject\" or \"drop\"", s)
	}
}

type options struct {
	foreign ForeignFieldPolicy
	// ids assigns ids to cells that lack one; nil reports them instead.
	ids IDGenerator
}

// Option configures Parse.
type Option func(*options)

// WithForeignFields sets the policy for fields that belong to another cell type.
func WithForeignFields(p ForeignFieldPolicy) Option {
	return func(o *options) { o.foreign = p }
}

// WithMissingIDs assigns ids from gen to cells that have no id, as when
// reading documents written before minor version 5. Generated ids still take
// part in the uniqueness check.
func WithMissingIDs(gen IDGenerator) Option {
	return func(o *options) { o.ids = gen }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
