package nbformat

import (
	"fmt"
	"time"

	"github.com/roach88/nbformat/internal/jsonv"
)

// NotebookMetadata is the root-level metadata.
// Optional fields are nil when absent. Unknown keys live in Extra.
type NotebookMetadata struct {
	Kernelspec   *Kernelspec
	LanguageInfo *LanguageInfo
	// OrigNbformat is the major version before conversion. It should never
	// be written to a file by converters, but it is preserved when present.
	OrigNbformat *int64
	Title        *string
	Authors      jsonv.Array
	Extra        jsonv.Object
}

// Kernelspec names the kernel a notebook was written for.
type Kernelspec struct {
	Name        string
	DisplayName string
	Extra       jsonv.Object
}

// LanguageInfo describes the language the kernel runs.
type LanguageInfo struct {
	Name string
	// CodemirrorMode is a jsonv.String or a jsonv.Object; nil when absent.
	CodemirrorMode jsonv.Value
	FileExtension  *string
	Mimetype       *string
	PygmentsLexer  *string
	Extra          jsonv.Object
}

// CellMetadata holds the metadata keys shared by every cell type.
type CellMetadata struct {
	// Name must be non-empty and unique across the notebook when set.
	Name *string
	// Tags must be unique and must not contain commas. nil means absent;
	// an empty non-nil slice is written as [].
	Tags []string
	// Jupyter is the official Jupyter metadata namespace.
	Jupyter jsonv.Object
	Extra   jsonv.Object
}

// RawCellMetadata is the metadata of a raw cell.
type RawCellMetadata struct {
	CellMetadata
	// Format is the target nbconvert format hint, e.g. "text/latex".
	Format *string
}

// CodeCellMetadata is the metadata of a code cell.
type CodeCellMetadata struct {
	CellMetadata
	Execution *Execution
	Collapsed *bool
	Scrolled  *Scrolled
}

// Scrolled is the scroll state of a code cell's output area.
type Scrolled int

// Scroll states. On the wire they are false, true and "auto".
const (
	ScrolledFalse Scrolled = iota
	ScrolledTrue
	ScrolledAuto
)

func (s Scrolled) value() jsonv.Value {
	switch s {
	case ScrolledTrue:
		return jsonv.Bool(true)
	case ScrolledAuto:
		return jsonv.String("auto")
	default:
		return jsonv.Bool(false)
	}
}

// Execution keys recorded from kernel messages.
const (
	ExecIopubExecuteInput = "iopub.execute_input"
	ExecIopubStatusBusy   = "iopub.status.busy"
	ExecShellExecuteReply = "shell.execute_reply"
	ExecIopubStatusIdle   = "iopub.status.idle"
)

var executionKeys = []string{
	ExecIopubExecuteInput,
	ExecIopubStatusBusy,
	ExecShellExecuteReply,
	ExecIopubStatusIdle,
}

// Execution records kernel lifecycle timestamps for a code cell.
// Known keys are ISO 8601 strings; other keys are kept in Extra.
type Execution struct {
	Times map[string]string
	Extra jsonv.Object
}

// Time parses the named timestamp.
// ok is false when the key is absent.
func (e *Execution) Time(key string) (t time.Time, ok bool, err error) {
	s, ok := e.Times[key]
	if !ok {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("execution %s: %w", key, err)
	}
	return t, true, nil
}
