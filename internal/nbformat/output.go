package nbformat

import "github.com/roach88/nbformat/internal/jsonv"

// OutputType is the output_type discriminant.
type OutputType string

// Output types. The set is closed.
const (
	OutputExecuteResult OutputType = "execute_result"
	OutputDisplayData   OutputType = "display_data"
	OutputStream        OutputType = "stream"
	OutputError         OutputType = "error"
)

// Output is one recorded result of executing a code cell.
// Only *ExecuteResult, *DisplayData, *Stream and *ErrorOutput implement it.
type Output interface {
	OutputType() OutputType
	isOutput()
}

// ExecuteResult is the value of the last expression of a code cell.
type ExecuteResult struct {
	// ExecutionCount is the prompt number; nil is written as null.
	ExecutionCount *int64
	Data           Mimebundle
	Metadata       jsonv.Object
	Extra          jsonv.Object
}

// DisplayData is rich data displayed while a code cell ran.
type DisplayData struct {
	Data     Mimebundle
	Metadata jsonv.Object
	Extra    jsonv.Object
}

// Stream is text written to a named stream, conventionally stdout or stderr.
type Stream struct {
	Name  string
	Text  Text
	Extra jsonv.Object
}

// ErrorOutput is an error raised while a code cell ran.
type ErrorOutput struct {
	Ename     string
	Evalue    string
	Traceback []string
	Extra     jsonv.Object
}

func (*ExecuteResult) OutputType() OutputType { return OutputExecuteResult }
func (*DisplayData) OutputType() OutputType   { return OutputDisplayData }
func (*Stream) OutputType() OutputType        { return OutputStream }
func (*ErrorOutput) OutputType() OutputType   { return OutputError }

func (*ExecuteResult) isOutput() {}
func (*DisplayData) isOutput()   {}
func (*Stream) isOutput()        {}
func (*ErrorOutput) isOutput()   {}
