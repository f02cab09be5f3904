package ytdlp

// ToolError is returned when the extraction tool exits nonzero. Message
// carries the tool's stderr output so callers can surface it for
// debuggability.
type ToolError struct {
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

// MetadataError is returned when the tool ran but its metadata dump was
// unparseable or incomplete. It is distinct from ToolError so callers can
// tell "tool failed" from "tool returned incomplete data".
type MetadataError struct {
	Reason string
}

func (e *MetadataError) Error() string {
	return e.Reason
}
