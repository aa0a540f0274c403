package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain.
const (
	// FieldRunID identifies one extraction run of the batch process
	FieldRunID = "run_id"

	// FieldDocumentID is the database ID of the document being processed
	FieldDocumentID = "document_id"

	// FieldOCRJobID is the job ID returned by the text-detection service
	FieldOCRJobID = "ocr_job_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Standard metric fields used for aggregation.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"
)
