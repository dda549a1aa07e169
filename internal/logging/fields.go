package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldAlbum is the standardized key for the album directory being processed.
	FieldAlbum = "album"
	// FieldImage is the standardized key for an image filename within an album.
	FieldImage = "image"
	// FieldStage is the standardized key for the publish state machine stage.
	FieldStage = "stage"
	// FieldRunID is the standardized key for a publish run identifier.
	FieldRunID = "run_id"
	// FieldEventType classifies a log line for filtering (e.g. "sidecar_ignored").
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
