package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldID        = "id"
	FieldCount     = "count"
	FieldGroup     = "group"
	FieldAmount    = "amount"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentSession  = "session"
	ComponentStorage  = "storage"
	ComponentAutosave = "autosave"
)
