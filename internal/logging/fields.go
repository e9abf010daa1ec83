package logging

// Structured log keys.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldAddr     = "addr"
	FieldURL      = "url"
	FieldStatus   = "status"
	FieldDuration = "duration"
	FieldVersion  = "version"
	FieldCommit   = "commit"
	FieldBuilt    = "built"

	// Diff fields.
	FieldCurrent    = "current"
	FieldPrevious   = "previous"
	FieldOperations = "operations"
	FieldMarkers    = "markers"

	// Fetch fields.
	FieldBlobID   = "blob_id"
	FieldCacheHit = "cache_hit"
	FieldQuery    = "query"
	FieldItems    = "items"
)
