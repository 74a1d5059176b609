package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed path id
	ValidationInvalidField  = "VALIDATION_INVALID_FIELD"  // unknown variant field
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // value of the wrong type
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required item

	// ==================== Sessions (SESSION_) ====================
	SessionNotFound = "SESSION_NOT_FOUND"

	// ==================== Import (IMPORT_) ====================
	ImportInvalidSheet = "IMPORT_INVALID_SHEET"
	ImportFileTooLarge = "IMPORT_FILE_TOO_LARGE"
	ImportRejected     = "IMPORT_REJECTED" // too many combinations

	// ==================== Export (EXPORT_) ====================
	ExportStorageDisabled = "EXPORT_STORAGE_DISABLED"
	ExportFailed          = "EXPORT_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // object storage unreachable
)
