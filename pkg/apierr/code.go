package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// Document errors.
const (
	CodeDocumentNotFound    Code = "DOCUMENT_NOT_FOUND"
	CodeInvalidPath         Code = "INVALID_PATH"
	CodeDocumentListFailed  Code = "DOCUMENT_LIST_FAILED"
	CodeDocumentReadFailed  Code = "DOCUMENT_READ_FAILED"
	CodeDocumentWriteFailed Code = "DOCUMENT_WRITE_FAILED"
	CodeVersionConflict     Code = "VERSION_CONFLICT"
	CodeParseFailed         Code = "PARSE_FAILED"
)

// Edit errors.
const (
	CodeInvalidEditOp       Code = "INVALID_EDIT_OP"
	CodeStatementOutOfRange Code = "STATEMENT_OUT_OF_RANGE"
	CodeRowOutOfRange       Code = "ROW_OUT_OF_RANGE"
	CodeColumnOutOfRange    Code = "COLUMN_OUT_OF_RANGE"
	CodeWrongStatementKind  Code = "WRONG_STATEMENT_KIND"
	CodeEmptyColumnName     Code = "EMPTY_COLUMN_NAME"
	CodeDuplicateColumn     Code = "DUPLICATE_COLUMN"
	CodeWhereRejected       Code = "WHERE_REJECTED"
)

// Revision errors.
const (
	CodeRevisionListFailed Code = "REVISION_LIST_FAILED"
)

// Workspace errors.
const (
	CodeFileRequired          Code = "FILE_REQUIRED"
	CodeWorkspaceImportFailed Code = "WORKSPACE_IMPORT_FAILED"
	CodeWorkspaceExportFailed Code = "WORKSPACE_EXPORT_FAILED"
)

// Auth errors.
const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
)

// Health errors.
const (
	CodeWorkspaceNotReady Code = "WORKSPACE_NOT_READY"
)
