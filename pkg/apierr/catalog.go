package apierr

import (
	"fmt"
	"net/http"
)

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

// --- Document ---

func DocumentNotFound(path string) *Error {
	return New(CodeDocumentNotFound, http.StatusNotFound, "Document not found: "+path)
}

func InvalidPath(path string) *Error {
	return New(CodeInvalidPath, http.StatusBadRequest, "Invalid document path: "+path)
}

func DocumentListFailed(cause error) *Error {
	return Wrap(CodeDocumentListFailed, http.StatusInternalServerError, "Failed to list documents", cause)
}

func DocumentReadFailed(cause error) *Error {
	return Wrap(CodeDocumentReadFailed, http.StatusInternalServerError, "Failed to read document", cause)
}

func DocumentWriteFailed(cause error) *Error {
	return Wrap(CodeDocumentWriteFailed, http.StatusInternalServerError, "Failed to write document", cause)
}

func VersionConflict(path string) *Error {
	return New(CodeVersionConflict, http.StatusConflict, "Document changed since it was loaded: "+path)
}

func ParseFailed(cause error) *Error {
	return Wrap(CodeParseFailed, http.StatusUnprocessableEntity, "Failed to parse document", cause)
}

// --- Edit ---

func InvalidEditOp(op string) *Error {
	return New(CodeInvalidEditOp, http.StatusBadRequest, "Unknown edit operation: "+op)
}

func StatementOutOfRange(idx int) *Error {
	return New(CodeStatementOutOfRange, http.StatusBadRequest, fmt.Sprintf("Statement index %d out of range", idx))
}

func RowOutOfRange(idx int) *Error {
	return New(CodeRowOutOfRange, http.StatusBadRequest, fmt.Sprintf("Row index %d out of range", idx))
}

func ColumnOutOfRange(idx int) *Error {
	return New(CodeColumnOutOfRange, http.StatusBadRequest, fmt.Sprintf("Column index %d out of range", idx))
}

func WrongStatementKind(op, kind string) *Error {
	return New(CodeWrongStatementKind, http.StatusBadRequest, op+" does not apply to "+kind+" statements")
}

func EmptyColumnName() *Error {
	return New(CodeEmptyColumnName, http.StatusBadRequest, "Column name is required")
}

func DuplicateColumn(name string) *Error {
	return New(CodeDuplicateColumn, http.StatusBadRequest, "Column already exists: "+name)
}

func WhereRejected(cause error) *Error {
	return Wrap(CodeWhereRejected, http.StatusBadRequest, "WHERE clause failed validation", cause)
}

// --- Revision ---

func RevisionListFailed(cause error) *Error {
	return Wrap(CodeRevisionListFailed, http.StatusInternalServerError, "Failed to list revisions", cause)
}

// --- Workspace ---

func FileRequired() *Error {
	return New(CodeFileRequired, http.StatusBadRequest, "File is required (multipart field 'file')")
}

func WorkspaceImportFailed(cause error) *Error {
	return Wrap(CodeWorkspaceImportFailed, http.StatusInternalServerError, "Failed to import workspace archive", cause)
}

func WorkspaceExportFailed(cause error) *Error {
	return Wrap(CodeWorkspaceExportFailed, http.StatusInternalServerError, "Failed to export workspace archive", cause)
}

// --- Auth ---

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, http.StatusForbidden, message)
}

// --- Health ---

func WorkspaceNotReady() *Error {
	return New(CodeWorkspaceNotReady, http.StatusServiceUnavailable, "Workspace not ready")
}
