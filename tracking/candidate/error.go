package candidate

import (
	"net/http"

	"github.com/talentgrid/ctms/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CANDIDATE")

// Error codes
var (
	CodeCandidateNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate not found")
	CodeCandidateAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusBadRequest, "Candidate already exists in system")
	CodeEmailAlreadyExists     = ErrRegistry.Register("EMAIL_ALREADY_EXISTS", errx.TypeConflict, http.StatusBadRequest, "Email already exists in system")
	CodeMissingRequiredFields  = ErrRegistry.Register("MISSING_REQUIRED_FIELDS", errx.TypeValidation, http.StatusBadRequest, "First name, last name, email, and position are required")
	CodeInvalidEmail           = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Invalid email format")
	CodeInvalidStatus          = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid candidate status")
	CodeInvalidRequest         = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeScanCriteriaRequired   = ErrRegistry.Register("SCAN_CRITERIA_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Email or phone is required for scanning")
	CodeNoCandidatesSelected   = ErrRegistry.Register("NO_CANDIDATES_SELECTED", errx.TypeValidation, http.StatusBadRequest, "No candidates selected")
	CodeHasInterviews          = ErrRegistry.Register("HAS_INTERVIEWS", errx.TypeBusiness, http.StatusBadRequest, "Cannot delete candidate with existing interviews. Please cancel interviews first.")
	CodeCVNotFound             = ErrRegistry.Register("CV_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "No CV on file for this candidate")
	CodeCVInvalidType          = ErrRegistry.Register("CV_INVALID_TYPE", errx.TypeValidation, http.StatusBadRequest, "Only PDF files are accepted")
	CodeCVTooLarge             = ErrRegistry.Register("CV_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "CV exceeds the 10MB size limit")
	CodeExportFailed           = ErrRegistry.Register("EXPORT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to export candidates")
)

// Helper functions
func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrCandidateAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeCandidateAlreadyExists)
}

func ErrEmailAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeEmailAlreadyExists)
}

func ErrMissingRequiredFields() *errx.Error {
	return ErrRegistry.New(CodeMissingRequiredFields)
}

func ErrInvalidEmail() *errx.Error {
	return ErrRegistry.New(CodeInvalidEmail)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrScanCriteriaRequired() *errx.Error {
	return ErrRegistry.New(CodeScanCriteriaRequired)
}

func ErrNoCandidatesSelected() *errx.Error {
	return ErrRegistry.New(CodeNoCandidatesSelected)
}

func ErrHasInterviews() *errx.Error {
	return ErrRegistry.New(CodeHasInterviews)
}

func ErrCVNotFound() *errx.Error {
	return ErrRegistry.New(CodeCVNotFound)
}

func ErrCVInvalidType() *errx.Error {
	return ErrRegistry.New(CodeCVInvalidType)
}

func ErrCVTooLarge() *errx.Error {
	return ErrRegistry.New(CodeCVTooLarge)
}

func ErrExportFailed() *errx.Error {
	return ErrRegistry.New(CodeExportFailed)
}
