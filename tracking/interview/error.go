package interview

import (
	"net/http"

	"github.com/talentgrid/ctms/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("INTERVIEW")

// Error codes
var (
	CodeInterviewNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Interview not found")
	CodeHasFeedback       = ErrRegistry.Register("HAS_FEEDBACK", errx.TypeBusiness, http.StatusBadRequest, "Cannot delete completed interviews with feedback. Cancel instead.")
	CodeNotScheduled      = ErrRegistry.Register("NOT_SCHEDULED", errx.TypeBusiness, http.StatusBadRequest, "Only scheduled interviews can be marked as no-show")
	CodeInvalidType       = ErrRegistry.Register("INVALID_TYPE", errx.TypeValidation, http.StatusBadRequest, "Invalid interview type")
	CodeInvalidOutcome    = ErrRegistry.Register("INVALID_OUTCOME", errx.TypeValidation, http.StatusBadRequest, "Invalid interview outcome")
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeDateRequired      = ErrRegistry.Register("DATE_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Interview date is required")
)

// Helper functions
func ErrInterviewNotFound() *errx.Error {
	return ErrRegistry.New(CodeInterviewNotFound)
}

func ErrHasFeedback() *errx.Error {
	return ErrRegistry.New(CodeHasFeedback)
}

func ErrNotScheduled() *errx.Error {
	return ErrRegistry.New(CodeNotScheduled)
}

func ErrInvalidType() *errx.Error {
	return ErrRegistry.New(CodeInvalidType)
}

func ErrInvalidOutcome() *errx.Error {
	return ErrRegistry.New(CodeInvalidOutcome)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrDateRequired() *errx.Error {
	return ErrRegistry.New(CodeDateRequired)
}
