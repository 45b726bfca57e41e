package report

import (
	"net/http"

	"github.com/talentgrid/ctms/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("REPORT")

// Error codes
var (
	CodePDFGenerationFailed   = ErrRegistry.Register("PDF_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate PDF report")
	CodeExcelGenerationFailed = ErrRegistry.Register("EXCEL_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate Excel report")
	CodeInvalidDateRange      = ErrRegistry.Register("INVALID_DATE_RANGE", errx.TypeValidation, http.StatusBadRequest, "Invalid report date range")
)

// Helper functions
func ErrPDFGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodePDFGenerationFailed)
}

func ErrExcelGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeExcelGenerationFailed)
}

func ErrInvalidDateRange() *errx.Error {
	return ErrRegistry.New(CodeInvalidDateRange)
}
