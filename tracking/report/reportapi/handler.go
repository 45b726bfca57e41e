package reportapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentgrid/ctms/pkg/iam/auth"
	"github.com/talentgrid/ctms/tracking/report"
	"github.com/talentgrid/ctms/tracking/report/reportsrv"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handlers provides HTTP handlers for dashboard and report operations
type Handlers struct {
	service *reportsrv.ReportService
}

func NewHandlers(service *reportsrv.ReportService) *Handlers {
	return &Handlers{service: service}
}

// GetDashboard returns the landing page counters
// GET /api/reports/dashboard
func (h *Handlers) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.service.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GetAnalytics returns activity counts for a rolling window
// GET /api/reports/analytics
func (h *Handlers) GetAnalytics(c *fiber.Ctx) error {
	resp, err := h.service.Analytics(c.Context(), c.Query("time_range", "monthly"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCandidateReport lists candidates created inside a date range
// GET /api/reports/candidates
func (h *Handlers) GetCandidateReport(c *fiber.Ctx) error {
	rng, err := parseDateRange(c)
	if err != nil {
		return err
	}

	resp, err := h.service.CandidateActivity(c.Context(), rng, c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": resp.Count, "candidates": resp.Candidates})
}

// GetInterviewReport lists interviews dated inside a date range
// GET /api/reports/interviews
func (h *Handlers) GetInterviewReport(c *fiber.Ctx) error {
	rng, err := parseDateRange(c)
	if err != nil {
		return err
	}

	resp, err := h.service.InterviewActivity(c.Context(), rng, c.Query("interview_type"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": resp.Count, "interviews": resp.Interviews})
}

// GetRejectedReport lists rejected and terminated candidates
// GET /api/reports/rejected
func (h *Handlers) GetRejectedReport(c *fiber.Ctx) error {
	resp, err := h.service.RejectedCandidates(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": resp.Count, "rejected_candidates": resp.Candidates})
}

// DownloadCandidatesPDF streams the candidate report as PDF
// GET /api/reports/candidates/pdf
func (h *Handlers) DownloadCandidatesPDF(c *fiber.Ctx) error {
	data, err := h.service.CandidatesPDF(c.Context())
	if err != nil {
		return err
	}
	return sendDocument(c, contentTypePDF, "Candidates_Details_Report.pdf", data)
}

// DownloadCandidatesExcel streams the candidate report as XLSX
// GET /api/reports/candidates/excel
func (h *Handlers) DownloadCandidatesExcel(c *fiber.Ctx) error {
	data, err := h.service.CandidatesExcel(c.Context())
	if err != nil {
		return err
	}
	return sendDocument(c, contentTypeXLSX, "Candidates_Report.xlsx", data)
}

// DownloadInterviewsPDF streams the interview report as PDF
// GET /api/reports/interviews/pdf
func (h *Handlers) DownloadInterviewsPDF(c *fiber.Ctx) error {
	data, err := h.service.InterviewsPDF(c.Context())
	if err != nil {
		return err
	}
	return sendDocument(c, contentTypePDF, "Interviews_Details_Report.pdf", data)
}

// DownloadInterviewsExcel streams the interview report as XLSX
// GET /api/reports/interviews/excel
func (h *Handlers) DownloadInterviewsExcel(c *fiber.Ctx) error {
	data, err := h.service.InterviewsExcel(c.Context())
	if err != nil {
		return err
	}
	return sendDocument(c, contentTypeXLSX, "Interviews_Report.xlsx", data)
}

func sendDocument(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func parseDateRange(c *fiber.Ctx) (report.DateRange, error) {
	var rng report.DateRange
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, report.ErrInvalidDateRange().WithDetail("start_date", raw)
		}
		rng.Start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, report.ErrInvalidDateRange().WithDetail("end_date", raw)
		}
		rng.End = parsed
	}
	return rng, nil
}

// RegisterRoutes registers all report routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/reports", authMiddleware.Authenticate())

	api.Get("/dashboard", handlers.GetDashboard)
	api.Get("/analytics", handlers.GetAnalytics)
	api.Get("/candidates", handlers.GetCandidateReport)
	api.Get("/candidates/pdf", handlers.DownloadCandidatesPDF)
	api.Get("/candidates/excel", handlers.DownloadCandidatesExcel)
	api.Get("/interviews", handlers.GetInterviewReport)
	api.Get("/interviews/pdf", handlers.DownloadInterviewsPDF)
	api.Get("/interviews/excel", handlers.DownloadInterviewsExcel)
	api.Get("/rejected", handlers.GetRejectedReport)
}
