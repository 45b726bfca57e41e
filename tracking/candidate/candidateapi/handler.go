package candidateapi

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/talentgrid/ctms/pkg/iam/auth"
	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/tracking/candidate"
	"github.com/talentgrid/ctms/tracking/candidate/candidatesrv"
)

// Handlers provides HTTP handlers for candidate operations
type Handlers struct {
	service *candidatesrv.CandidateService
}

func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{service: service}
}

// CreateCandidate registers a new candidate, optionally with a CV upload
// POST /api/candidates
func (h *Handlers) CreateCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	req, cv, err := parseCandidatePayload(c)
	if err != nil {
		return err
	}
	defer closeCV(cv)

	resp, err := h.service.Intake(c.Context(), req, cv, authContext.UserID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Candidate added successfully",
		"candidate": resp,
	})
}

// QuickScan checks whether a candidate exists by email or phone
// GET /api/candidates/scan
func (h *Handlers) QuickScan(c *fiber.Ctx) error {
	resp, err := h.service.QuickScan(c.Context(), c.Query("email"), c.Query("phone"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListCandidates retrieves candidates with filtering and pagination
// GET /api/candidates
func (h *Handlers) ListCandidates(c *fiber.Ctx) error {
	filters := candidate.ListFilters{
		Status:    c.Query("status"),
		Position:  c.Query("position"),
		Source:    c.Query("source"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by", "created_at"),
		SortOrder: c.Query("sort_order", "desc"),
	}
	if min := c.Query("experience_min"); min != "" {
		if v, err := strconv.Atoi(min); err == nil {
			filters.ExperienceMin = &v
		}
	}
	if max := c.Query("experience_max"); max != "" {
		if v, err := strconv.Atoi(max); err == nil {
			filters.ExperienceMax = &v
		}
	}

	resp, err := h.service.List(c.Context(), filters, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCandidate retrieves a candidate with its interview history
// GET /api/candidates/:id
func (h *Handlers) GetCandidate(c *fiber.Ctx) error {
	id := kernel.NewCandidateID(c.Params("id"))
	if id.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	resp, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateCandidate applies a partial update, optionally replacing the CV
// PUT /api/candidates/:id
func (h *Handlers) UpdateCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.NewCandidateID(c.Params("id"))

	var req candidate.UpdateCandidateRequest
	if isMultipart(c) {
		req = parseUpdateForm(c)
	} else if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Update(c.Context(), id, req, authContext.UserID)
	if err != nil {
		return err
	}

	if cv := parseCVFile(c); cv != nil {
		defer closeCV(cv)
		resp, err = h.service.ReplaceCV(c.Context(), id, cv, authContext.UserID)
		if err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{
		"message":   "Candidate updated successfully",
		"candidate": resp,
	})
}

// UpdateCandidateStatus moves a candidate through the pipeline
// PUT /api/candidates/:id/status
func (h *Handlers) UpdateCandidateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.NewCandidateID(c.Params("id"))

	var req candidate.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.UpdateStatus(c.Context(), id, req, authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Candidate status updated successfully",
		"candidate": resp,
	})
}

// DeleteCandidate removes a candidate without interview history
// DELETE /api/candidates/:id
func (h *Handlers) DeleteCandidate(c *fiber.Ctx) error {
	id := kernel.NewCandidateID(c.Params("id"))

	deleted, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":           "Candidate deleted successfully",
		"deleted_candidate": deleted,
	})
}

// BulkUpdateStatus applies one status change to many candidates
// POST /api/candidates/bulk/status
func (h *Handlers) BulkUpdateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req candidate.BulkUpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.BulkUpdateStatus(c.Context(), req, authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":        "Status updated for " + strconv.Itoa(resp.ModifiedCount) + " candidates",
		"modified_count": resp.ModifiedCount,
	})
}

// ExportCandidates exports the collection as CSV or JSON
// GET /api/candidates/export
func (h *Handlers) ExportCandidates(c *fiber.Ctx) error {
	status := c.Query("status")
	format := c.Query("format", "csv")

	if format != "csv" {
		candidates, err := h.service.ExportJSON(c.Context(), status)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"candidates": candidates})
	}

	data, filename, err := h.service.ExportCSV(c.Context(), status)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+filename)
	return c.Send(data)
}

// GetCandidateCV streams the candidate's CV
// GET /api/candidates/:id/cv
func (h *Handlers) GetCandidateCV(c *fiber.Ctx) error {
	id := kernel.NewCandidateID(c.Params("id"))

	stream, filename, err := h.service.StreamCV(c.Context(), id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+filename)
	return c.SendStream(stream)
}

// GetCandidateAnalytics returns pipeline distributions and intake trend
// GET /api/candidates/analytics
func (h *Handlers) GetCandidateAnalytics(c *fiber.Ctx) error {
	resp, err := h.service.Analytics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return kernel.PaginationOptions{Page: page, PageSize: limit}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// parseCandidatePayload accepts either a JSON body or a multipart form with
// an optional "cv" file.
func parseCandidatePayload(c *fiber.Ctx) (candidate.CreateCandidateRequest, *candidatesrv.CVUpload, error) {
	var req candidate.CreateCandidateRequest

	if !isMultipart(c) {
		if err := c.BodyParser(&req); err != nil {
			return req, nil, candidate.ErrInvalidRequest().WithDetail("parse_error", err.Error())
		}
		return req, nil, nil
	}

	req.FirstName = c.FormValue("first_name")
	req.LastName = c.FormValue("last_name")
	req.Email = c.FormValue("email")
	req.Phone = c.FormValue("phone")
	req.Position = c.FormValue("position")
	req.Source = c.FormValue("source")
	req.CurrentCompany = c.FormValue("current_company")
	req.ExpectedSalary = c.FormValue("expected_salary")
	req.NoticePeriod = c.FormValue("notice_period")
	req.Notes = c.FormValue("notes")
	if exp := c.FormValue("experience"); exp != "" {
		req.Experience, _ = strconv.Atoi(exp)
	}
	if skills := c.FormValue("skills"); skills != "" {
		req.Skills = candidate.SkillList{skills}
	}

	return req, parseCVFile(c), nil
}

func parseUpdateForm(c *fiber.Ctx) candidate.UpdateCandidateRequest {
	var req candidate.UpdateCandidateRequest
	set := func(field string, dst **string) {
		if v := c.FormValue(field); v != "" {
			*dst = &v
		}
	}
	set("first_name", &req.FirstName)
	set("last_name", &req.LastName)
	set("email", &req.Email)
	set("phone", &req.Phone)
	set("position", &req.Position)
	set("source", &req.Source)
	set("current_company", &req.CurrentCompany)
	set("expected_salary", &req.ExpectedSalary)
	set("notice_period", &req.NoticePeriod)
	set("notes", &req.Notes)
	if exp := c.FormValue("experience"); exp != "" {
		if v, err := strconv.Atoi(exp); err == nil {
			req.Experience = &v
		}
	}
	if skills := c.FormValue("skills"); skills != "" {
		req.Skills = candidate.SkillList{skills}
	}
	return req
}

func parseCVFile(c *fiber.Ctx) *candidatesrv.CVUpload {
	if !isMultipart(c) {
		return nil
	}
	header, err := c.FormFile("cv")
	if err != nil {
		return nil
	}
	file, err := header.Open()
	if err != nil {
		return nil
	}
	return &candidatesrv.CVUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
}

func closeCV(cv *candidatesrv.CVUpload) {
	if cv == nil {
		return
	}
	if closer, ok := cv.Content.(interface{ Close() error }); ok {
		closer.Close()
	}
}

// RegisterRoutes registers all candidate routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/candidates", authMiddleware.Authenticate())

	api.Post("/", handlers.CreateCandidate)
	api.Get("/scan", handlers.QuickScan)
	api.Get("/", handlers.ListCandidates)
	api.Get("/analytics", handlers.GetCandidateAnalytics)
	api.Get("/export", handlers.ExportCandidates)
	api.Post("/bulk/status", handlers.BulkUpdateStatus)

	// Parameterized routes stay last so the fixed paths above win
	api.Get("/:id/cv", handlers.GetCandidateCV)
	api.Get("/:id", handlers.GetCandidate)
	api.Put("/:id/status", handlers.UpdateCandidateStatus)
	api.Put("/:id", handlers.UpdateCandidate)
	api.Delete("/:id", handlers.DeleteCandidate)
}
