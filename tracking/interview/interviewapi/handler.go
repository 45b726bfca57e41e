package interviewapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentgrid/ctms/pkg/iam/auth"
	"github.com/talentgrid/ctms/pkg/kernel"
	"github.com/talentgrid/ctms/tracking/interview"
	"github.com/talentgrid/ctms/tracking/interview/interviewsrv"
)

// Handlers provides HTTP handlers for interview operations
type Handlers struct {
	service *interviewsrv.InterviewService
}

func NewHandlers(service *interviewsrv.InterviewService) *Handlers {
	return &Handlers{service: service}
}

// ScheduleInterview books an interview for a candidate
// POST /api/interviews
func (h *Handlers) ScheduleInterview(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req interview.ScheduleInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return interview.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Schedule(c.Context(), req, authContext.UserID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Interview scheduled successfully",
		"interview": resp,
	})
}

// ListInterviews retrieves interviews with filters and pagination
// GET /api/interviews
func (h *Handlers) ListInterviews(c *fiber.Ctx) error {
	filters := interview.ListFilters{Status: c.Query("status")}
	if date := c.Query("date"); date != "" {
		if parsed, err := time.Parse("2006-01-02", date); err == nil {
			filters.Date = &parsed
		}
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	resp, err := h.service.List(c.Context(), filters, kernel.PaginationOptions{Page: page, PageSize: limit})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetUpcomingInterviews returns the next scheduled interviews
// GET /api/interviews/upcoming
func (h *Handlers) GetUpcomingInterviews(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "5"))

	interviews, err := h.service.GetUpcoming(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"interviews": interviews})
}

// GetInterview retrieves an interview by ID
// GET /api/interviews/:id
func (h *Handlers) GetInterview(c *fiber.Ctx) error {
	id := kernel.NewInterviewID(c.Params("id"))

	resp, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"interview": resp})
}

// SubmitFeedback completes an interview with feedback and outcome
// PUT /api/interviews/:id/feedback
func (h *Handlers) SubmitFeedback(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.NewInterviewID(c.Params("id"))

	var req interview.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return interview.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.SubmitFeedback(c.Context(), id, req, authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Interview feedback updated successfully",
		"interview": resp,
	})
}

// CancelInterview cancels an interview
// PUT /api/interviews/:id/cancel
func (h *Handlers) CancelInterview(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.NewInterviewID(c.Params("id"))

	resp, err := h.service.Cancel(c.Context(), id, authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Interview cancelled successfully",
		"interview": resp,
	})
}

// RescheduleInterview moves an interview to a new date or link
// PUT /api/interviews/:id/reschedule
func (h *Handlers) RescheduleInterview(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.NewInterviewID(c.Params("id"))

	var req interview.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return interview.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Reschedule(c.Context(), id, req, authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Interview rescheduled successfully",
		"interview": resp,
	})
}

// MarkNoShow records that the candidate did not attend
// PUT /api/interviews/:id/no-show
func (h *Handlers) MarkNoShow(c *fiber.Ctx) error {
	id := kernel.NewInterviewID(c.Params("id"))

	resp, err := h.service.MarkNoShow(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Interview marked as no-show",
		"interview": resp,
	})
}

// DeleteInterview removes an interview without recorded feedback
// DELETE /api/interviews/:id
func (h *Handlers) DeleteInterview(c *fiber.Ctx) error {
	id := kernel.NewInterviewID(c.Params("id"))

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Interview deleted successfully"})
}

// RegisterRoutes registers all interview routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/interviews", authMiddleware.Authenticate())

	api.Post("/", handlers.ScheduleInterview)
	api.Get("/", handlers.ListInterviews)
	api.Get("/upcoming", handlers.GetUpcomingInterviews)

	api.Get("/:id", handlers.GetInterview)
	api.Put("/:id/feedback", handlers.SubmitFeedback)
	api.Put("/:id/cancel", handlers.CancelInterview)
	api.Put("/:id/reschedule", handlers.RescheduleInterview)
	api.Put("/:id/no-show", handlers.MarkNoShow)
	api.Delete("/:id", handlers.DeleteInterview)
}
