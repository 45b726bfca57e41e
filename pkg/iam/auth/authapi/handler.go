package authapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentgrid/ctms/pkg/iam/auth"
	"github.com/talentgrid/ctms/pkg/kernel"
)

// Handlers provides HTTP handlers for authentication and HR management
type Handlers struct {
	service *auth.Service
}

func NewHandlers(service *auth.Service) *Handlers {
	return &Handlers{service: service}
}

// Bootstrap creates the initial admin account
// POST /api/auth/admin
func (h *Handlers) Bootstrap(c *fiber.Ctx) error {
	var req auth.BootstrapRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrInvalidCredentials().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Bootstrap(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RegisterHR creates an HR account (admin only)
// POST /api/auth/register
func (h *Handlers) RegisterHR(c *fiber.Ctx) error {
	var req auth.RegisterHRRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrInvalidCredentials().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.RegisterHR(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login authenticates a user and issues a token
// POST /api/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrInvalidCredentials().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Logout revokes the presented token
// POST /api/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	if err := h.service.Logout(c.Context(), authCtx); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	resp, err := h.service.Me(c.Context(), authCtx)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ListHRUsers lists HR accounts (admin only)
// GET /api/auth/users
func (h *Handlers) ListHRUsers(c *fiber.Ctx) error {
	users, err := h.service.ListHRUsers(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(users)
}

// DeleteHRUser removes an HR account (admin only)
// DELETE /api/auth/users/:id
func (h *Handlers) DeleteHRUser(c *fiber.Ctx) error {
	id := kernel.NewUserID(c.Params("id"))

	if err := h.service.DeleteHRUser(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

// RegisterRoutes registers all auth routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/auth")

	api.Post("/admin", handlers.Bootstrap)
	api.Post("/login", handlers.Login)

	api.Post("/logout",
		authMiddleware.Authenticate(),
		handlers.Logout,
	)

	api.Get("/me",
		authMiddleware.Authenticate(),
		handlers.Me,
	)

	// HR management (admin only)
	api.Post("/register",
		authMiddleware.Authenticate(),
		authMiddleware.RequireAdmin(),
		handlers.RegisterHR,
	)

	api.Get("/users",
		authMiddleware.Authenticate(),
		authMiddleware.RequireAdmin(),
		handlers.ListHRUsers,
	)

	api.Delete("/users/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireAdmin(),
		handlers.DeleteHRUser,
	)
}
