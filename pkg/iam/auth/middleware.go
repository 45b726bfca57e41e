package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/talentgrid/ctms/pkg/errx"
)

const authContextKey = "auth_context"

type TokenMiddleware struct {
	tokens *TokenService
}

func NewTokenMiddleware(tokens *TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate requires a valid Bearer token and stashes the resolved
// identity in the request locals.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return respondError(c, ErrMissingToken())
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return respondError(c, ErrMissingToken())
		}

		authCtx, err := m.tokens.ValidateToken(c.Context(), tokenString)
		if err != nil {
			if appErr, ok := err.(*errx.Error); ok {
				return respondError(c, appErr)
			}
			return respondError(c, ErrInvalidToken())
		}

		c.Locals(authContextKey, authCtx)
		return c.Next()
	}
}

// RequireAdmin runs after Authenticate and rejects non-admin identities.
func (m *TokenMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return respondError(c, ErrMissingToken())
		}
		if !authCtx.IsAdmin() {
			return respondError(c, ErrAdminRequired())
		}
		return c.Next()
	}
}

func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(*AuthContext)
	return authCtx, ok
}

func respondError(c *fiber.Ctx, err *errx.Error) error {
	return c.Status(err.HTTPStatus).JSON(err.ToHTTPResponse())
}
