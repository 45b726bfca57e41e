package auth

import (
	"net/http"

	"github.com/talentgrid/ctms/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

// Error codes
var (
	CodeInvalidCredentials  = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid email or password")
	CodeMissingToken        = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Authorization token required")
	CodeInvalidToken        = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid or expired token")
	CodeTokenRevoked        = ErrRegistry.Register("TOKEN_REVOKED", errx.TypeAuthentication, http.StatusUnauthorized, "Token has been revoked")
	CodeAdminRequired       = ErrRegistry.Register("ADMIN_REQUIRED", errx.TypeAuthorization, http.StatusForbidden, "Admin access required")
	CodeAlreadyBootstrapped = ErrRegistry.Register("ALREADY_BOOTSTRAPPED", errx.TypeConflict, http.StatusConflict, "Admin account already exists")
)

// Helper functions
func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrMissingToken() *errx.Error {
	return ErrRegistry.New(CodeMissingToken)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrTokenRevoked() *errx.Error {
	return ErrRegistry.New(CodeTokenRevoked)
}

func ErrAdminRequired() *errx.Error {
	return ErrRegistry.New(CodeAdminRequired)
}

func ErrAlreadyBootstrapped() *errx.Error {
	return ErrRegistry.New(CodeAlreadyBootstrapped)
}
