package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CodesAreNamespaced(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")

	assert.Equal(t, Code("WIDGET.NOT_FOUND"), code)

	err := reg.New(code)
	assert.Equal(t, code, err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "Widget not found", err.Message)
}

func TestRegistry_UnregisteredCode(t *testing.T) {
	reg := NewRegistry("WIDGET")

	err := reg.New(Code("WIDGET.MYSTERY"))
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestError_WithCauseUnwraps(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("BROKEN", TypeInternal, http.StatusInternalServerError, "Widget broke")

	cause := errors.New("disk full")
	err := reg.New(code).WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsType(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")

	assert.True(t, IsType(reg.New(code), TypeNotFound))
	assert.False(t, IsType(reg.New(code), TypeConflict))
	assert.False(t, IsType(errors.New("plain"), TypeNotFound))
}

func TestWrap_PassesTypedErrorsThrough(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")
	typed := reg.New(code)

	assert.Same(t, typed, Wrap(typed, "ignored", TypeInternal))

	wrapped := Wrap(errors.New("boom"), "something failed", TypeExternal)
	assert.Equal(t, http.StatusBadGateway, wrapped.HTTPStatus)
	assert.Equal(t, "something failed", wrapped.Message)
}

func TestToHTTPResponse(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")

	err := reg.New(code).WithDetail("id", "w-1")
	resp := err.ToHTTPResponse()

	assert.Equal(t, Code("WIDGET.NOT_FOUND"), resp["code"])
	assert.Equal(t, TypeNotFound, resp["type"])
	assert.Equal(t, "Widget not found", resp["message"])

	details, ok := resp["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "w-1", details["id"])

	bare := reg.New(code).ToHTTPResponse()
	_, hasDetails := bare["details"]
	assert.False(t, hasDetails)
}
