// Package response renders service results as HTTP responses. Every result,
// successful or not, carries no-store caching directives.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

// Result is a transport-ready response.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       any // JSON-encoded; nil writes no body
}

func newResult(status int, body any) *Result {
	h := make(http.Header)
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	if body != nil {
		h.Set("Content-Type", "application/json;charset=UTF-8")
	}
	return &Result{StatusCode: status, Header: h, Body: body}
}

// JSON wraps an arbitrary body.
func JSON(status int, body any) *Result { return newResult(status, body) }

// Empty is a result without a body.
func Empty(status int) *Result { return newResult(status, nil) }

// Token renders a successful token exchange. The refresh token is omitted
// when none was issued.
func Token(pair *domain.TokenPair) *Result {
	return newResult(http.StatusOK, oauthsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn / time.Second),
		RefreshToken: pair.RefreshToken,
		Scope:        pair.Scope,
	})
}

// Error renders err as an RFC 6749 error body. Anything that is not one of
// the service sentinels becomes an opaque server_error.
func Error(err error) *Result {
	code := service.Code(err)

	var status int
	switch {
	case errors.Is(code, service.ErrInvalidClient):
		status = http.StatusUnauthorized
	case errors.Is(code, service.ErrInvalidRequest),
		errors.Is(code, service.ErrInvalidGrant),
		errors.Is(code, service.ErrInvalidScope),
		errors.Is(code, service.ErrUnsupportedGrantType):
		status = http.StatusBadRequest
	case errors.Is(code, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(code, service.ErrConflict):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	r := newResult(status, oauthsdk.ErrorResponse{
		Error:            code.Error(),
		ErrorDescription: service.Description(err),
	})
	if status == http.StatusUnauthorized {
		r.Header.Set("WWW-Authenticate", `Basic realm="oauth"`)
	}
	return r
}

// InvalidRequest is a shortcut for transport-level request problems.
func InvalidRequest(description string) *Result {
	return newResult(http.StatusBadRequest, oauthsdk.ErrorResponse{
		Error:            oauthsdk.ErrorCodeInvalidRequest,
		ErrorDescription: description,
	})
}

// Write renders r onto w.
func (r *Result) Write(w http.ResponseWriter) {
	for k, v := range r.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(r.StatusCode)
	if r.Body != nil {
		_ = json.NewEncoder(w).Encode(r.Body)
	}
}
