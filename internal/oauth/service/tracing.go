package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aussiebroadwan/oauth20/internal/oauth/service"

// Span attribute keys. Credential values (tokens, codes, secrets) are never
// recorded, only metadata about them.
const (
	AttrClientID     = "oauth.client_id"
	AttrUserID       = "oauth.user_id"
	AttrScope        = "oauth.scope"
	AttrGrantType    = "oauth.grant_type"
	AttrExpiresIn    = "oauth.expires_in"
	AttrRefresh      = "oauth.refresh_issued"
	AttrTokenRotated = "oauth.token.rotated" //nolint:gosec // flag, not a credential
	AttrCodeReuse    = "oauth.code.reuse"
	AttrError        = "oauth.error"
)

func defaultTracer() trace.Tracer { return otel.Tracer(tracerName) }

// endSpan records err (if any) and ends the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrError, Code(err).Error()))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
