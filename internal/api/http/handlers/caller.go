package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// ReasonHeader carries a change reason when the body has none.
const ReasonHeader = "X-Change-Reason"

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.TenantID == "" {
		return nil, apperrors.NewUnauthorized("tenant required")
	}
	return principal, nil
}

// callerContext builds the metadata stored on change records. Nothing is
// defaulted: an absent actor or reason stays nil.
func callerContext(c *fiber.Ctx, principal *auth.Principal, bodyReason *string) domain.CallerContext {
	var caller domain.CallerContext
	if principal.ActorID != "" {
		actor := principal.ActorID
		caller.ActorID = &actor
	}
	switch {
	case bodyReason != nil:
		reason := *bodyReason
		caller.Reason = &reason
	case strings.TrimSpace(c.Get(ReasonHeader)) != "":
		reason := c.Get(ReasonHeader)
		caller.Reason = &reason
	}
	return caller
}
