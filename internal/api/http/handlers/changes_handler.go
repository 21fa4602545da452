package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// ChangesHandler exposes the audit trail.
type ChangesHandler struct {
	service *service.ChangeService
}

// NewChangesHandler constructs handler.
func NewChangesHandler(changeService *service.ChangeService) *ChangesHandler {
	return &ChangesHandler{service: changeService}
}

// List GET /v1/changes. The tenant always comes from the token.
//
// Pages are ordered by (occurred_at, seq). Pass next_cursor back as cursor
// until a page comes back empty. since is inclusive; paging by the last
// occurred_at repeats records that share a timestamp.
func (h *ChangesHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseChangeQuery(c)
	if err != nil {
		return err
	}
	filter.TenantID = principal.TenantID

	entries, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ChangeRecordResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, changeRecordResponse(entry))
	}
	var next *string
	if len(entries) > 0 {
		cursor := entries[len(entries)-1].Record.Cursor().Encode()
		next = &cursor
	}
	return c.JSON(fiber.Map{"data": items, "next_cursor": next})
}

// Watermark GET /v1/changes/watermark.
func (h *ChangesHandler) Watermark(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	at, ok, err := h.service.Watermark(c.UserContext(), principal.TenantID)
	if err != nil {
		return err
	}
	var resp dto.WatermarkResponse
	if ok {
		resp.LatestOccurredAt = &at
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseChangeQuery(c *fiber.Ctx) (domain.ChangeFilter, error) {
	var filter domain.ChangeFilter
	if v := strings.TrimSpace(c.Query("entity_type")); v != "" {
		entityType := domain.EntityType(v)
		filter.EntityType = &entityType
	}
	if v := strings.TrimSpace(c.Query("entity_id")); v != "" {
		filter.EntityID = &v
	}
	if v := strings.TrimSpace(c.Query("since")); v != "" {
		since, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return filter, apperrors.NewValidationError("since must be RFC3339", map[string]any{"since": v})
		}
		filter.Since = &since
	}
	if v := strings.TrimSpace(c.Query("cursor")); v != "" {
		cursor, err := domain.ParseChangeCursor(v)
		if err != nil {
			return filter, apperrors.NewValidationError("cursor is malformed", map[string]any{"cursor": v})
		}
		filter.After = &cursor
	}
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, apperrors.NewValidationError("limit must be an integer", map[string]any{"limit": v})
		}
		filter.Limit = limit
	}
	return filter, nil
}

func changeRecordResponse(entry service.ChangeEntry) dto.ChangeRecordResponse {
	rec := entry.Record
	return dto.ChangeRecordResponse{
		ID:             rec.ID,
		EntityType:     rec.EntityType,
		EntityID:       rec.EntityID,
		ChangeKind:     rec.ChangeKind,
		Kind:           entry.Kind,
		ChangedField:   rec.ChangedField,
		BeforeSnapshot: rec.BeforeSnapshot,
		AfterSnapshot:  rec.AfterSnapshot,
		ActorID:        rec.ActorID,
		Reason:         rec.Reason,
		OccurredAt:     rec.OccurredAt,
	}
}
