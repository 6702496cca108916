package mcp

import (
	"context"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	today := models.FormatDate(time.Now().UTC())

	t, scheduled, err := h.ds.ScheduleForDate(ctx, today)
	if err != nil {
		return nil, err
	}

	maxes, err := h.ds.CurrentMaxes(ctx)
	if err != nil {
		h.log.Warn("today: current maxes failed", "error", err)
	}

	session, err := h.ds.SessionByDate(ctx, today)
	if err != nil {
		h.log.Warn("today: session lookup failed", "error", err)
	}

	summary := map[string]any{
		"date":    today,
		"rest":    !scheduled,
		"maxes":   maxes,
		"session": session,
	}
	if scheduled {
		summary["hps_type"] = t
	}

	return jsonText(req.Params.URI, summary)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := models.FormatDate(time.Now().UTC().AddDate(0, 0, -14))
	var recent []models.WorkoutSession
	for _, s := range sessions {
		if s.Date >= cutoff { // YYYY-MM-DD sorts lexicographically
			recent = append(recent, s)
		}
	}

	return jsonText(req.Params.URI, recent)
}
