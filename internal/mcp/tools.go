package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftplan/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetPrescription = mcp.NewTool("get_prescription",
	mcp.WithDescription("Compute the prescribed weight, sets, and reps for one exercise slot in the HPS cycle, from the lifter's current one-rep max."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
	mcp.WithNumber("max", mcp.Required(), mcp.Description("Current one-rep max in kg, must be positive")),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Training week, 1-based. Weeks past 6 clamp to week 6.")),
	mcp.WithString("type", mcp.Required(), mcp.Description("Training type"), mcp.Enum("hypertrophy", "power", "strength")),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Generate the full six-week HPS program for one exercise: 18 prescriptions (6 weeks x hypertrophy/power/strength)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("max", mcp.Required(), mcp.Description("Current one-rep max in kg")),
)

var toolGetTrainingSchedule = mcp.NewTool("get_training_schedule",
	mcp.WithDescription("Look up the scheduled training type for a date. Monday is hypertrophy, Wednesday power, Friday strength; other days are rest days."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date in YYYY-MM-DD form")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List logged workout sessions. With a date, returns at most the one session for that day (one session per calendar day); from/to bound the listing."),
	mcp.WithString("date", mcp.Description("Exact date in YYYY-MM-DD form. Omit for a listing.")),
	mcp.WithString("from", mcp.Description("Earliest date to include, YYYY-MM-DD")),
	mcp.WithString("to", mcp.Description("Latest date to include, YYYY-MM-DD")),
)

var toolLogSession = mcp.NewTool("log_session",
	mcp.WithDescription("Save a workout session. Saving onto a date that already has a session merges them: body parts union, exercises append, durations add, and the new completed flag wins."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date in YYYY-MM-DD form")),
	mcp.WithString("body_part", mcp.Required(), mcp.Description("Body part trained"), mcp.Enum("chest", "back", "shoulders", "arms", "legs", "abs", "cardio")),
	mcp.WithString("type", mcp.Description("Training type"), mcp.Enum("hypertrophy", "power", "strength")),
	mcp.WithBoolean("completed", mcp.Description("Whether the workout is finished. Defaults to false.")),
	mcp.WithNumber("duration_min", mcp.Description("Duration in minutes")),
)

var toolRecordMax = mcp.NewTool("record_max",
	mcp.WithDescription("Record a new one-rep max for an exercise. Maxes are kept as history; the newest value drives prescriptions."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("New one-rep max in kg")),
)

// --- Tool handlers ---

func (h *handlers) getPrescription(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	max, err := req.RequireFloat("max")
	if err != nil {
		return mcp.NewToolResultError("max parameter is required"), nil
	}
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	t, err := models.ParseTrainingType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calc, err := h.ds.Prescription(ctx, exercise, max, week, t)
	if err != nil {
		return mcp.NewToolResultError("calculation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(calc)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	max, err := req.RequireFloat("max")
	if err != nil {
		return mcp.NewToolResultError("max parameter is required"), nil
	}

	program, err := h.ds.Program(ctx, exercise, max)
	if err != nil {
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(program)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}

	t, ok, err := h.ds.ScheduleForDate(ctx, date)
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	payload := map[string]any{"date": date, "rest": !ok}
	if ok {
		payload["hps_type"] = t
	}
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if date := req.GetString("date", ""); date != "" {
		session, err := h.ds.SessionByDate(ctx, date)
		if err != nil {
			h.log.Error("mcp get_sessions", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		if session == nil {
			result, err := mcp.NewToolResultJSON(map[string]any{"date": date, "session": nil})
			if err != nil {
				return mcp.NewToolResultError("serialization failed"), nil
			}
			return result, nil
		}
		result, err := mcp.NewToolResultJSON(session)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	sessions, err := h.ds.Sessions(ctx)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	// YYYY-MM-DD sorts lexicographically, so the bounds are string compares.
	if from := req.GetString("from", ""); from != "" {
		sessions = filterSessions(sessions, func(s models.WorkoutSession) bool { return s.Date >= from })
	}
	if to := req.GetString("to", ""); to != "" {
		sessions = filterSessions(sessions, func(s models.WorkoutSession) bool { return s.Date <= to })
	}
	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	bodyPart, err := req.RequireString("body_part")
	if err != nil {
		return mcp.NewToolResultError("body_part parameter is required"), nil
	}

	session := models.WorkoutSession{
		Date:      date,
		BodyParts: []models.BodyPart{models.BodyPart(bodyPart)},
		Completed: req.GetBool("completed", false),
	}
	if typeStr := req.GetString("type", ""); typeStr != "" {
		t, err := models.ParseTrainingType(typeStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		session.Type = t
	}
	if dur := req.GetInt("duration_min", 0); dur > 0 {
		session.Duration = &dur
	}

	merged, err := h.ds.SaveSession(ctx, session)
	if err != nil {
		h.log.Error("mcp log_session", "error", err)
		return mcp.NewToolResultError("save failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(merged)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recordMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}
	if weight <= 0 {
		return mcp.NewToolResultError("weight_kg must be positive"), nil
	}

	rec, err := h.ds.RecordMax(ctx, exercise, weight)
	if err != nil {
		h.log.Error("mcp record_max", "error", err)
		return mcp.NewToolResultError("record failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func filterSessions(sessions []models.WorkoutSession, keep func(models.WorkoutSession) bool) []models.WorkoutSession {
	var out []models.WorkoutSession
	for _, s := range sessions {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// jsonText renders v for a resource response.
func jsonText(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
