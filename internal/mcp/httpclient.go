package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftplan/internal/models"
)

// HTTPClient implements DataSource by calling the liftplan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the ledger lives on a remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
// The API key is sent on mutating calls.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *HTTPClient) Prescription(ctx context.Context, exercise string, currentMax float64, week int, t models.TrainingType) (models.Prescription, error) {
	params := url.Values{
		"exercise": {exercise},
		"max":      {strconv.FormatFloat(currentMax, 'f', -1, 64)},
		"week":     {strconv.Itoa(week)},
		"type":     {string(t)},
	}
	body, err := c.do(ctx, http.MethodGet, "/api/v1/prescription", params, nil)
	if err != nil {
		return models.Prescription{}, err
	}
	var calc models.Prescription
	if err := json.Unmarshal(body, &calc); err != nil {
		return models.Prescription{}, fmt.Errorf("httpclient: decode prescription: %w", err)
	}
	return calc, nil
}

func (c *HTTPClient) Program(ctx context.Context, exercise string, currentMax float64) ([]models.Prescription, error) {
	params := url.Values{
		"exercise": {exercise},
		"max":      {strconv.FormatFloat(currentMax, 'f', -1, 64)},
	}
	body, err := c.do(ctx, http.MethodGet, "/api/v1/program", params, nil)
	if err != nil {
		return nil, err
	}
	var program []models.Prescription
	if err := json.Unmarshal(body, &program); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return program, nil
}

func (c *HTTPClient) ScheduleForDate(ctx context.Context, date string) (models.TrainingType, bool, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/schedule", url.Values{"date": {date}}, nil)
	if err != nil {
		return "", false, err
	}
	var resp struct {
		Rest    bool                `json:"rest"`
		HPSType models.TrainingType `json:"hps_type"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, fmt.Errorf("httpclient: decode schedule: %w", err)
	}
	return resp.HPSType, !resp.Rest, nil
}

func (c *HTTPClient) Sessions(ctx context.Context) ([]models.WorkoutSession, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) SessionByDate(ctx context.Context, date string) (*models.WorkoutSession, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+date, nil, nil)
	if err != nil {
		// Absence is a normal outcome on this endpoint.
		if strings.Contains(err.Error(), "returned 404") {
			return nil, nil
		}
		return nil, err
	}
	var session models.WorkoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &session, nil
}

func (c *HTTPClient) SaveSession(ctx context.Context, session models.WorkoutSession) (models.WorkoutSession, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/sessions", nil, session)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	var merged models.WorkoutSession
	if err := json.Unmarshal(body, &merged); err != nil {
		return models.WorkoutSession{}, fmt.Errorf("httpclient: decode saved session: %w", err)
	}
	return merged, nil
}

func (c *HTTPClient) RecordMax(ctx context.Context, exercise string, weightKg float64) (models.MaxRecord, error) {
	payload := map[string]float64{"weight_kg": weightKg}
	body, err := c.do(ctx, http.MethodPut, "/api/v1/maxes/"+url.PathEscape(exercise), nil, payload)
	if err != nil {
		return models.MaxRecord{}, err
	}
	var rec models.MaxRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return models.MaxRecord{}, fmt.Errorf("httpclient: decode max record: %w", err)
	}
	return rec, nil
}

func (c *HTTPClient) CurrentMaxes(ctx context.Context) (map[string]float64, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/maxes", nil, nil)
	if err != nil {
		return nil, err
	}
	maxes := make(map[string]float64)
	if err := json.Unmarshal(body, &maxes); err != nil {
		return nil, fmt.Errorf("httpclient: decode maxes: %w", err)
	}
	return maxes, nil
}
