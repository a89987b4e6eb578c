package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/callwatch/callwatch/internal/analysis"
)

const defaultBaseURL = "https://api.retellai.com"

// Sort orders accepted by the list-calls endpoint.
const (
	SortAscending  = "ascending"
	SortDescending = "descending"
)

// Client talks to the Retell telephony platform API. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCallsRequest filters the call listing. AfterStartTimestamp is epoch ms.
type ListCallsRequest struct {
	AgentIDs            []string
	AfterStartTimestamp int64
	SortOrder           string
	Limit               int
}

// CallAnalysis is the upstream platform's own post-call analysis block.
type CallAnalysis struct {
	CallSummary        string          `json:"call_summary"`
	InVoicemail        *bool           `json:"in_voicemail"`
	UserSentiment      string          `json:"user_sentiment"`
	CallSuccessful     *bool           `json:"call_successful"`
	CustomAnalysisData json.RawMessage `json:"custom_analysis_data"`
}

// CallResource is one call object as returned by list-calls. Raw preserves
// the untouched payload for archival.
type CallResource struct {
	CallID              string              `json:"call_id"`
	AgentID             string              `json:"agent_id"`
	CallType            string              `json:"call_type"`
	CallStatus          string              `json:"call_status"`
	FromNumber          string              `json:"from_number"`
	ToNumber            string              `json:"to_number"`
	Direction           string              `json:"direction"`
	Metadata            json.RawMessage     `json:"metadata"`
	StartTimestamp      int64               `json:"start_timestamp"` // epoch ms
	EndTimestamp        *int64              `json:"end_timestamp"`   // epoch ms
	Transcript          string              `json:"transcript"`
	TranscriptObject    []analysis.RawEntry `json:"transcript_object"`
	RecordingURL        string              `json:"recording_url"`
	PublicLogURL        string              `json:"public_log_url"`
	DisconnectionReason string              `json:"disconnection_reason"`
	CallAnalysis        *CallAnalysis       `json:"call_analysis"`

	Raw json.RawMessage `json:"-"`
}

// Agent is the subset of get-agent fields the script sync needs.
type Agent struct {
	AgentID         string `json:"agent_id"`
	AgentName       string `json:"agent_name"`
	LLMWebsocketURL string `json:"llm_websocket_url"`
}

// LLM is the subset of get-retell-llm fields the script sync needs.
type LLM struct {
	LLMID         string `json:"llm_id"`
	GeneralPrompt string `json:"general_prompt"`
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("retell: unexpected status %d: %s", e.StatusCode, e.Body)
}

// ListCalls fetches calls for the given agents after the timestamp, in the
// requested order. No retries: a transport or API error is returned as-is so
// the caller can abort the agent's iteration.
func (c *Client) ListCalls(ctx context.Context, apiKey string, req ListCallsRequest) ([]CallResource, error) {
	if req.Limit <= 0 {
		req.Limit = 100
	}
	if req.SortOrder == "" {
		req.SortOrder = SortDescending
	}

	body := map[string]any{
		"filter_criteria": map[string]any{
			"agent_id":              req.AgentIDs,
			"after_start_timestamp": req.AfterStartTimestamp,
		},
		"sort_order": req.SortOrder,
		"limit":      req.Limit,
	}

	raw, err := c.do(ctx, http.MethodPost, "/v2/list-calls", apiKey, body)
	if err != nil {
		return nil, err
	}

	var rawCalls []json.RawMessage
	if err := json.Unmarshal(raw, &rawCalls); err != nil {
		return nil, fmt.Errorf("retell: decode list-calls response: %w", err)
	}

	calls := make([]CallResource, 0, len(rawCalls))
	for _, rc := range rawCalls {
		var call CallResource
		if err := json.Unmarshal(rc, &call); err != nil {
			return nil, fmt.Errorf("retell: decode call object: %w", err)
		}
		call.Raw = rc
		calls = append(calls, call)
	}
	return calls, nil
}

// GetAgent fetches agent details, retrying transient failures with
// exponential backoff. Only used by the script sync, never by ingestion.
func (c *Client) GetAgent(ctx context.Context, apiKey, agentID string) (*Agent, error) {
	var agent Agent
	err := c.getWithRetry(ctx, "/get-agent/"+agentID, apiKey, &agent)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetLLM fetches the LLM configuration backing an agent, with the same retry
// policy as GetAgent.
func (c *Client) GetLLM(ctx context.Context, apiKey, llmID string) (*LLM, error) {
	var llm LLM
	err := c.getWithRetry(ctx, "/get-retell-llm/"+llmID, apiKey, &llm)
	if err != nil {
		return nil, err
	}
	return &llm, nil
}

func (c *Client) getWithRetry(ctx context.Context, path, apiKey string, dst any) error {
	operation := func() error {
		raw, err := c.do(ctx, http.MethodGet, path, apiKey, nil)
		if err != nil {
			var apiErr *APIError
			// 4xx will not get better on retry
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return backoff.Permanent(fmt.Errorf("retell: decode %s response: %w", path, err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 20 * time.Second
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("retell: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}

// LLMIDFromWebsocketURL extracts the trailing path segment of an agent's
// llm_websocket_url, which is the LLM's identifier.
func LLMIDFromWebsocketURL(wsURL string) string {
	if wsURL == "" {
		return ""
	}
	parts := strings.Split(strings.TrimRight(wsURL, "/"), "/")
	return parts[len(parts)-1]
}
