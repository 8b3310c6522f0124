package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/wordwise/internal/readability"
)

const (
	DefaultURL     = "http://localhost:11434"
	DefaultModel   = "gpt-oss:20b"
	DefaultTimeout = 360 * time.Second
)

// ErrNoJSONObject is returned when a model response contains no JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// Client wraps the Ollama API client
type Client struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// New creates a new Ollama client
func New(ollamaURL, model string) (*Client, error) {
	if ollamaURL == "" {
		ollamaURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}

	baseURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	return &Client{
		client:  api.NewClient(baseURL, httpClient),
		model:   model,
		timeout: DefaultTimeout,
	}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// SetTimeout bounds every generation request.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// GenerateResponse generates a response from the LLM
func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	slog.Debug("sending ollama request", "model", c.model, "timeout", c.timeout)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: new(bool), // false
	}

	var response strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	result := strings.TrimSpace(response.String())
	slog.Debug("ollama response received", "model", c.model, "chars", len(result))
	return result, nil
}

// WritingFeedback is the model's assessment of a piece of writing
type WritingFeedback struct {
	OverallScore        float64  `json:"overall_score"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Summary             string   `json:"summary"`
}

// Score returns OverallScore rounded to a whole number.
func (f *WritingFeedback) Score() int {
	return int(math.Round(f.OverallScore))
}

// GenerateWritingFeedback asks the model to assess text written for the given
// audience.
func (c *Client) GenerateWritingFeedback(ctx context.Context, text string, level readability.TargetLevel) (*WritingFeedback, error) {
	lo, hi := level.GradeRange()
	prompt := fmt.Sprintf(`You are a writing tutor. Assess the following %s-level writing (target grade %d-%d) for clarity, organization, vocabulary and sentence variety.

Provide your assessment as a JSON object with:
- overall_score: 0-100 where 100 is excellent writing for the target audience
- strengths: array of 2-4 short phrases naming what the writing does well
- areas_for_improvement: array of 2-4 short phrases naming what to work on
- summary: 2 sentences of encouraging, specific feedback addressed to the writer

Text to assess:
%s

Return ONLY the JSON object, nothing else:`, level, lo, hi, text)

	response, err := c.GenerateResponse(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseWritingFeedback(response)
}

func parseWritingFeedback(response string) (*WritingFeedback, error) {
	jsonStr, err := extractJSONObject(response)
	if err != nil {
		return nil, err
	}

	var result WritingFeedback
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse writing feedback JSON: %w", err)
	}

	// Ensure score is within bounds
	result.OverallScore = math.Max(0, math.Min(100, result.OverallScore))

	// Ensure slices are not nil
	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.AreasForImprovement == nil {
		result.AreasForImprovement = []string{}
	}
	result.Summary = strings.TrimSpace(result.Summary)

	return &result, nil
}

// extractJSONObject returns the outermost {...} span of a model response.
func extractJSONObject(response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSONObject
	}
	return response[start : end+1], nil
}
