package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const submissionsPath = "/submissions?base64_encoded=false&wait=true"

// maxResponseBytes caps how much of a judge response is read.
const maxResponseBytes = 4 << 20

// Request is one source-plus-input execution.
type Request struct {
	SourceCode     string   `validate:"required"`
	Language       Language `validate:"required"`
	Stdin          string
	ExpectedOutput *string
	TimeLimit      float64 `validate:"gte=0,lte=60"`
}

type submissionBody struct {
	LanguageID     int      `json:"language_id"`
	SourceCode     string   `json:"source_code"`
	Stdin          string   `json:"stdin"`
	ExpectedOutput *string  `json:"expected_output,omitempty"`
	CPUTimeLimit   *float64 `json:"cpu_time_limit,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to a Judge0-compatible execution service.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
	validate  *govalidator.Validate
	log       zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(opts Options, log zerolog.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   opts.BaseURL,
		authToken: opts.AuthToken,
		http:      hc,
		validate:  govalidator.New(govalidator.WithRequiredStructEnabled()),
		log:       log.With().Str("component", "judge_client").Logger(),
	}
}

// Execute sends one synchronous execution request and returns the judge's verdict.
// It never retries; failures to reach or understand the judge come back as
// *UnavailableError.
func (c *Client) Execute(ctx context.Context, req Request) (*Verdict, error) {
	if !req.Language.Valid() {
		return nil, &InvalidLanguageError{Name: req.Language.String()}
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	body := submissionBody{
		LanguageID:     req.Language.ID(),
		SourceCode:     req.SourceCode,
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
	}
	if req.TimeLimit > 0 {
		limit := req.TimeLimit
		body.CPUTimeLimit = &limit
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submissionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &UnavailableError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("X-Auth-Token", c.authToken)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Msg("Judge unreachable")
		return nil, &UnavailableError{Op: "post submission", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UnavailableError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(raw), 256)).
			Msg("Judge rejected submission")
		return nil, &UnavailableError{Op: "post submission", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var verdict Verdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, &UnavailableError{Op: "decode verdict", Err: err}
	}
	if verdict.Status.ID == 0 {
		return nil, &UnavailableError{Op: "decode verdict", Err: fmt.Errorf("response has no status")}
	}

	c.log.Debug().
		Str("language", req.Language.String()).
		Int("status_id", verdict.Status.ID).
		Dur("round_trip", time.Since(start)).
		Msg("Execution finished")

	return &verdict, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
