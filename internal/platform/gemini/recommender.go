package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/cadell/conjugo-api/internal/config"
	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/selection"
)

// promptTemplate asks for exactly one JSON object so the reply can be parsed
// without scraping.
const promptTemplate = `You are a Spanish conjugation tutor choosing the next drill.
The learner is at CEFR level {{.Level}}.
Reply with exactly one JSON object and nothing else, shaped as:
{"mood": "<indicative|subjunctive|imperative|conditional>", "tense": "<tense key>", "verb": "<infinitive or empty>"}
Valid tense keys: pres, pretIndef, impf, fut, cond, subjPres.
Pick a mood/tense the learner should practice at their level, and optionally
one common Spanish verb worth drilling in it.`

// recommendationSchema is the wire shape of the model's reply.
type recommendationSchema struct {
	Mood  string `json:"mood"`
	Tense string `json:"tense"`
	Verb  string `json:"verb"`
}

// Recommender implements selection.AdaptiveRecommender using the Gemini API.
type Recommender struct {
	logger *slog.Logger
	config config.GeminiConfig
	prompt *template.Template
	client *genai.Client
	model  string
}

// Ensure Recommender implements selection.AdaptiveRecommender
var _ selection.AdaptiveRecommender = (*Recommender)(nil)

// NewRecommender creates a Gemini-backed recommender.
//
// Parameters:
//   - ctx: Context for client initialization, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: Gemini configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized Recommender or an error if initialization fails
func NewRecommender(ctx context.Context, logger *slog.Logger, cfg config.GeminiConfig) (*Recommender, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	prompt, err := template.New("recommendation").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return &Recommender{
		logger: logger.With(slog.String("component", "gemini_recommender")),
		config: cfg,
		prompt: prompt,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Recommend implements selection.AdaptiveRecommender.
// The userID is accepted for future per-user prompting but not yet sent to
// the model; only the learner's level shapes the prompt today.
func (r *Recommender) Recommend(
	ctx context.Context,
	userID uuid.UUID,
	level domain.Level,
) (*selection.Recommendation, error) {
	var buf bytes.Buffer
	if err := r.prompt.Execute(&buf, struct{ Level domain.Level }{Level: level}); err != nil {
		return nil, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	parsed, err := r.callWithRetry(ctx, buf.String())
	if err != nil {
		return nil, err
	}

	rec := &selection.Recommendation{
		Mood:   strings.TrimSpace(parsed.Mood),
		Tense:  strings.TrimSpace(parsed.Tense),
		VerbID: strings.TrimSpace(parsed.Verb),
	}
	if !domain.IsValidMood(rec.Mood) || !domain.IsValidTense(rec.Tense) {
		return nil, fmt.Errorf("%w: unknown mood/tense %q/%q", ErrInvalidResponse, rec.Mood, rec.Tense)
	}

	r.logger.DebugContext(ctx, "adaptive recommendation received",
		slog.String("mood", rec.Mood),
		slog.String("tense", rec.Tense),
		slog.String("verb", rec.VerbID))

	return rec, nil
}

// callWithRetry makes the Gemini API call with exponential backoff and
// jitter. Malformed replies are permanent failures and are not retried.
func (r *Recommender) callWithRetry(ctx context.Context, prompt string) (*recommendationSchema, error) {
	maxRetries := r.config.MaxRetries
	if maxRetries < 0 {
		r.logger.WarnContext(ctx, "invalid max retries value, using default", slog.Int("max_retries", 3))
		maxRetries = 3
	}
	baseDelaySeconds := r.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
		if err == nil {
			text := resp.Text()
			if text == "" {
				return nil, fmt.Errorf("%w: empty reply", ErrInvalidResponse)
			}
			var parsed recommendationSchema
			if jsonErr := json.Unmarshal([]byte(text), &parsed); jsonErr != nil {
				return nil, fmt.Errorf("%w: failed to parse JSON reply: %v", ErrInvalidResponse, jsonErr)
			}
			return &parsed, nil
		}

		lastErr = err
		r.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.String("error", err.Error()))

		if attempt >= maxRetries {
			break
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}

	return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
		ErrTransientFailure, maxRetries, lastErr)
}
