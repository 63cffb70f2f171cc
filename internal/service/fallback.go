package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"callintake/internal/config"
	"callintake/internal/metrics"
	"callintake/internal/model"
	"callintake/internal/utils"
)

// CorrectionStore keeps agent reclassifications as extra few-shot examples
type CorrectionStore interface {
	SaveCorrection(ctx context.Context, ex model.CorrectionExample, embedding []float32) error
	NearestCorrections(ctx context.Context, embedding []float32, limit int) ([]model.CorrectionExample, error)
}

// FallbackClassifier asks a generative model about fragments the rules could
// not classify. Calls are made one at a time by the caller; the limiter keeps
// bursts of unknown fragments under the provider's rate limit.
type FallbackClassifier struct {
	ai              AIClient
	limiter         *rate.Limiter
	cache           *lru.Cache[string, []model.DetectedItem]
	corrections     CorrectionStore
	correctionLimit int
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

// FallbackOption configures a FallbackClassifier
type FallbackOption func(*FallbackClassifier)

// WithCorrections enables correction memory
func WithCorrections(store CorrectionStore) FallbackOption {
	return func(f *FallbackClassifier) { f.corrections = store }
}

// WithFallbackMetrics records fallback outcomes
func WithFallbackMetrics(m *metrics.Metrics) FallbackOption {
	return func(f *FallbackClassifier) { f.metrics = m }
}

// WithFallbackLogger sets the logger
func WithFallbackLogger(logger zerolog.Logger) FallbackOption {
	return func(f *FallbackClassifier) { f.logger = logger }
}

// NewFallbackClassifier creates a fallback classifier. ai may be nil, in which
// case the classifier is disabled.
func NewFallbackClassifier(ai AIClient, cfg config.PipelineConfig, opts ...FallbackOption) *FallbackClassifier {
	perSecond := rate.Inf
	if cfg.FallbackRatePerMinute > 0 {
		perSecond = rate.Limit(cfg.FallbackRatePerMinute / 60)
	}
	burst := cfg.FallbackBurst
	if burst < 1 {
		burst = 1
	}

	f := &FallbackClassifier{
		ai:              ai,
		limiter:         rate.NewLimiter(perSecond, burst),
		correctionLimit: cfg.CorrectionExamples,
		logger:          zerolog.Nop(),
	}
	if cfg.FallbackCacheSize > 0 {
		// only fails for a non-positive size
		f.cache, _ = lru.New[string, []model.DetectedItem](cfg.FallbackCacheSize)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Enabled reports whether fallback calls can be made
func (f *FallbackClassifier) Enabled() bool {
	return f != nil && f.ai != nil && f.ai.IsEnabled()
}

// Classify returns the model's items for one fragment. Every failure ends in
// zero items; the caller keeps the fragment as unknown.
func (f *FallbackClassifier) Classify(ctx context.Context, fragment string) []model.DetectedItem {
	if !f.Enabled() {
		return nil
	}

	key := cacheKey(fragment)
	if f.cache != nil {
		if cached, ok := f.cache.Get(key); ok {
			f.metrics.ObserveFallback(metrics.FallbackCacheHit)
			return withOriginal(cached, fragment)
		}
	}

	items, err := f.classify(ctx, fragment)
	switch {
	case err == nil:
		f.metrics.ObserveFallback(metrics.FallbackOK)
		if f.cache != nil && len(items) > 0 {
			f.cache.Add(key, items)
		}
		return items
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		f.metrics.ObserveFallback(metrics.FallbackCancelled)
		f.logger.Debug().Str("fragment", fragment).Msg("fallback abandoned")
	case errors.Is(err, model.ErrMalformedFallbackResponse):
		f.metrics.ObserveFallback(metrics.FallbackMalformed)
		f.logger.Warn().Err(err).Str("fragment", fragment).Msg("fallback response unparseable")
	default:
		f.metrics.ObserveFallback(metrics.FallbackUpstreamError)
		f.logger.Warn().Err(err).Str("fragment", fragment).Msg("fallback call failed")
	}
	return nil
}

func (f *FallbackClassifier) classify(ctx context.Context, fragment string) ([]model.DetectedItem, error) {
	examples := f.nearestCorrections(ctx, fragment)

	if err := f.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: rate limiter: %w", model.ErrUpstreamUnavailable, err)
	}

	resp, err := f.ai.ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: buildFallbackPrompt(examples)},
			{Role: "user", Content: fragment},
		},
		Temperature:    0.1,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fallback completion: %w", err)
	}

	content := resp.Content()
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty completion", model.ErrMalformedFallbackResponse)
	}
	return parseFallbackResponse(content, fragment)
}

// RememberCorrection stores an agent's reclassification for future prompts
func (f *FallbackClassifier) RememberCorrection(ctx context.Context, ex model.CorrectionExample) error {
	if f.corrections == nil || !f.Enabled() {
		return nil
	}
	embeddings, err := f.ai.CreateEmbeddings(ctx, []string{ex.Fragment})
	if err != nil {
		return fmt.Errorf("embed correction: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return fmt.Errorf("embed correction: %w: no embedding returned", model.ErrUpstreamUnavailable)
	}
	if err := f.corrections.SaveCorrection(ctx, ex, embeddings[0]); err != nil {
		return fmt.Errorf("save correction: %w", err)
	}
	return nil
}

func (f *FallbackClassifier) nearestCorrections(ctx context.Context, fragment string) []model.CorrectionExample {
	if f.corrections == nil || f.correctionLimit <= 0 {
		return nil
	}
	embeddings, err := f.ai.CreateEmbeddings(ctx, []string{fragment})
	if err != nil || len(embeddings) == 0 || len(embeddings[0]) == 0 {
		f.logger.Debug().Err(err).Msg("skipping correction lookup")
		return nil
	}
	examples, err := f.corrections.NearestCorrections(ctx, embeddings[0], f.correctionLimit)
	if err != nil {
		f.logger.Warn().Err(err).Msg("correction lookup failed")
		return nil
	}
	return examples
}

// fallbackItem is the loose shape the model is asked to produce
type fallbackItem struct {
	Kind       string  `json:"kind"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

type fallbackEnvelope struct {
	Items []fallbackItem `json:"items"`
}

// parseFallbackResponse accepts {"items":[...]}, a bare array, or a single
// item object, then falls back to "kind: value (0.7)" lines
func parseFallbackResponse(content, fragment string) ([]model.DetectedItem, error) {
	if raw, err := utils.ExtractAIJSON(content); err == nil {
		if items, ok := decodeFallbackItems(raw); ok {
			return normalizeFallbackItems(items, fragment), nil
		}
	}

	if items := parseFallbackLines(content); len(items) > 0 {
		return normalizeFallbackItems(items, fragment), nil
	}

	return nil, fmt.Errorf("%w: %q", model.ErrMalformedFallbackResponse, truncate(content, 80))
}

func decodeFallbackItems(raw json.RawMessage) ([]fallbackItem, bool) {
	if raw[0] == '[' {
		var list []fallbackItem
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, false
		}
		return list, true
	}

	var envelope fallbackEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Items != nil {
		return envelope.Items, true
	}
	var single fallbackItem
	if err := json.Unmarshal(raw, &single); err == nil && single.Kind != "" {
		return []fallbackItem{single}, true
	}
	return nil, false
}

var fallbackLineRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])?\s*([A-Za-z][A-Za-z _-]*?)\s*[:=]\s*(.+?)(?:\s*\((?:confidence\s*[:=]?\s*)?([01](?:\.\d+)?)\))?\s*$`)

func parseFallbackLines(content string) []fallbackItem {
	var items []fallbackItem
	for _, line := range strings.Split(content, "\n") {
		m := fallbackLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if _, ok := model.ParseKind(m[1]); !ok {
			continue
		}
		confidence := 0.5
		if m[3] != "" {
			confidence, _ = strconv.ParseFloat(m[3], 64)
		}
		items = append(items, fallbackItem{
			Kind:       m[1],
			Value:      strings.Trim(strings.TrimSpace(m[2]), `"'`),
			Confidence: confidence,
		})
	}
	return items
}

// normalizeFallbackItems drops items with an unknown kind or empty value,
// clamps confidence to [0,1] and ties every item back to its fragment
func normalizeFallbackItems(raw []fallbackItem, fragment string) []model.DetectedItem {
	items := make([]model.DetectedItem, 0, len(raw))
	for _, r := range raw {
		kind, ok := model.ParseKind(r.Kind)
		if !ok || kind == model.KindUnknown {
			continue
		}
		value := strings.TrimSpace(valueString(r.Value))
		if value == "" {
			continue
		}
		items = append(items, model.DetectedItem{
			Kind:       kind,
			Value:      value,
			Confidence: clamp01(r.Confidence),
			Original:   fragment,
		})
	}
	return items
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func cacheKey(fragment string) string {
	return strings.Join(strings.Fields(strings.ToLower(fragment)), " ")
}

func withOriginal(items []model.DetectedItem, fragment string) []model.DetectedItem {
	out := make([]model.DetectedItem, len(items))
	for i, it := range items {
		it.Original = fragment
		out[i] = it
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

const fallbackSystemPrompt = `You classify fragments of notes a dispatcher types while booking a limo or party bus.
Return ONLY JSON: {"items":[{"kind":"...","value":"...","confidence":0.0}]}

Allowed kinds: phone, email, zip, city, date, time, passengers, hours, pickup_address,
destination, dropoff_address, event_type, vehicle_type, name, website, agent, stop.

Rules:
- A fragment may hold several facts; return one item per fact, or {"items":[]} if none.
- Two capitalized words are a person's name unless a venue keyword (hotel, bar, church, golf, grill...) is present; then it is a stop.
- A time next to "pickup"/"pu" is a time, not an address.
- Dates as YYYY-MM-DD when the day is certain, otherwise the words as typed. Times as typed.
- passengers and hours are plain numbers.
- confidence reflects how sure you are, between 0 and 1. Never exceed 0.79 unless the fact is unmistakable.

Examples:
"sarah from the johnson wedding" -> {"items":[{"kind":"name","value":"Sarah","confidence":0.6},{"kind":"event_type","value":"Wedding","confidence":0.7}]}
"Mario's Pizza Kitchen" -> {"items":[{"kind":"stop","value":"Mario's Pizza Kitchen","confidence":0.7}]}
"back by 11ish" -> {"items":[{"kind":"time","value":"11pm","confidence":0.5}]}
"around twenty kids" -> {"items":[{"kind":"passengers","value":"20","confidence":0.7}]}
"idk yet" -> {"items":[]}`

func buildFallbackPrompt(corrections []model.CorrectionExample) string {
	if len(corrections) == 0 {
		return fallbackSystemPrompt
	}
	var b strings.Builder
	b.WriteString(fallbackSystemPrompt)
	b.WriteString("\n\nPast corrections by agents (follow these):\n")
	for _, c := range corrections {
		fmt.Fprintf(&b, "%q -> {\"items\":[{\"kind\":%q,\"value\":%q,\"confidence\":0.8}]}\n", c.Fragment, c.Kind, c.Value)
	}
	return b.String()
}
