package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"callintake/internal/intake"
	"callintake/internal/metrics"
	"callintake/internal/model"
)

// AuditLogger records each classified utterance
type AuditLogger interface {
	LogIntake(ctx context.Context, entry *model.IntakeLog) error
}

// IntakeService runs the classification pipeline: segment, detect, and
// escalate unknown fragments to the fallback classifier when asked to. It
// holds no per-request state and never fails its caller.
type IntakeService struct {
	detector *intake.Detector
	fallback *FallbackClassifier
	audit    AuditLogger
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	loc      *time.Location
	now      func() time.Time
}

// IntakeOption configures an IntakeService
type IntakeOption func(*IntakeService)

// WithAudit enables the asynchronous audit log
func WithAudit(audit AuditLogger) IntakeOption {
	return func(s *IntakeService) { s.audit = audit }
}

// WithMetrics records per-fragment counters
func WithMetrics(m *metrics.Metrics) IntakeOption {
	return func(s *IntakeService) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) IntakeOption {
	return func(s *IntakeService) { s.logger = logger }
}

// WithLocation sets the zone "today" is computed in
func WithLocation(loc *time.Location) IntakeOption {
	return func(s *IntakeService) { s.loc = loc }
}

// WithNow overrides the clock
func WithNow(now func() time.Time) IntakeOption {
	return func(s *IntakeService) { s.now = now }
}

// NewIntakeService creates the pipeline. fallback may be nil.
func NewIntakeService(detector *intake.Detector, fallback *FallbackClassifier, opts ...IntakeOption) *IntakeService {
	s := &IntakeService{
		detector: detector,
		fallback: fallback,
		logger:   zerolog.Nop(),
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the reference date for relative expressions
func (s *IntakeService) Today() time.Time {
	return s.now().In(s.loc)
}

// Fallback exposes the fallback classifier (may be nil)
func (s *IntakeService) Fallback() *FallbackClassifier {
	return s.fallback
}

// Classify runs the pipeline for a stateless request
func (s *IntakeService) Classify(ctx context.Context, req model.ClassifyRequest) *model.ClassifyResponse {
	return s.ClassifyForSession(ctx, "", req)
}

// ClassifyForSession runs the pipeline and tags the audit entry with a session
func (s *IntakeService) ClassifyForSession(ctx context.Context, sessionID string, req model.ClassifyRequest) *model.ClassifyResponse {
	startTime := time.Now()

	items, fallbackCount := s.ClassifyAt(ctx, req.Text, req.UseAI, s.Today())

	took := time.Since(startTime)
	s.metrics.ObserveClassify(took)

	// Log intake (non-blocking)
	if s.audit != nil {
		entry := &model.IntakeLog{
			SessionID:      optionalString(sessionID),
			RawText:        req.Text,
			UseAI:          req.UseAI,
			Items:          model.JSONItems(items),
			UnknownCount:   countUnknown(items),
			FallbackCount:  fallbackCount,
			ResponseTimeMs: int(took.Milliseconds()),
			CreatedAt:      startTime,
		}
		go func() {
			if err := s.audit.LogIntake(context.Background(), entry); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write intake log")
			}
		}()
	}

	return &model.ClassifyResponse{
		Items: items,
		Took:  took.Milliseconds(),
	}
}

// ClassifyAt classifies an utterance against a fixed day. Fragments are
// processed in order; unknown fragments go to the fallback classifier one at a
// time. Once ctx is done the remaining fragments keep their rule result.
func (s *IntakeService) ClassifyAt(ctx context.Context, text string, useAI bool, today time.Time) ([]model.DetectedItem, int) {
	fragments := intake.Segment(text)
	items := make([]model.DetectedItem, 0, len(fragments))
	escalate := useAI && s.fallback.Enabled()
	fallbackCount := 0

	for _, frag := range fragments {
		item := s.detector.DetectAt(frag, today)
		if !item.IsUnknown() || !escalate || ctx.Err() != nil {
			s.metrics.ObserveFragment(string(item.Kind), "rules")
			items = append(items, item)
			continue
		}

		extra := s.fallback.Classify(ctx, frag)
		if len(extra) == 0 {
			s.metrics.ObserveFragment(string(item.Kind), "rules")
			items = append(items, item)
			continue
		}

		fallbackCount++
		for _, it := range extra {
			it = s.withMetro(it)
			s.metrics.ObserveFragment(string(it.Kind), "fallback")
			items = append(items, it)
		}
	}

	s.logger.Debug().
		Int("fragments", len(fragments)).
		Int("items", len(items)).
		Int("fallback", fallbackCount).
		Msg("classified utterance")

	return items, fallbackCount
}

// RecordCorrection remembers an agent's reclassification in the background
func (s *IntakeService) RecordCorrection(fragment string, kind model.Kind, value string) {
	if s.fallback == nil || strings.TrimSpace(fragment) == "" {
		return
	}
	ex := model.CorrectionExample{Fragment: fragment, Kind: kind, Value: value}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.fallback.RememberCorrection(ctx, ex); err != nil {
			s.logger.Warn().Err(err).Str("fragment", fragment).Msg("failed to store correction")
		}
	}()
}

// withMetro fills normalizedCity on fallback locations the rules would have
// normalized
func (s *IntakeService) withMetro(it model.DetectedItem) model.DetectedItem {
	switch it.Kind {
	case model.KindCity, model.KindPickupAddress, model.KindDropoffAddress:
		if it.NormalizedCity == "" {
			if metro, ok := s.detector.Cities().Metro(it.Value); ok {
				it.NormalizedCity = metro
			}
		}
	}
	return it
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func countUnknown(items []model.DetectedItem) int {
	n := 0
	for _, it := range items {
		if it.IsUnknown() {
			n++
		}
	}
	return n
}
