// Package chips holds the per-call confidence gate: detected items become
// chips, confident chips confirm themselves, and every confirmed chip is
// written into the structured call record.
package chips

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"callintake/internal/metrics"
	"callintake/internal/model"
)

// Status is a chip's lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Chip transitions reported to metrics
const (
	TransitionAutoConfirmed = "auto_confirmed"
	TransitionConfirmed     = "confirmed"
	TransitionRejected      = "rejected"
	TransitionReclassified  = "reclassified"
	TransitionFolded        = "folded"
)

// DefaultThreshold is the auto-confirm confidence
const DefaultThreshold = 0.8

// Chip is a detected item awaiting or past agent review
type Chip struct {
	ID            string             `json:"id"`
	Item          model.DetectedItem `json:"item"`
	Status        Status             `json:"status"`
	Confirmed     bool               `json:"confirmed"`
	AutoPopulated bool               `json:"autoPopulated"`

	folded bool // an unknown written into tripNotes by confirm-all
}

// State is a copy of the board safe to serialize
type State struct {
	Chips  []Chip     `json:"chips"`
	Record CallRecord `json:"record"`
	Agent  string     `json:"agent,omitempty"`
}

// Option configures a Board
type Option func(*Board)

// WithClock sets the reference day used when normalizing dates
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithMetrics records chip transitions
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Board) { b.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Board) { b.logger = logger }
}

// Board is one call's chips and record. Safe for concurrent use.
type Board struct {
	mu        sync.Mutex
	threshold float64
	chips     []*Chip
	byID      map[string]*Chip
	record    CallRecord
	agent     string
	applied   []*Chip // confirmed chips in the order they reached the record
	seq       int

	now     func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewBoard creates an empty board. A threshold outside [0,1] uses DefaultThreshold.
func NewBoard(threshold float64, opts ...Option) *Board {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	b := &Board{
		threshold: threshold,
		byID:      make(map[string]*Chip),
		now:       time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Threshold returns the auto-confirm confidence
func (b *Board) Threshold() float64 {
	return b.threshold
}

// Add turns items into chips in order. Items at or above the threshold, other
// than unknown, are confirmed and applied immediately.
func (b *Board) Add(items []model.DetectedItem) []Chip {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := make([]Chip, 0, len(items))
	for _, item := range items {
		b.seq++
		c := &Chip{
			ID:     "c" + strconv.Itoa(b.seq),
			Item:   item,
			Status: StatusPending,
		}
		if !item.IsUnknown() && item.Confidence >= b.threshold {
			c.AutoPopulated = true
			b.confirm(c, TransitionAutoConfirmed)
		}
		b.chips = append(b.chips, c)
		b.byID[c.ID] = c
		added = append(added, *c)
	}
	return added
}

// Confirm accepts a pending chip and applies it
func (b *Board) Confirm(id string) (Chip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.pending(id)
	if err != nil {
		return Chip{}, err
	}
	b.confirm(c, TransitionConfirmed)
	return *c, nil
}

// Reject discards a pending chip without touching the record
func (b *Board) Reject(id string) (Chip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.pending(id)
	if err != nil {
		return Chip{}, err
	}
	c.Status = StatusRejected
	b.metrics.ObserveChip(TransitionRejected)
	return *c, nil
}

// Reclassify overrides a chip's kind, and its value when value is not empty,
// then confirms it. Pending and confirmed chips, auto-confirmed ones included,
// can be re-typed; a confirmed chip's old field is taken back out of the
// record. The result is never marked auto-populated.
func (b *Board) Reclassify(id string, kind model.Kind, value string) (Chip, error) {
	canonical, ok := model.ParseKind(string(kind))
	if !ok || canonical == model.KindUnknown {
		return Chip{}, fmt.Errorf("%w: cannot reclassify as %q", model.ErrUnknownKind, kind)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.byID[id]
	if !ok {
		return Chip{}, fmt.Errorf("%w: %s", model.ErrChipNotFound, id)
	}
	if c.Status == StatusRejected {
		return Chip{}, fmt.Errorf("%w: %s is %s", model.ErrChipFinalized, id, c.Status)
	}

	wasConfirmed := c.Status == StatusConfirmed
	c.Item.Kind = canonical
	if value != "" {
		c.Item.Value = value
	}
	c.Item.NormalizedCity = ""
	c.AutoPopulated = false
	c.folded = false

	if !wasConfirmed {
		b.confirm(c, TransitionReclassified)
		return *c, nil
	}
	b.rebuild()
	b.observe(c, TransitionReclassified)
	return *c, nil
}

// ConfirmAll confirms every pending chip. Pending unknown chips are folded
// into tripNotes by their original text. Returns the chips it changed.
func (b *Board) ConfirmAll() []Chip {
	b.mu.Lock()
	defer b.mu.Unlock()

	var changed []Chip
	for _, c := range b.chips {
		if c.Status != StatusPending {
			continue
		}
		transition := TransitionConfirmed
		if c.Item.IsUnknown() {
			transition = TransitionFolded
		}
		b.confirm(c, transition)
		changed = append(changed, *c)
	}
	return changed
}

// Chip returns a copy of one chip
func (b *Board) Chip(id string) (Chip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.byID[id]
	if !ok {
		return Chip{}, fmt.Errorf("%w: %s", model.ErrChipNotFound, id)
	}
	return *c, nil
}

// Record returns a copy of the call record
func (b *Board) Record() CallRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record
}

// Snapshot copies chips, record and agent
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	chips := make([]Chip, len(b.chips))
	for i, c := range b.chips {
		chips[i] = *c
	}
	return State{Chips: chips, Record: b.record, Agent: b.agent}
}

func (b *Board) pending(id string) (*Chip, error) {
	c, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrChipNotFound, id)
	}
	if c.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s is %s", model.ErrChipFinalized, id, c.Status)
	}
	return c, nil
}

// confirm marks c confirmed and applies it; callers hold b.mu
func (b *Board) confirm(c *Chip, transition string) {
	c.Status = StatusConfirmed
	c.Confirmed = true
	c.folded = transition == TransitionFolded
	b.applied = append(b.applied, c)
	b.applyChip(c)
	b.observe(c, transition)
}

func (b *Board) applyChip(c *Chip) {
	switch {
	case c.Item.Kind == model.KindAgent:
		b.agent = c.Item.Value
	case c.Item.IsUnknown() && !c.folded:
		// only confirm-all writes unknown text into the record
	default:
		b.record.apply(c.Item, b.now())
	}
}

// rebuild replays every confirmed chip onto an empty record
func (b *Board) rebuild() {
	b.record = CallRecord{}
	b.agent = ""
	for _, c := range b.applied {
		b.applyChip(c)
	}
}

func (b *Board) observe(c *Chip, transition string) {
	b.metrics.ObserveChip(transition)
	b.logger.Debug().
		Str("chip", c.ID).
		Str("kind", string(c.Item.Kind)).
		Str("transition", transition).
		Msg("chip confirmed")
}
