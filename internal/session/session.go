// Package session keeps live intake calls: one chip board per call, fed by
// submissions where only the most recent one is allowed to land.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"callintake/internal/chips"
	"callintake/internal/model"
)

// Classifier is the pipeline a session submits to
type Classifier interface {
	ClassifyForSession(ctx context.Context, sessionID string, req model.ClassifyRequest) *model.ClassifyResponse
	RecordCorrection(fragment string, kind model.Kind, value string)
	Today() time.Time
}

// Result is the outcome of one submission
type Result struct {
	Items []model.DetectedItem `json:"items"`
	Added []chips.Chip         `json:"added"`
	State chips.State          `json:"state"`
	// Superseded is set when a newer submission started before this one
	// finished; its items were not added to the board.
	Superseded bool `json:"superseded,omitempty"`
}

// Session is one call in progress. Safe for concurrent use.
type Session struct {
	ID string

	board      *chips.Board
	classifier Classifier
	debounce   time.Duration
	logger     zerolog.Logger
	now        func() time.Time

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	timer      *time.Timer
	closed     bool
	done       chan struct{}
	lastSeen   time.Time
	subs       map[int]func(Result, error)
	nextSub    int
}

func newSession(id string, board *chips.Board, classifier Classifier, debounce time.Duration, now func() time.Time, logger zerolog.Logger) *Session {
	return &Session{
		ID:         id,
		board:      board,
		classifier: classifier,
		debounce:   debounce,
		logger:     logger.With().Str("session", id).Logger(),
		now:        now,
		done:       make(chan struct{}),
		lastSeen:   now(),
		subs:       make(map[int]func(Result, error)),
	}
}

// Done is closed when the session closes
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Board returns the session's chip board
func (s *Session) Board() *chips.Board {
	return s.board
}

// State snapshots the board
func (s *Session) State() chips.State {
	s.touch()
	return s.board.Snapshot()
}

// Subscribe registers fn for results of debounced submissions. Every
// subscriber sees every result; the returned func removes only this one.
func (s *Session) Subscribe(fn func(Result, error)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Submit classifies an utterance and adds its items to the board. Starting a
// submission cancels the one in flight; a result is applied only while its
// submission is still the latest and the session is open.
func (s *Session) Submit(ctx context.Context, req model.ClassifyRequest) (Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", model.ErrSessionClosed, s.ID)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lastSeen = s.now()
	s.mu.Unlock()
	defer cancel()

	resp := s.classifier.ClassifyForSession(runCtx, s.ID, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Debug().Uint64("generation", gen).Msg("discarding result for closed session")
		return Result{}, fmt.Errorf("%w: %s", model.ErrSessionClosed, s.ID)
	}
	if gen != s.generation {
		s.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", s.generation).
			Msg("discarding superseded result")
		return Result{Items: resp.Items, State: s.board.Snapshot(), Superseded: true}, nil
	}

	s.cancel = nil
	added := s.board.Add(resp.Items)
	return Result{Items: resp.Items, Added: added, State: s.board.Snapshot()}, nil
}

// Debounce schedules a submission once input has been stable for the
// debounce interval. Each call replaces the pending one.
func (s *Session) Debounce(req model.ClassifyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: %s", model.ErrSessionClosed, s.ID)
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.lastSeen = s.now()
	s.timer = time.AfterFunc(s.debounce, func() {
		res, err := s.Submit(context.Background(), req)
		if err != nil {
			s.logger.Debug().Err(err).Msg("debounced submission dropped")
		}
		s.mu.Lock()
		subs := make([]func(Result, error), 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
		s.mu.Unlock()
		for _, fn := range subs {
			fn(res, err)
		}
	})
	return nil
}

// Confirm confirms a chip
func (s *Session) Confirm(chipID string) (chips.Chip, error) {
	s.touch()
	return s.board.Confirm(chipID)
}

// Reject rejects a chip
func (s *Session) Reject(chipID string) (chips.Chip, error) {
	s.touch()
	return s.board.Reject(chipID)
}

// Reclassify overrides a chip's kind and remembers the correction for the
// fallback classifier
func (s *Session) Reclassify(chipID string, kind model.Kind, value string) (chips.Chip, error) {
	s.touch()
	c, err := s.board.Reclassify(chipID, kind, value)
	if err != nil {
		return chips.Chip{}, err
	}
	s.classifier.RecordCorrection(c.Item.Original, c.Item.Kind, c.Item.Value)
	return c, nil
}

// ConfirmAll confirms every pending chip
func (s *Session) ConfirmAll() []chips.Chip {
	s.touch()
	return s.board.ConfirmAll()
}

// Close cancels in-flight work and pending debounced input. Results that
// arrive afterwards are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
