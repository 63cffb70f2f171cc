package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeAI is a scripted AIClient
type fakeAI struct {
	mu        sync.Mutex
	enabled   bool
	replies   map[string]string // fragment -> completion content
	err       error
	block     chan struct{} // when set, ChatCompletion waits on it or ctx
	calls     []string
	prompts   []string
	embedErr  error
	embedding []float32

	// failCall makes the n-th completion (1-based) return failErr
	failCall int
	failErr  error
	// delay holds each completion open so overlapping calls show up in maxInFlight
	delay       time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeAI(replies map[string]string) *fakeAI {
	return &fakeAI{enabled: true, replies: replies, embedding: []float32{0.1, 0.2, 0.3}}
}

func (f *fakeAI) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	fragment := req.Messages[len(req.Messages)-1].Content

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, fragment)
	f.prompts = append(f.prompts, req.Messages[0].Content)
	block, err := f.block, f.err
	if f.failCall == len(f.calls) {
		err = f.failErr
	}
	content := f.replies[fragment]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	resp := &ChatCompletionResponse{}
	resp.Choices = append(resp.Choices, struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	}{Message: ChatMessage{Role: "assistant", Content: content}})
	return resp, nil
}

func (f *fakeAI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.embedding
	}
	return out, nil
}

func (f *fakeAI) IsEnabled() bool { return f.enabled }

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAI) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
