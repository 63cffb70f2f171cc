package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callintake/internal/config"
	"callintake/internal/metrics"
	"callintake/internal/model"
)

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		AutoConfirmThreshold:  0.8,
		FallbackCacheSize:     16,
		FallbackRatePerMinute: 6000,
		FallbackBurst:         10,
		CorrectionExamples:    2,
		Timezone:              "UTC",
	}
}

func TestParseFallbackResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []model.DetectedItem
		wantErr error
	}{
		{
			name:    "envelope",
			content: `{"items":[{"kind":"name","value":"Sarah","confidence":0.6},{"kind":"event_type","value":"Wedding","confidence":0.7}]}`,
			want: []model.DetectedItem{
				{Kind: model.KindName, Value: "Sarah", Confidence: 0.6, Original: "frag"},
				{Kind: model.KindEventType, Value: "Wedding", Confidence: 0.7, Original: "frag"},
			},
		},
		{
			name:    "bare array in markdown",
			content: "```json\n[{\"kind\":\"passengers\",\"value\":20,\"confidence\":0.7}]\n```",
			want:    []model.DetectedItem{{Kind: model.KindPassengers, Value: "20", Confidence: 0.7, Original: "frag"}},
		},
		{
			name:    "single object",
			content: `{"kind":"Pickup Address","value":"Mario's","confidence":1.7}`,
			want:    []model.DetectedItem{{Kind: model.KindPickupAddress, Value: "Mario's", Confidence: 1, Original: "frag"}},
		},
		{
			name:    "envelope after prose with trailing comma",
			content: `Here you go: {"items":[{"kind":"hours","value":"4","confidence":0.8},]}`,
			want:    []model.DetectedItem{{Kind: model.KindHours, Value: "4", Confidence: 0.8, Original: "frag"}},
		},
		{
			name:    "empty items",
			content: `{"items":[]}`,
			want:    []model.DetectedItem{},
		},
		{
			name:    "drops invalid kinds and empty values",
			content: `{"items":[{"kind":"price","value":"$400"},{"kind":"name","value":""},{"kind":"unknown","value":"x"},{"kind":"zip","value":"60614","confidence":-1}]}`,
			want:    []model.DetectedItem{{Kind: model.KindZip, Value: "60614", Confidence: 0, Original: "frag"}},
		},
		{
			name:    "text lines",
			content: "Here is what I found:\n- name: Dana White (0.7)\n- time = 11pm\n- mood: happy",
			want: []model.DetectedItem{
				{Kind: model.KindName, Value: "Dana White", Confidence: 0.7, Original: "frag"},
				{Kind: model.KindTime, Value: "11pm", Confidence: 0.5, Original: "frag"},
			},
		},
		{
			name:    "garbage",
			content: "I am not sure what you mean.",
			wantErr: model.ErrMalformedFallbackResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFallbackResponse(tt.content, "frag")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallbackClassifier_Disabled(t *testing.T) {
	assert.False(t, NewFallbackClassifier(nil, testPipelineConfig()).Enabled())

	ai := newFakeAI(nil)
	ai.enabled = false
	f := NewFallbackClassifier(ai, testPipelineConfig())
	assert.Nil(t, f.Classify(context.Background(), "anything"))
	assert.Zero(t, ai.callCount())

	var nilClassifier *FallbackClassifier
	assert.False(t, nilClassifier.Enabled())
}

func TestFallbackClassifier_CachesSuccessfulResults(t *testing.T) {
	ai := newFakeAI(map[string]string{
		"Mario's Pizza": `{"items":[{"kind":"stop","value":"Mario's Pizza","confidence":0.7}]}`,
	})
	m := metrics.MustNew(prometheus.NewRegistry())
	f := NewFallbackClassifier(ai, testPipelineConfig(), WithFallbackMetrics(m))

	first := f.Classify(context.Background(), "Mario's Pizza")
	second := f.Classify(context.Background(), "mario's  PIZZA")

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, 1, ai.callCount())
	assert.Equal(t, "mario's  PIZZA", second[0].Original)
	assert.Equal(t, "Mario's Pizza", first[0].Original)
}

func TestFallbackClassifier_FailuresYieldNoItems(t *testing.T) {
	t.Run("upstream error", func(t *testing.T) {
		ai := newFakeAI(nil)
		ai.err = errors.Join(model.ErrUpstreamUnavailable, errors.New("503"))
		f := NewFallbackClassifier(ai, testPipelineConfig())
		assert.Empty(t, f.Classify(context.Background(), "x"))
	})

	t.Run("malformed", func(t *testing.T) {
		ai := newFakeAI(map[string]string{"x": "no idea"})
		f := NewFallbackClassifier(ai, testPipelineConfig())
		assert.Empty(t, f.Classify(context.Background(), "x"))

		_, err := f.classify(context.Background(), "x")
		assert.ErrorIs(t, err, model.ErrMalformedFallbackResponse)
	})

	t.Run("cancelled", func(t *testing.T) {
		ai := newFakeAI(nil)
		ai.block = make(chan struct{})
		f := NewFallbackClassifier(ai, testPipelineConfig())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Empty(t, f.Classify(ctx, "x"))
	})
}

type memoryCorrections struct {
	saved []model.CorrectionExample
}

func (m *memoryCorrections) SaveCorrection(_ context.Context, ex model.CorrectionExample, embedding []float32) error {
	if len(embedding) == 0 {
		return errors.New("empty embedding")
	}
	m.saved = append(m.saved, ex)
	return nil
}

func (m *memoryCorrections) NearestCorrections(_ context.Context, _ []float32, limit int) ([]model.CorrectionExample, error) {
	if len(m.saved) > limit {
		return m.saved[:limit], nil
	}
	return m.saved, nil
}

func TestFallbackClassifier_CorrectionsReachThePrompt(t *testing.T) {
	ai := newFakeAI(map[string]string{"the barn": `{"items":[{"kind":"stop","value":"The Barn","confidence":0.7}]}`})
	store := &memoryCorrections{}
	f := NewFallbackClassifier(ai, testPipelineConfig(), WithCorrections(store))

	require.NoError(t, f.RememberCorrection(context.Background(), model.CorrectionExample{
		Fragment: "big red barn", Kind: model.KindStop, Value: "Big Red Barn",
	}))
	require.Len(t, store.saved, 1)

	f.Classify(context.Background(), "the barn")
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "Past corrections")
	assert.Contains(t, ai.prompts[0], `"big red barn"`)
}

func TestFallbackClassifier_CorrectionLookupFailureIsIgnored(t *testing.T) {
	ai := newFakeAI(map[string]string{"x": `{"items":[{"kind":"name","value":"X","confidence":0.5}]}`})
	ai.embedErr = errors.New("embeddings down")
	f := NewFallbackClassifier(ai, testPipelineConfig(), WithCorrections(&memoryCorrections{}))

	assert.Len(t, f.Classify(context.Background(), "x"), 1)
	assert.NotContains(t, ai.prompts[0], "Past corrections")
}
