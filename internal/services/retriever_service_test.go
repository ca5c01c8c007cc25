package services

import (
	"context"
	"errors"
	"testing"

	"github.com/leolearn/leo-web/internal/embedding"
	"github.com/leolearn/leo-web/internal/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	dims  int
	err   error
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dims), nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dims }

type fakeIndex struct {
	matches []vectorindex.Match
	err     error
	topK    int
	closed  bool
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int) ([]vectorindex.Match, error) {
	f.topK = topK
	return f.matches, f.err
}

func (f *fakeIndex) Close() error {
	f.closed = true
	return nil
}

func newRetriever(emb *fakeEmbedder, idx *fakeIndex) *RetrieverService {
	return NewRetrieverService(
		func(context.Context) (embedding.Embedder, error) { return emb, nil },
		func(context.Context) (vectorindex.Index, error) { return idx, nil },
		4, 0,
	)
}

func TestAnswer_NoMatches(t *testing.T) {
	idx := &fakeIndex{}
	svc := newRetriever(&fakeEmbedder{dims: 4}, idx)

	answer, err := svc.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, NoMatchesAnswer, answer)
	assert.Equal(t, RetrievalTopK, idx.topK)
}

func TestAnswer_TopMatchWithoutText(t *testing.T) {
	idx := &fakeIndex{matches: []vectorindex.Match{
		{ID: "a", Metadata: map[string]any{"title": "no text here"}},
		{ID: "b", Metadata: map[string]any{"text": "second"}},
	}}
	svc := newRetriever(&fakeEmbedder{dims: 4}, idx)

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, NoDataAnswer, answer)
}

func TestAnswer_TopMatchNilMetadata(t *testing.T) {
	svc := newRetriever(&fakeEmbedder{dims: 4}, &fakeIndex{matches: []vectorindex.Match{{ID: "a"}}})

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, NoDataAnswer, answer)
}

func TestAnswer_OnlyTopMatchIsUsed(t *testing.T) {
	idx := &fakeIndex{matches: []vectorindex.Match{
		{ID: "a", Score: 0.9, Metadata: map[string]any{"text": "Paris is the capital of France"}},
		{ID: "b", Score: 0.8, Metadata: map[string]any{"text": "Berlin is the capital of Germany"}},
		{ID: "c", Score: 0.7, Metadata: map[string]any{"text": "Rome is the capital of Italy"}},
	}}
	svc := newRetriever(&fakeEmbedder{dims: 4}, idx)

	answer, err := svc.Answer(context.Background(), "capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France", answer)
}

func TestAnswer_EmptyQuestionIsQueried(t *testing.T) {
	emb := &fakeEmbedder{dims: 4}
	svc := newRetriever(emb, &fakeIndex{})

	answer, err := svc.Answer(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.Equal(t, []string{""}, emb.texts)
}

func TestAnswer_ExternalFailures(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name    string
		svc     *RetrieverService
		service string
	}{
		{
			name: "embedder init",
			svc: NewRetrieverService(
				func(context.Context) (embedding.Embedder, error) { return nil, boom },
				func(context.Context) (vectorindex.Index, error) { return &fakeIndex{}, nil },
				4, 0),
			service: "embedding provider",
		},
		{
			name: "index init",
			svc: NewRetrieverService(
				func(context.Context) (embedding.Embedder, error) { return &fakeEmbedder{dims: 4}, nil },
				func(context.Context) (vectorindex.Index, error) { return nil, boom },
				4, 0),
			service: "vector index",
		},
		{
			name:    "embed call",
			svc:     newRetriever(&fakeEmbedder{dims: 4, err: boom}, &fakeIndex{}),
			service: "embedding provider",
		},
		{
			name:    "query call",
			svc:     newRetriever(&fakeEmbedder{dims: 4}, &fakeIndex{err: boom}),
			service: "vector index",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Answer(context.Background(), "q")

			var extErr *ExternalServiceError
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, tt.service, extErr.Service)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, ErrorAnswer(err), "connection refused")
		})
	}
}

func TestAnswer_DimensionMismatch(t *testing.T) {
	svc := newRetriever(&fakeEmbedder{dims: 3}, &fakeIndex{})

	_, err := svc.Answer(context.Background(), "q")
	var extErr *ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "expected 4 dimensions, got 3")
}

func TestAnswer_InitRetriedAfterFailure(t *testing.T) {
	attempts := 0
	svc := NewRetrieverService(
		func(context.Context) (embedding.Embedder, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("model loading")
			}
			return &fakeEmbedder{dims: 4}, nil
		},
		func(context.Context) (vectorindex.Index, error) { return &fakeIndex{}, nil },
		4, 0)

	_, err := svc.Answer(context.Background(), "q")
	require.Error(t, err)

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, NoMatchesAnswer, answer)

	_, err = svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetrieverClose(t *testing.T) {
	idx := &fakeIndex{}
	svc := newRetriever(&fakeEmbedder{dims: 4}, idx)

	require.NoError(t, svc.Close())
	assert.False(t, idx.closed, "nothing opened yet")

	_, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	require.NoError(t, svc.Close())
	assert.True(t, idx.closed)
}

func TestSelectAnswer_NonStringText(t *testing.T) {
	got := selectAnswer([]vectorindex.Match{{Metadata: map[string]any{"text": float64(42)}}})
	assert.Equal(t, "42", got)
}
