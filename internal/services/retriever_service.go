package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/leolearn/leo-web/internal/embedding"
	"github.com/leolearn/leo-web/internal/lazy"
	"github.com/leolearn/leo-web/internal/vectorindex"
	"github.com/rs/zerolog/log"
)

const (
	// NoMatchesAnswer is returned when the index has nothing near the question.
	NoMatchesAnswer = "❌ Sorry, I couldn't find any relevant information."
	// NoDataAnswer is returned when the top match carries no text.
	NoDataAnswer = "⚠️ No data found."

	// RetrievalTopK is how many neighbors are requested per question.
	RetrievalTopK = 3
	answerField   = "text"
)

// ErrorAnswer renders a retrieval failure as a displayable chat answer.
func ErrorAnswer(err error) string {
	return fmt.Sprintf("⚠️ Internal error: %v", err)
}

// RetrieverServiceProvider defines the interface for the answer retriever.
type RetrieverServiceProvider interface {
	Answer(ctx context.Context, question string) (string, error)
}

// RetrieverService answers questions from the top match of a vector index.
type RetrieverService struct {
	embedder   *lazy.Cell[embedding.Embedder]
	index      *lazy.Cell[vectorindex.Index]
	dimensions int
	timeout    time.Duration
}

// NewRetrieverService creates a RetrieverService. The constructors run on
// first use, and again on a later request if they fail.
func NewRetrieverService(
	newEmbedder func(ctx context.Context) (embedding.Embedder, error),
	newIndex func(ctx context.Context) (vectorindex.Index, error),
	dimensions int,
	timeout time.Duration,
) *RetrieverService {
	return &RetrieverService{
		embedder:   lazy.New(newEmbedder),
		index:      lazy.New(newIndex),
		dimensions: dimensions,
		timeout:    timeout,
	}
}

// Answer embeds question, queries the index and returns the text of the
// highest-ranked match. An empty question is a valid query. Failures are
// returned as *ExternalServiceError.
func (s *RetrieverService) Answer(ctx context.Context, question string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	embedder, err := s.embedder.Get(ctx)
	if err != nil {
		return "", &ExternalServiceError{Service: "embedding provider", Err: err}
	}
	index, err := s.index.Get(ctx)
	if err != nil {
		return "", &ExternalServiceError{Service: "vector index", Err: err}
	}

	vector, err := embedder.Embed(ctx, question)
	if err != nil {
		return "", &ExternalServiceError{Service: "embedding provider", Err: err}
	}
	if s.dimensions > 0 && len(vector) != s.dimensions {
		return "", &ExternalServiceError{
			Service: "embedding provider",
			Err:     fmt.Errorf("expected %d dimensions, got %d", s.dimensions, len(vector)),
		}
	}

	matches, err := index.Query(ctx, vector, RetrievalTopK)
	if err != nil {
		return "", &ExternalServiceError{Service: "vector index", Err: err}
	}

	answer := selectAnswer(matches)
	log.Debug().Int("matches", len(matches)).Str("answer", answer).Msg("Answered query")
	return answer, nil
}

// Close releases the index connection if one was opened.
func (s *RetrieverService) Close() error {
	if index, ok := s.index.Peek(); ok {
		if c, ok := index.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}

// selectAnswer only ever reads the first match; lower-ranked matches are
// fetched but not used.
func selectAnswer(matches []vectorindex.Match) string {
	if len(matches) == 0 {
		return NoMatchesAnswer
	}

	value, ok := matches[0].Metadata[answerField]
	if !ok || value == nil {
		return NoDataAnswer
	}
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprint(value)
}
