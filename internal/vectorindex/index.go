// Package vectorindex wraps the hosted nearest-neighbor index.
package vectorindex

import "context"

// Match is one ranked result of a similarity query.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Index finds the stored vectors nearest to a query vector, best first.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
