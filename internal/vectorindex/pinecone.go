package vectorindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
)

// PineconeIndex queries one named Pinecone index with metadata included.
type PineconeIndex struct {
	name string
	conn *pinecone.IndexConnection
}

// NewPineconeIndex resolves the host of the named index and connects to it.
func NewPineconeIndex(ctx context.Context, apiKey, name string) (*PineconeIndex, error) {
	if apiKey == "" {
		return nil, errors.New("PINECONE_API_KEY is not set")
	}
	if name == "" {
		return nil, errors.New("pinecone index name is not set")
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index %s: %w", name, err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: idx.Host})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to index %s: %w", name, err)
	}

	return &PineconeIndex{name: name, conn: conn}, nil
}

// Query returns up to topK matches for vector.
func (p *PineconeIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	res, err := p.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone query on %s failed: %w", p.name, err)
	}
	if res == nil {
		return nil, nil
	}
	return convertMatches(res.Matches), nil
}

// Close releases the index connection.
func (p *PineconeIndex) Close() error {
	return p.conn.Close()
}

func convertMatches(scored []*pinecone.ScoredVector) []Match {
	matches := make([]Match, 0, len(scored))
	for _, sv := range scored {
		if sv == nil {
			continue
		}
		m := Match{Score: sv.Score}
		if sv.Vector != nil {
			m.ID = sv.Vector.Id
			if sv.Vector.Metadata != nil {
				m.Metadata = sv.Vector.Metadata.AsMap()
			}
		}
		matches = append(matches, m)
	}
	return matches
}
