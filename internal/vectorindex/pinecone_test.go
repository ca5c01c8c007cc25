package vectorindex

import (
	"context"
	"testing"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestConvertMatches(t *testing.T) {
	meta, err := structpb.NewStruct(map[string]any{"text": "Paris is the capital of France", "page": 3})
	require.NoError(t, err)

	got := convertMatches([]*pinecone.ScoredVector{
		{Score: 0.9, Vector: &pinecone.Vector{Id: "a", Metadata: meta}},
		nil,
		{Score: 0.5, Vector: &pinecone.Vector{Id: "b"}},
		{Score: 0.1},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, float32(0.9), got[0].Score)
	assert.Equal(t, "Paris is the capital of France", got[0].Metadata["text"])
	assert.Equal(t, float64(3), got[0].Metadata["page"])
	assert.Nil(t, got[1].Metadata)
	assert.Equal(t, "", got[2].ID)
}

func TestNewPineconeIndex_RequiresKeyAndName(t *testing.T) {
	_, err := NewPineconeIndex(context.Background(), "", "leo")
	assert.ErrorContains(t, err, "PINECONE_API_KEY")

	_, err = NewPineconeIndex(context.Background(), "key", "")
	assert.Error(t, err)
}
