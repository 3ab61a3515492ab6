package a11y_test

import (
	"testing"

	"github.com/mpawlak/a11y"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressEmbedding_RoundTrip(t *testing.T) {
	t.Parallel()

	vec := []float32{0.0, 1.0, -1.0, 0.5, -0.25, 0.123}

	data := a11y.CompressEmbedding(vec)
	require.Len(t, data, len(vec), "compressed length matches component count")

	restored := a11y.DecompressEmbedding(data)
	require.Len(t, restored, len(vec))
	for i := range vec {
		assert.InDelta(t, vec[i], restored[i], 1.0/127, "component %d", i)
	}
}

func TestCompressEmbedding_ClampsOutOfRange(t *testing.T) {
	t.Parallel()

	restored := a11y.DecompressEmbedding(a11y.CompressEmbedding([]float32{1.5, -2.0}))
	assert.InDelta(t, 1.0, restored[0], 1e-9)
	assert.InDelta(t, -1.0, restored[1], 1e-9)
}

func TestCompressEmbedding_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, a11y.CompressEmbedding(nil))
	assert.Nil(t, a11y.DecompressEmbedding(nil))
}

func TestCosineSimilarity_SelfAfterRoundTrip(t *testing.T) {
	t.Parallel()

	vec := []float32{0.3, -0.7, 0.1, 0.95, -0.2}
	restored := a11y.DecompressEmbedding(a11y.CompressEmbedding(vec))

	assert.InDelta(t, 1.0, a11y.CosineSimilarity(vec, restored), 1.0/127)
	assert.InDelta(t, 1.0, a11y.CosineSimilarity(restored, restored), 1e-9)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	t.Parallel()

	vec := []float32{0.5, 0.5}
	zero := []float32{0, 0}

	assert.Zero(t, a11y.CosineSimilarity(vec, zero))
	assert.Zero(t, a11y.CosineSimilarity(zero, vec))
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	t.Parallel()

	assert.Zero(t, a11y.CosineSimilarity([]float32{1}, []float32{1, 0}))
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, a11y.CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
}
