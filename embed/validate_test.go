package embed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmbedding(t *testing.T) {
	valid := make([]float32, 1536)
	valid[0] = 0.5
	assert.NoError(t, ValidateEmbedding(valid, 1536))

	assert.ErrorIs(t, ValidateEmbedding(make([]float32, 768), 1536), ErrDimensionMismatch)
	assert.ErrorIs(t, ValidateEmbedding(nil, 1536), ErrDimensionMismatch)

	nan := make([]float32, 4)
	nan[2] = float32(math.NaN())
	assert.ErrorIs(t, ValidateEmbedding(nan, 4), ErrInvalidComponent)

	inf := make([]float32, 4)
	inf[0] = float32(math.Inf(1))
	assert.ErrorIs(t, ValidateEmbedding(inf, 4), ErrInvalidComponent)
}

func TestNormalizeVector(t *testing.T) {
	v := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := NormalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestHeuristicCounter(t *testing.T) {
	c := heuristicCounter{}
	assert.Zero(t, c.Count(""))
	assert.Equal(t, 1, c.Count("hey"))
	assert.Equal(t, 4, c.Count("sixteen chars!!!"))
}
