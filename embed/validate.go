package embed

import (
	"fmt"
	"math"
)

// ValidateEmbedding checks that a vector has the expected dimensionality and
// contains only finite components.
func ValidateEmbedding(vector []float32, dimensions int) error {
	if len(vector) != dimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), dimensions)
	}
	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d", ErrInvalidComponent, i)
		}
	}
	return nil
}

// NormalizeVector scales the vector to unit length in place and returns it.
// Unit-length storage lets similarity search use a plain dot product.
func NormalizeVector(vector []float32) []float32 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vector
	}
	inv := 1.0 / math.Sqrt(sumSquares)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) * inv)
	}
	return vector
}
