package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		result := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, result[0], 0.0001)
		assert.InDelta(t, 0.8, result[1], 0.0001)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		result := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, result)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		input := []float32{3, 4}
		NormalizeVector(input)
		assert.Equal(t, []float32{3, 4}, input)
	})
}
