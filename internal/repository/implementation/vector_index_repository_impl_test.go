package implementation

import (
	"fmt"
	"math/rand"
	"testing"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorOfLength(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = rand.Float32()
	}
	return v
}

func TestValidateDimensionsAccepts(t *testing.T) {
	entries := []*entity.VectorEntry{
		{Id: "a", Values: vectorOfLength(768)},
		{Id: "b", Values: vectorOfLength(768)},
	}
	assert.NoError(t, ValidateDimensions(entries, 768))
}

func TestValidateDimensionsRejectsAnyMismatch(t *testing.T) {
	const dimension = 768
	for i := 0; i < 100; i++ {
		wrong := rand.Intn(2048) + 1
		if wrong == dimension {
			continue
		}

		entries := []*entity.VectorEntry{
			{Id: "ok", Values: vectorOfLength(dimension)},
			{Id: fmt.Sprintf("bad-%d", wrong), Values: vectorOfLength(wrong)},
		}
		err := ValidateDimensions(entries, dimension)
		require.Error(t, err, "length %d must be rejected", wrong)
		assert.ErrorIs(t, err, contract.ErrDimensionMismatch)
	}
}

func TestValidateDimensionsEmptyInput(t *testing.T) {
	assert.NoError(t, ValidateDimensions(nil, 768))
}
