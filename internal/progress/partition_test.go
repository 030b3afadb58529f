package progress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{name: "single word", n: 1, want: []int{1}},
		{name: "two words", n: 2, want: []int{2}},
		{name: "five words", n: 5, want: []int{5}},
		{name: "six words", n: 6, want: []int{3, 3}},
		{name: "seven words", n: 7, want: []int{4, 3}},
		{name: "eight words", n: 8, want: []int{4, 4}},
		{name: "nine words", n: 9, want: []int{5, 4}},
		{name: "ten words", n: 10, want: []int{5, 5}},
		{name: "remainder one", n: 11, want: []int{4, 4, 3}},
		{name: "remainder two", n: 12, want: []int{4, 4, 4}},
		{name: "thirteen words", n: 13, want: []int{5, 4, 4}},
		{name: "remainder four", n: 14, want: []int{5, 5, 4}},
		{name: "remainder one, larger", n: 16, want: []int{5, 4, 4, 3}},
		{name: "remainder two, larger", n: 22, want: []int{5, 5, 4, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Partition(tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartition_NoWords(t *testing.T) {
	_, err := Partition(0)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestPartition_Totality(t *testing.T) {
	for n := 1; n <= 200; n++ {
		sizes, err := Partition(n)
		require.NoError(t, err, "n=%d", n)

		sum := 0
		for _, s := range sizes {
			sum += s
			if n >= 6 {
				assert.Contains(t, []int{3, 4, 5}, s, "n=%d sizes=%v", n, sizes)
			}
		}
		assert.Equal(t, n, sum, "n=%d sizes=%v", n, sizes)
	}
}

func TestSplit_PreservesOrder(t *testing.T) {
	ids := make([]uuid.UUID, 13)
	for i := range ids {
		ids[i] = uuid.New()
	}

	batteries, err := Split(ids)
	require.NoError(t, err)
	require.Len(t, batteries, 3)
	assert.Equal(t, ids[0:5], batteries[0])
	assert.Equal(t, ids[5:9], batteries[1])
	assert.Equal(t, ids[9:13], batteries[2])
}

func TestSplit_Empty(t *testing.T) {
	_, err := Split(nil)
	assert.ErrorIs(t, err, ErrNoWords)
}
