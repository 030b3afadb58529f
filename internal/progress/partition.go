// Package progress holds the spaced-repetition rules: battery sizing, the
// per-battery phase machine and the module-level controller transitions.
// Nothing in here touches storage.
package progress

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ErrNoWords is returned when a module has nothing to partition.
var ErrNoWords = errors.New("module has no words")

// small holds the sizes for modules of up to nine words.
var small = map[int][]int{
	6: {3, 3},
	7: {4, 3},
	8: {4, 4},
	9: {5, 4},
}

// Partition returns the battery sizes for n words. Sizes are as many 5s as
// possible without ever leaving a battery of one or two words.
func Partition(n int) ([]int, error) {
	if n <= 0 {
		return nil, ErrNoWords
	}
	if n <= 5 {
		return []int{n}, nil
	}
	if sizes, ok := small[n]; ok {
		return slices.Clone(sizes), nil
	}

	fives, rem := n/5, n%5
	var tail []int
	switch rem {
	case 0:
	case 1:
		fives -= 2
		tail = []int{4, 4, 3}
	case 2:
		fives -= 2
		tail = []int{4, 4, 4}
	case 3:
		fives--
		tail = []int{4, 4}
	case 4:
		tail = []int{4}
	}

	sizes := make([]int, 0, fives+len(tail))
	for i := 0; i < fives; i++ {
		sizes = append(sizes, 5)
	}
	return append(sizes, tail...), nil
}

// Split cuts wordIDs into contiguous batteries sized by Partition.
func Split(wordIDs []uuid.UUID) ([][]uuid.UUID, error) {
	sizes, err := Partition(len(wordIDs))
	if err != nil {
		return nil, err
	}
	out := make([][]uuid.UUID, 0, len(sizes))
	start := 0
	for _, size := range sizes {
		out = append(out, slices.Clone(wordIDs[start:start+size]))
		start += size
	}
	if start != len(wordIDs) {
		return nil, fmt.Errorf("partition covered %d of %d words", start, len(wordIDs))
	}
	return out, nil
}
