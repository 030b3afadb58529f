package progress

import (
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Shuffler reorders ids in place.
type Shuffler func(ids []uuid.UUID)

// RandomShuffle is the production Shuffler.
func RandomShuffle(ids []uuid.UUID) {
	lo.Shuffle(ids)
}

// shuffled returns a shuffled copy of ids.
func shuffled(ids []uuid.UUID, shuffle Shuffler) []uuid.UUID {
	out := slices.Clone(ids)
	if shuffle != nil {
		shuffle(out)
	}
	return out
}
