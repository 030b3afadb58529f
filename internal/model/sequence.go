package model

import (
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// WordQueue is an ordered list of word ids. It backs both the per-phase
// question queue of a battery and the module-level final round list.
type WordQueue []uuid.UUID

// Head returns the next word to ask.
func (q WordQueue) Head() (uuid.UUID, bool) {
	if len(q) == 0 {
		return uuid.Nil, false
	}
	return q[0], true
}

func (q WordQueue) Contains(id uuid.UUID) bool {
	return lo.Contains(q, id)
}

func (q WordQueue) Len() int { return len(q) }

// Resolve removes a correctly answered word.
func (q WordQueue) Resolve(id uuid.UUID) (WordQueue, error) {
	idx := slices.Index(q, id)
	if idx < 0 {
		return q, ErrInvalidState
	}
	out := make(WordQueue, 0, len(q)-1)
	out = append(out, q[:idx]...)
	return append(out, q[idx+1:]...), nil
}

// EnqueueMiss moves a wrongly answered word to the end so it is asked
// again after every other pending word.
func (q WordQueue) EnqueueMiss(id uuid.UUID) (WordQueue, error) {
	rest, err := q.Resolve(id)
	if err != nil {
		return q, err
	}
	return append(rest, id), nil
}

// Add appends id unless it is already present.
func (q WordQueue) Add(id uuid.UUID) WordQueue {
	if q.Contains(id) {
		return q
	}
	return append(q, id)
}

// BatteryOrder is the per-student permutation of a module's batteries. It is
// fixed when the progress record is created.
type BatteryOrder []uuid.UUID

// Advance returns the battery that follows id, or false when id is the last
// one (or not part of the order).
func (o BatteryOrder) Advance(id uuid.UUID) (uuid.UUID, bool) {
	idx := slices.Index(o, id)
	if idx < 0 || idx+1 >= len(o) {
		return uuid.Nil, false
	}
	return o[idx+1], true
}

// First returns the first battery of the order.
func (o BatteryOrder) First() (uuid.UUID, bool) {
	if len(o) == 0 {
		return uuid.Nil, false
	}
	return o[0], true
}

// CompletedBatteries is the append-only list of finished battery ids.
type CompletedBatteries []uuid.UUID

// MarkComplete appends id once.
func (c CompletedBatteries) MarkComplete(id uuid.UUID) CompletedBatteries {
	if lo.Contains(c, id) {
		return c
	}
	return append(c, id)
}

// Covers reports whether every battery of order has been completed.
func (c CompletedBatteries) Covers(order BatteryOrder) bool {
	return len(order) > 0 && lo.Every(c, order)
}
