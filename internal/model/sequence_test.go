package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordQueue(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	q := WordQueue{a, b, c}

	head, ok := q.Head()
	require.True(t, ok)
	assert.Equal(t, a, head)

	missed, err := q.EnqueueMiss(a)
	require.NoError(t, err)
	assert.Equal(t, WordQueue{b, c, a}, missed)
	assert.Equal(t, WordQueue{a, b, c}, q, "operations do not mutate the receiver")

	resolved, err := missed.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, WordQueue{b, a}, resolved)

	_, err = resolved.Resolve(c)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = resolved.EnqueueMiss(c)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Equal(t, WordQueue{b, a}, resolved.Add(a))
	assert.Equal(t, WordQueue{b, a, c}, resolved.Add(c))

	_, ok = WordQueue{}.Head()
	assert.False(t, ok)
}

func TestBatteryOrder_Advance(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	o := BatteryOrder{a, b, c}

	next, ok := o.Advance(a)
	require.True(t, ok)
	assert.Equal(t, b, next)

	_, ok = o.Advance(c)
	assert.False(t, ok)
	_, ok = o.Advance(uuid.New())
	assert.False(t, ok)
}

func TestCompletedBatteries(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	order := BatteryOrder{a, b}

	var done CompletedBatteries
	done = done.MarkComplete(b)
	done = done.MarkComplete(b)
	assert.Equal(t, CompletedBatteries{b}, done)
	assert.False(t, done.Covers(order))

	done = done.MarkComplete(a)
	assert.True(t, done.Covers(order))
	assert.False(t, CompletedBatteries{}.Covers(BatteryOrder{}))
}

func TestBatteryState(t *testing.T) {
	assert.Equal(t, 1, BatteryPhase1.Phase())
	assert.Equal(t, 3, BatteryCompleted.Phase())
	assert.False(t, BatteryPhase1.PhaseCompleted(1))
	assert.True(t, BatteryPhase3.PhaseCompleted(2))
	assert.False(t, BatteryPhase3.PhaseCompleted(3))
	assert.True(t, BatteryCompleted.PhaseCompleted(3))
	assert.Equal(t, "completed", BatteryCompleted.String())
	assert.Equal(t, "final_round", ModuleFinalRound.String())
}
