package progress

import (
	"fmt"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/google/uuid"
)

// BatteryOutcome reports what a single answer did to a battery run.
type BatteryOutcome struct {
	Correct         bool
	Phase           int  // phase the answer was given in
	Escalate        bool // missed in phase 3
	PhaseComplete   bool // phase 1 or 2 just closed
	BatteryComplete bool
}

// NewBatteryProgress starts a run in phase 1 with the battery words shuffled.
func NewBatteryProgress(studentProgressID, batteryID uuid.UUID, wordIDs []uuid.UUID, shuffle Shuffler) *model.BatteryProgress {
	return &model.BatteryProgress{
		BatteryProgressID: uuid.New(),
		StudentProgressID: studentProgressID,
		BatteryID:         batteryID,
		State:             model.BatteryPhase1,
		Queue:             model.WordQueue(shuffled(wordIDs, shuffle)),
	}
}

// ApplyAnswer is the transition function of a battery run. wordIDs is the
// full word list of the battery, used to refill the queue when a phase
// closes. The word must still be pending in the current queue.
func ApplyAnswer(bp *model.BatteryProgress, wordIDs []uuid.UUID, wordID uuid.UUID, correct bool, now time.Time, shuffle Shuffler) (BatteryOutcome, error) {
	if bp.State == model.BatteryCompleted {
		return BatteryOutcome{}, fmt.Errorf("battery %s is already completed: %w", bp.BatteryID, model.ErrInvalidState)
	}
	phase := bp.State.Phase()

	var (
		queue model.WordQueue
		err   error
	)
	if correct {
		queue, err = bp.Queue.Resolve(wordID)
	} else {
		queue, err = bp.Queue.EnqueueMiss(wordID)
	}
	if err != nil {
		return BatteryOutcome{}, fmt.Errorf("word %s is not pending in phase %d: %w", wordID, phase, model.ErrInvalidState)
	}

	out := BatteryOutcome{
		Correct:  correct,
		Phase:    phase,
		Escalate: !correct && phase == 3,
	}
	bp.Queue = queue
	if len(queue) > 0 {
		return out, nil
	}

	bp.State++
	if bp.State == model.BatteryCompleted {
		bp.Queue = model.WordQueue{}
		completedAt := now
		bp.CompletedAt = &completedAt
		out.BatteryComplete = true
		return out, nil
	}
	bp.Queue = model.WordQueue(shuffled(wordIDs, shuffle))
	out.PhaseComplete = true
	return out, nil
}
