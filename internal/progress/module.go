package progress

import (
	"fmt"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// NewStudentProgress builds the progress record for a first module start.
// batteryIDs are the module's batteries; their order is shuffled once and
// then fixed for the life of the record.
func NewStudentProgress(studentID uuid.UUID, module *model.Module, batteryIDs []uuid.UUID, now time.Time, shuffle Shuffler) (*model.StudentProgress, error) {
	if len(batteryIDs) == 0 {
		return nil, fmt.Errorf("module %s has no batteries: %w", module.ModuleID, model.ErrCatalogInconsistency)
	}
	order := model.BatteryOrder(shuffled(batteryIDs, shuffle))
	first, _ := order.First()

	return &model.StudentProgress{
		ProgressID:         uuid.New(),
		StudentID:          studentID,
		ModuleID:           module.ModuleID,
		ModuleVersion:      module.Version,
		State:              model.ModuleInProgress,
		CurrentBatteryID:   &first,
		CurrentPhase:       1,
		BatteryOrder:       order,
		CompletedBatteries: model.CompletedBatteries{},
		FinalRoundWordIDs:  model.WordQueue{},
		StartedAt:          now,
		LastActivity:       now,
	}, nil
}

// Touch records activity on the module.
func Touch(p *model.StudentProgress, now time.Time) {
	p.TotalAttempts++
	p.LastActivity = now
}

// Escalate adds a phase-3 miss to the final round list.
func Escalate(p *model.StudentProgress, wordID uuid.UUID) {
	p.FinalRoundWordIDs = p.FinalRoundWordIDs.Add(wordID)
}

// SyncPhase mirrors the phase of the battery being worked on.
func SyncPhase(p *model.StudentProgress, bp *model.BatteryProgress) {
	p.CurrentPhase = bp.State.Phase()
}

// CompleteBattery handles a battery reaching Completed. It advances the
// current battery pointer and, once every battery is done, enters the final
// round. The returned state is the module state after the transition.
func CompleteBattery(p *model.StudentProgress, batteryID uuid.UUID, now time.Time, shuffle Shuffler) (model.ModuleState, error) {
	if p.State != model.ModuleInProgress {
		return p.State, fmt.Errorf("module progress %s is %s: %w", p.ProgressID, p.State, model.ErrInvalidState)
	}
	if !lo.Contains(p.BatteryOrder, batteryID) {
		return p.State, fmt.Errorf("battery %s is not part of progress %s: %w", batteryID, p.ProgressID, model.ErrInvalidState)
	}

	p.CompletedBatteries = p.CompletedBatteries.MarkComplete(batteryID)
	if next, ok := p.BatteryOrder.Advance(batteryID); ok {
		p.CurrentBatteryID = &next
	} else {
		p.CurrentBatteryID = nil
	}
	p.CurrentPhase = 1

	if p.CompletedBatteries.Covers(p.BatteryOrder) {
		enterFinalRound(p, now, shuffle)
	}
	return p.State, nil
}

// enterFinalRound shuffles the missed words. With nothing to clear the
// module completes on the spot.
func enterFinalRound(p *model.StudentProgress, now time.Time, shuffle Shuffler) {
	if len(p.FinalRoundWordIDs) == 0 {
		complete(p, now)
		return
	}
	p.State = model.ModuleFinalRound
	p.FinalRoundWordIDs = model.WordQueue(shuffled(p.FinalRoundWordIDs, shuffle))
}

func complete(p *model.StudentProgress, now time.Time) {
	p.State = model.ModuleCompleted
	p.CurrentBatteryID = nil
	p.FinalRoundWordIDs = model.WordQueue{}
	completedAt := now
	p.CompletedAt = &completedAt
}

// FinalRoundOutcome reports what a final round answer did.
type FinalRoundOutcome struct {
	Correct   bool
	Remaining int
	Completed bool
}

// AnswerFinalRound is the final round transition: a correct answer clears
// the word, a wrong one sends it to the back of the list.
func AnswerFinalRound(p *model.StudentProgress, wordID uuid.UUID, correct bool, now time.Time) (FinalRoundOutcome, error) {
	if p.State != model.ModuleFinalRound {
		return FinalRoundOutcome{}, fmt.Errorf("module progress %s is %s: %w", p.ProgressID, p.State, model.ErrInvalidState)
	}

	var (
		queue model.WordQueue
		err   error
	)
	if correct {
		queue, err = p.FinalRoundWordIDs.Resolve(wordID)
	} else {
		queue, err = p.FinalRoundWordIDs.EnqueueMiss(wordID)
	}
	if err != nil {
		return FinalRoundOutcome{}, fmt.Errorf("word %s is not pending in the final round: %w", wordID, model.ErrInvalidState)
	}
	p.FinalRoundWordIDs = queue

	out := FinalRoundOutcome{Correct: correct, Remaining: len(queue)}
	if len(queue) == 0 {
		complete(p, now)
		out.Completed = true
	}
	return out, nil
}
