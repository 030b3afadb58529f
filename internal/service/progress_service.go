package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/progress"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// AccessChecker decides whether a class code unlocks paid modules.
type AccessChecker interface {
	IsValid(ctx context.Context, code string) (bool, error)
}

// ProgressService drives students through modules, batteries and the final
// round. All state is loaded and persisted per call.
type ProgressService interface {
	ListModules(ctx context.Context, identity *model.Identity) ([]*model.ModuleSummary, error)
	StartModule(ctx context.Context, identity *model.Identity, moduleID uuid.UUID) (*model.ModuleStartResponse, error)
	GetModuleProgress(ctx context.Context, studentID, moduleID uuid.UUID) (*model.StudentProgressView, error)
	StartBattery(ctx context.Context, identity *model.Identity, batteryID uuid.UUID) (*model.BatteryStartResponse, error)
	SubmitAnswer(ctx context.Context, studentID uuid.UUID, req *model.AnswerRequest) (*model.AnswerResponse, error)
	SubmitAnonymousAnswer(ctx context.Context, req *model.AnonymousAnswerRequest) (*model.AnswerResponse, error)
	StartFinalRound(ctx context.Context, studentID, moduleID uuid.UUID) (*model.FinalRoundStartResponse, error)
	SubmitFinalRoundAnswer(ctx context.Context, studentID, moduleID uuid.UUID, req *model.FinalRoundAnswerRequest) (*model.FinalRoundAnswerResponse, error)
	CompleteModule(ctx context.Context, studentID, moduleID uuid.UUID) (*model.CompletionResponse, error)
}

type progressService struct {
	db            *gorm.DB
	moduleRepo    repository.ModuleRepository
	wordRepo      repository.WordRepository
	progressRepo  repository.ProgressRepository
	difficultRepo repository.DifficultWordRepository
	quoteRepo     repository.QuoteRepository
	access        AccessChecker
	now           func() time.Time
	shuffle       progress.Shuffler
}

func NewProgressService(
	db *gorm.DB,
	moduleRepo repository.ModuleRepository,
	wordRepo repository.WordRepository,
	progressRepo repository.ProgressRepository,
	difficultRepo repository.DifficultWordRepository,
	quoteRepo repository.QuoteRepository,
	access AccessChecker,
) ProgressService {
	return &progressService{
		db:            db,
		moduleRepo:    moduleRepo,
		wordRepo:      wordRepo,
		progressRepo:  progressRepo,
		difficultRepo: difficultRepo,
		quoteRepo:     quoteRepo,
		access:        access,
		now:           func() time.Time { return time.Now().UTC() },
		shuffle:       progress.RandomShuffle,
	}
}

func (s *progressService) ListModules(ctx context.Context, identity *model.Identity) ([]*model.ModuleSummary, error) {
	logger := middleware.GetLogger(ctx)

	modules, err := s.moduleRepo.List(ctx, s.db, true)
	if err != nil {
		return nil, asAppError(err, "")
	}
	wordCounts, err := s.wordRepo.CountByModule(ctx, s.db)
	if err != nil {
		return nil, asAppError(err, "")
	}
	batteryCounts, err := s.moduleRepo.CountBatteries(ctx, s.db)
	if err != nil {
		return nil, asAppError(err, "")
	}

	byModule := map[uuid.UUID]*model.StudentProgress{}
	if identity != nil {
		list, err := s.progressRepo.ListByStudent(ctx, s.db, identity.StudentID)
		if err != nil {
			return nil, asAppError(err, "")
		}
		byModule = lo.KeyBy(list, func(p *model.StudentProgress) uuid.UUID { return p.ModuleID })
	}

	summaries := make([]*model.ModuleSummary, 0, len(modules))
	for _, m := range modules {
		summary := &model.ModuleSummary{
			Module:       *m,
			WordCount:    wordCounts[m.ModuleID],
			BatteryCount: batteryCounts[m.ModuleID],
		}
		if p, ok := byModule[m.ModuleID]; ok {
			summary.Progress = p.View()
			if total := len(p.BatteryOrder); total > 0 {
				pct := float64(len(p.CompletedBatteries)) / float64(total) * 100
				summary.CompletionPercentage = &pct
			}
		}
		summaries = append(summaries, summary)
	}
	logger.Debug("Listed modules", "count", len(summaries), "identified", identity != nil)
	return summaries, nil
}

// StartModule creates the progress record on first start and returns the
// existing one afterwards. Anonymous callers get an unsaved record for free
// modules.
func (s *progressService) StartModule(ctx context.Context, identity *model.Identity, moduleID uuid.UUID) (*model.ModuleStartResponse, error) {
	logger := middleware.GetLogger(ctx).With(slog.String("module_id", moduleID.String()))

	module, err := s.activeModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, identity, module); err != nil {
		return nil, err
	}

	if identity != nil {
		existing, err := s.progressRepo.FindStudentProgress(ctx, s.db, identity.StudentID, moduleID)
		if err == nil {
			return moduleStartResponse(existing, false), nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return nil, asAppError(err, "")
		}
	}

	batteryIDs, err := s.consistentBatteries(ctx, module)
	if err != nil {
		logger.Error("Refusing to start module with inconsistent content", "error", err)
		return nil, asAppError(err, "")
	}

	var studentID uuid.UUID
	if identity != nil {
		studentID = identity.StudentID
	}
	p, err := progress.NewStudentProgress(studentID, module, batteryIDs, s.now(), s.shuffle)
	if err != nil {
		return nil, asAppError(err, "")
	}
	if identity == nil {
		return moduleStartResponse(p, true), nil
	}

	err = s.progressRepo.CreateStudentProgress(ctx, s.db, p)
	if errors.Is(err, model.ErrConflict) {
		// A concurrent start won the race; its record is the one to use.
		logger.Info("Student progress already created concurrently", "student_id", studentID.String())
		p, err = s.progressRepo.FindStudentProgress(ctx, s.db, studentID, moduleID)
	}
	if err != nil {
		return nil, asAppError(err, "Module progress not found.")
	}

	logger.Info("Module started", "student_id", studentID.String(), "batteries", len(p.BatteryOrder))
	return moduleStartResponse(p, false), nil
}

func moduleStartResponse(p *model.StudentProgress, anonymous bool) *model.ModuleStartResponse {
	resp := &model.ModuleStartResponse{
		Anonymous:        anonymous,
		ModuleID:         p.ModuleID,
		CurrentBatteryID: p.CurrentBatteryID,
		BatteryOrder:     []uuid.UUID(p.BatteryOrder),
		CurrentPhase:     p.CurrentPhase,
	}
	if !anonymous {
		resp.Progress = p.View()
	}
	return resp
}

func (s *progressService) GetModuleProgress(ctx context.Context, studentID, moduleID uuid.UUID) (*model.StudentProgressView, error) {
	p, err := s.progressRepo.FindStudentProgress(ctx, s.db, studentID, moduleID)
	if err != nil {
		return nil, asAppError(err, "Module progress not found.")
	}
	return p.View(), nil
}

// StartBattery creates the battery progress lazily and returns the head of
// its queue.
func (s *progressService) StartBattery(ctx context.Context, identity *model.Identity, batteryID uuid.UUID) (*model.BatteryStartResponse, error) {
	logger := middleware.GetLogger(ctx).With(slog.String("battery_id", batteryID.String()))

	battery, err := s.moduleRepo.FindBatteryByID(ctx, s.db, batteryID)
	if err != nil {
		return nil, asAppError(err, "Battery not found.")
	}
	module, err := s.activeModule(ctx, battery.ModuleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, identity, module); err != nil {
		return nil, err
	}
	words, err := s.batteryWords(ctx, battery)
	if err != nil {
		return nil, err
	}

	if identity == nil {
		bp := progress.NewBatteryProgress(uuid.Nil, battery.BatteryID, battery.WordIDs, s.shuffle)
		bp.BatteryProgressID = uuid.Nil
		return s.batteryStartResponse(battery, bp, words, true), nil
	}

	sp, err := s.progressRepo.FindStudentProgress(ctx, s.db, identity.StudentID, battery.ModuleID)
	if err != nil {
		return nil, asAppError(err, "Module progress not found. Start the module first.")
	}

	bp, err := s.progressRepo.FindBatteryProgress(ctx, s.db, sp.ProgressID, battery.BatteryID)
	if errors.Is(err, model.ErrNotFound) {
		bp = progress.NewBatteryProgress(sp.ProgressID, battery.BatteryID, battery.WordIDs, s.shuffle)
		err = s.progressRepo.CreateBatteryProgress(ctx, s.db, bp)
		if errors.Is(err, model.ErrConflict) {
			bp, err = s.progressRepo.FindBatteryProgress(ctx, s.db, sp.ProgressID, battery.BatteryID)
		} else if err == nil {
			logger.Info("Battery started", "student_id", identity.StudentID.String())
		}
	}
	if err != nil {
		return nil, asAppError(err, "Battery progress not found.")
	}
	return s.batteryStartResponse(battery, bp, words, false), nil
}

func (s *progressService) batteryStartResponse(battery *model.Battery, bp *model.BatteryProgress, words map[uuid.UUID]*model.Word, anonymous bool) *model.BatteryStartResponse {
	resp := &model.BatteryStartResponse{
		Anonymous:       anonymous,
		BatteryProgress: bp.View(),
		BatteryWords:    make([]model.Word, 0, len(battery.WordIDs)),
		Phase:           bp.State.Phase(),
	}
	if head, ok := bp.Queue.Head(); ok {
		resp.CurrentWord = words[head]
	}
	for _, id := range battery.WordIDs {
		resp.BatteryWords = append(resp.BatteryWords, *words[id])
	}
	return resp
}

// SubmitAnswer logs the answer and applies it to the battery queue. The
// whole transition commits atomically.
func (s *progressService) SubmitAnswer(ctx context.Context, studentID uuid.UUID, req *model.AnswerRequest) (*model.AnswerResponse, error) {
	logger := middleware.GetLogger(ctx).With(
		slog.String("student_id", studentID.String()),
		slog.String("battery_progress_id", req.BatteryProgressID.String()),
		slog.String("word_id", req.WordID.String()),
	)

	var resp *model.AnswerResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()

		bp, err := s.progressRepo.FindBatteryProgressForUpdate(ctx, tx, req.BatteryProgressID)
		if err != nil {
			return asAppError(err, "Battery progress not found.")
		}
		sp, err := s.progressRepo.FindStudentProgressByID(ctx, tx, bp.StudentProgressID)
		if err != nil {
			return asAppError(err, "Battery progress not found.")
		}
		if sp.StudentID != studentID {
			return asAppError(model.ErrNotFound, "Battery progress not found.")
		}
		battery, err := s.moduleRepo.FindBatteryByID(ctx, tx, bp.BatteryID)
		if err != nil {
			return asAppError(err, "Battery not found.")
		}
		module, err := s.moduleRepo.FindByID(ctx, tx, sp.ModuleID)
		if err != nil {
			return asAppError(err, "Module not found.")
		}

		phase := bp.State.Phase()
		if bp.State == model.BatteryCompleted {
			return invalidState("This battery is already completed.")
		}
		if req.Phase != nil && *req.Phase != phase {
			return invalidState(fmt.Sprintf("Answer was given for phase %d but the battery is in phase %d.", *req.Phase, phase))
		}
		if !bp.Queue.Contains(req.WordID) {
			return invalidState("This word is not pending in the current phase.")
		}

		word, err := s.wordRepo.FindByID(ctx, tx, req.WordID)
		if err != nil {
			return asAppError(err, "Word not found.")
		}
		expected := progress.ExpectedAnswer(phase, word.Text, word.Meaning)
		correct := progress.MatchAnswer(*req.Answer, expected, module.CaseSensitive)

		attempts, err := s.progressRepo.CountAttempts(ctx, tx, bp.BatteryProgressID, req.WordID, phase)
		if err != nil {
			return asAppError(err, "")
		}
		entry := &model.QuestionProgress{
			QuestionProgressID: uuid.New(),
			BatteryProgressID:  bp.BatteryProgressID,
			WordID:             req.WordID,
			Phase:              phase,
			UserAnswer:         *req.Answer,
			IsCorrect:          correct,
			AttemptNumber:      int(attempts) + 1,
			AnsweredAt:         now,
		}
		if err := s.progressRepo.CreateQuestionProgress(ctx, tx, entry); err != nil {
			return asAppError(err, "")
		}

		outcome, err := progress.ApplyAnswer(bp, battery.WordIDs, req.WordID, correct, now, s.shuffle)
		if err != nil {
			return asAppError(err, "")
		}
		if outcome.Escalate {
			progress.Escalate(sp, req.WordID)
			if err := s.addDifficultWord(ctx, tx, studentID, req.WordID, now); err != nil {
				return err
			}
		}
		if outcome.BatteryComplete {
			state, err := progress.CompleteBattery(sp, bp.BatteryID, now, s.shuffle)
			if err != nil {
				return asAppError(err, "")
			}
			logger.Info("Battery completed", "module_state", state.String())
		} else {
			progress.SyncPhase(sp, bp)
		}
		progress.Touch(sp, now)

		if err := s.progressRepo.SaveBatteryProgress(ctx, tx, bp); err != nil {
			return asAppError(err, "")
		}
		if err := s.progressRepo.SaveStudentProgress(ctx, tx, sp); err != nil {
			return asAppError(err, "")
		}

		next, err := s.headWord(ctx, tx, bp.Queue)
		if err != nil {
			return err
		}
		resp = &model.AnswerResponse{
			IsCorrect:       correct,
			CorrectAnswer:   expected,
			BatteryProgress: bp.View(),
			NextWord:        next,
			PhaseComplete:   outcome.PhaseComplete,
			BatteryComplete: outcome.BatteryComplete,
			ModuleState:     sp.State.String(),
		}
		return nil
	})
	if err != nil {
		logger.Warn("Answer rejected", "error", err)
		return nil, err
	}
	logger.Debug("Answer recorded", "correct", resp.IsCorrect, "phase_complete", resp.PhaseComplete)
	return resp, nil
}

// SubmitAnonymousAnswer applies an answer to client-held battery state of a
// free module. Nothing is persisted.
func (s *progressService) SubmitAnonymousAnswer(ctx context.Context, req *model.AnonymousAnswerRequest) (*model.AnswerResponse, error) {
	battery, err := s.moduleRepo.FindBatteryByID(ctx, s.db, req.BatteryID)
	if err != nil {
		return nil, asAppError(err, "Battery not found.")
	}
	module, err := s.activeModule(ctx, battery.ModuleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, nil, module); err != nil {
		return nil, err
	}

	queue := model.WordQueue(lo.Uniq(req.Queue))
	if len(queue) != len(req.Queue) || !lo.Every(battery.WordIDs, queue) {
		return nil, model.NewAppError("INVALID_QUEUE", "The question queue does not belong to this battery.", "current_question_queue", model.ErrInvalidInput)
	}
	if !queue.Contains(req.WordID) {
		return nil, invalidState("This word is not pending in the current phase.")
	}

	word, err := s.wordRepo.FindByID(ctx, s.db, req.WordID)
	if err != nil {
		return nil, asAppError(err, "Word not found.")
	}
	bp := &model.BatteryProgress{
		BatteryID: battery.BatteryID,
		State:     model.BatteryState(req.Phase),
		Queue:     queue,
	}
	expected := progress.ExpectedAnswer(req.Phase, word.Text, word.Meaning)
	correct := progress.MatchAnswer(*req.Answer, expected, module.CaseSensitive)

	outcome, err := progress.ApplyAnswer(bp, battery.WordIDs, req.WordID, correct, s.now(), s.shuffle)
	if err != nil {
		return nil, asAppError(err, "")
	}
	next, err := s.headWord(ctx, s.db, bp.Queue)
	if err != nil {
		return nil, err
	}
	return &model.AnswerResponse{
		IsCorrect:       correct,
		CorrectAnswer:   expected,
		BatteryProgress: bp.View(),
		NextWord:        next,
		PhaseComplete:   outcome.PhaseComplete,
		BatteryComplete: outcome.BatteryComplete,
	}, nil
}

// StartFinalRound reports the final round. The word list was shuffled when the
// round was entered, so repeated calls return the same head.
func (s *progressService) StartFinalRound(ctx context.Context, studentID, moduleID uuid.UUID) (*model.FinalRoundStartResponse, error) {
	p, err := s.progressRepo.FindStudentProgress(ctx, s.db, studentID, moduleID)
	if err != nil {
		return nil, asAppError(err, "Module progress not found.")
	}
	switch p.State {
	case model.ModuleCompleted:
		return &model.FinalRoundStartResponse{Completed: true}, nil
	case model.ModuleFinalRound:
	default:
		return nil, invalidState("The final round is not available until every battery is completed.")
	}

	head, err := s.headWord(ctx, s.db, p.FinalRoundWordIDs)
	if err != nil {
		return nil, err
	}
	return &model.FinalRoundStartResponse{
		CurrentWord: head,
		TotalWords:  p.FinalRoundWordIDs.Len(),
		Remaining:   p.FinalRoundWordIDs.Len(),
	}, nil
}

func (s *progressService) SubmitFinalRoundAnswer(ctx context.Context, studentID, moduleID uuid.UUID, req *model.FinalRoundAnswerRequest) (*model.FinalRoundAnswerResponse, error) {
	logger := middleware.GetLogger(ctx).With(
		slog.String("student_id", studentID.String()),
		slog.String("module_id", moduleID.String()),
	)

	var resp *model.FinalRoundAnswerResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()

		p, err := s.progressRepo.FindStudentProgressForUpdate(ctx, tx, studentID, moduleID)
		if err != nil {
			return asAppError(err, "Module progress not found.")
		}
		if p.State != model.ModuleFinalRound {
			return invalidState("The module is not in its final round.")
		}
		if !p.FinalRoundWordIDs.Contains(req.WordID) {
			return invalidState("This word is not pending in the final round.")
		}
		module, err := s.moduleRepo.FindByID(ctx, tx, moduleID)
		if err != nil {
			return asAppError(err, "Module not found.")
		}
		word, err := s.wordRepo.FindByID(ctx, tx, req.WordID)
		if err != nil {
			return asAppError(err, "Word not found.")
		}

		expected := progress.ExpectedAnswer(3, word.Text, word.Meaning)
		correct := progress.MatchAnswer(*req.Answer, expected, module.CaseSensitive)

		outcome, err := progress.AnswerFinalRound(p, req.WordID, correct, now)
		if err != nil {
			return asAppError(err, "")
		}
		if !correct {
			if err := s.addDifficultWord(ctx, tx, studentID, req.WordID, now); err != nil {
				return err
			}
		}
		progress.Touch(p, now)
		if err := s.progressRepo.SaveStudentProgress(ctx, tx, p); err != nil {
			return asAppError(err, "")
		}

		next, err := s.headWord(ctx, tx, p.FinalRoundWordIDs)
		if err != nil {
			return err
		}
		resp = &model.FinalRoundAnswerResponse{
			IsCorrect:          correct,
			CorrectAnswer:      expected,
			NextWord:           next,
			Remaining:          outcome.Remaining,
			FinalRoundComplete: outcome.Completed,
		}
		return nil
	})
	if err != nil {
		logger.Warn("Final round answer rejected", "error", err)
		return nil, err
	}
	if resp.FinalRoundComplete {
		logger.Info("Module completed through the final round")
	}
	return resp, nil
}

// CompleteModule hands out the completion reward of a finished module.
func (s *progressService) CompleteModule(ctx context.Context, studentID, moduleID uuid.UUID) (*model.CompletionResponse, error) {
	p, err := s.progressRepo.FindStudentProgress(ctx, s.db, studentID, moduleID)
	if err != nil {
		return nil, asAppError(err, "Module progress not found.")
	}
	if p.State != model.ModuleCompleted {
		return nil, invalidState("The module is not completed yet.")
	}

	quote, err := s.quoteRepo.FindRandomActive(ctx, s.db)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, asAppError(err, "")
	}
	return &model.CompletionResponse{
		Message:  "Module completed!",
		Quote:    quote,
		Progress: p.View(),
	}, nil
}

func (s *progressService) activeModule(ctx context.Context, moduleID uuid.UUID) (*model.Module, error) {
	module, err := s.moduleRepo.FindByID(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "Module not found.")
	}
	if !module.IsActive {
		return nil, asAppError(model.ErrNotFound, "Module not found.")
	}
	return module, nil
}

// checkAccess lets everyone into free modules. Paid modules need an identity
// holding an active class code.
func (s *progressService) checkAccess(ctx context.Context, identity *model.Identity, module *model.Module) error {
	if module.IsFree {
		return nil
	}
	if identity == nil || identity.ClassCode == "" {
		return asAppError(model.ErrForbidden, "")
	}
	ok, err := s.access.IsValid(ctx, identity.ClassCode)
	if err != nil {
		return asAppError(err, "")
	}
	if !ok {
		return asAppError(model.ErrForbidden, "")
	}
	return nil
}

// consistentBatteries returns the module's battery ids after checking that
// the batteries partition the module's words.
func (s *progressService) consistentBatteries(ctx context.Context, module *model.Module) ([]uuid.UUID, error) {
	words, err := s.wordRepo.FindByModule(ctx, s.db, module.ModuleID)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("module %s has no words: %w", module.ModuleID, model.ErrCatalogInconsistency)
	}
	batteries, err := s.moduleRepo.FindBatteries(ctx, s.db, module.ModuleID)
	if err != nil {
		return nil, err
	}
	if len(batteries) == 0 {
		return nil, fmt.Errorf("module %s has no batteries: %w", module.ModuleID, model.ErrCatalogInconsistency)
	}

	owned := lo.SliceToMap(words, func(w *model.Word) (uuid.UUID, bool) { return w.WordID, true })
	covered := 0
	for _, b := range batteries {
		for _, id := range b.WordIDs {
			if !owned[id] {
				return nil, fmt.Errorf("battery %s references word %s outside module %s: %w", b.BatteryID, id, module.ModuleID, model.ErrCatalogInconsistency)
			}
			covered++
		}
	}
	if covered != len(words) {
		return nil, fmt.Errorf("batteries of module %s cover %d of %d words: %w", module.ModuleID, covered, len(words), model.ErrCatalogInconsistency)
	}
	return lo.Map(batteries, func(b *model.Battery, _ int) uuid.UUID { return b.BatteryID }), nil
}

func (s *progressService) batteryWords(ctx context.Context, battery *model.Battery) (map[uuid.UUID]*model.Word, error) {
	words, err := s.wordRepo.FindByIDs(ctx, s.db, battery.WordIDs)
	if err != nil {
		return nil, asAppError(err, "")
	}
	if len(words) != len(battery.WordIDs) {
		err := fmt.Errorf("battery %s references missing words: %w", battery.BatteryID, model.ErrCatalogInconsistency)
		middleware.GetLogger(ctx).Error("Battery content is inconsistent", "error", err)
		return nil, asAppError(err, "")
	}
	return words, nil
}

func (s *progressService) headWord(ctx context.Context, db *gorm.DB, queue model.WordQueue) (*model.Word, error) {
	head, ok := queue.Head()
	if !ok {
		return nil, nil
	}
	word, err := s.wordRepo.FindByID(ctx, db, head)
	if err != nil {
		return nil, asAppError(err, "Word not found.")
	}
	return word, nil
}

func (s *progressService) addDifficultWord(ctx context.Context, tx *gorm.DB, studentID, wordID uuid.UUID, now time.Time) error {
	entry := &model.DifficultWord{
		DifficultWordID: uuid.New(),
		StudentID:       studentID,
		WordID:          wordID,
		AddedAt:         now,
	}
	if err := s.difficultRepo.Add(ctx, tx, entry); err != nil {
		return asAppError(err, "")
	}
	return nil
}

func invalidState(msg string) error {
	return model.NewAppError("INVALID_STATE", msg, "", model.ErrInvalidState)
}
