package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"
	"github.com/De-Keersmaecker/Octovoc/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	ctx        context.Context
	db         *gorm.DB
	modules    repository.ModuleRepository
	words      repository.WordRepository
	progress   repository.ProgressRepository
	difficult  repository.DifficultWordRepository
	quotes     repository.QuoteRepository
	classCodes repository.ClassCodeRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = testutil.Context()
	s.db = testutil.NewDB(s.T())
	s.modules = repository.NewGormModuleRepository()
	s.words = repository.NewGormWordRepository()
	s.progress = repository.NewGormProgressRepository()
	s.difficult = repository.NewGormDifficultWordRepository()
	s.quotes = repository.NewGormQuoteRepository()
	s.classCodes = repository.NewGormClassCodeRepository()
}

// seedModule stores a module with n words split into batteries of two.
func (s *RepositorySuite) seedModule(name string, n int) (*model.Module, []*model.Word, []*model.Battery) {
	m := &model.Module{ModuleID: uuid.New(), Name: name, IsActive: true, Version: 1}
	s.Require().NoError(s.modules.Create(s.ctx, s.db, m))

	words := make([]*model.Word, n)
	for i := range words {
		words[i] = &model.Word{
			WordID:          uuid.New(),
			ModuleID:        m.ModuleID,
			Text:            name + "-w" + string(rune('a'+i)),
			Meaning:         "meaning",
			ExampleSentence: "An *example*.",
			Position:        i + 1,
		}
	}
	s.Require().NoError(s.words.CreateBatch(s.ctx, s.db, words))

	var batteries []*model.Battery
	for i := 0; i < n; i += 2 {
		end := i + 2
		if end > n {
			end = n
		}
		b := &model.Battery{BatteryID: uuid.New(), ModuleID: m.ModuleID, BatteryNumber: len(batteries) + 1}
		for _, w := range words[i:end] {
			b.WordIDs = append(b.WordIDs, w.WordID)
		}
		batteries = append(batteries, b)
	}
	s.Require().NoError(s.modules.CreateBatteries(s.ctx, s.db, batteries))
	return m, words, batteries
}

func (s *RepositorySuite) TestModuleLookups() {
	m, _, batteries := s.seedModule("Verbs", 5)
	hidden, _, _ := s.seedModule("Adverbs", 2)
	s.Require().NoError(s.modules.Update(s.ctx, s.db, hidden.ModuleID, map[string]interface{}{"is_active": false}))

	found, err := s.modules.FindByID(s.ctx, s.db, m.ModuleID)
	s.Require().NoError(err)
	s.Equal("Verbs", found.Name)

	_, err = s.modules.FindByID(s.ctx, s.db, uuid.New())
	s.ErrorIs(err, model.ErrNotFound)

	active, err := s.modules.List(s.ctx, s.db, true)
	s.Require().NoError(err)
	s.Len(active, 1)
	all, err := s.modules.List(s.ctx, s.db, false)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Equal("Adverbs", all[0].Name)

	stored, err := s.modules.FindBatteries(s.ctx, s.db, m.ModuleID)
	s.Require().NoError(err)
	s.Require().Len(stored, 3)
	for i, b := range stored {
		s.Equal(i+1, b.BatteryNumber)
		s.Equal([]uuid.UUID(batteries[i].WordIDs), []uuid.UUID(b.WordIDs))
	}

	one, err := s.modules.FindBatteryByID(s.ctx, s.db, batteries[2].BatteryID)
	s.Require().NoError(err)
	s.Len(one.WordIDs, 1)

	counts, err := s.modules.CountBatteries(s.ctx, s.db)
	s.Require().NoError(err)
	s.Equal(3, counts[m.ModuleID])
	s.Equal(1, counts[hidden.ModuleID])

	wordCounts, err := s.words.CountByModule(s.ctx, s.db)
	s.Require().NoError(err)
	s.Equal(5, wordCounts[m.ModuleID])

	s.ErrorIs(s.modules.Update(s.ctx, s.db, uuid.New(), map[string]interface{}{"name": "x"}), model.ErrNotFound)
}

func (s *RepositorySuite) TestWordsKeepFileOrder() {
	m, words, _ := s.seedModule("Nouns", 4)

	stored, err := s.words.FindByModule(s.ctx, s.db, m.ModuleID)
	s.Require().NoError(err)
	s.Require().Len(stored, 4)
	for i, w := range stored {
		s.Equal(words[i].WordID, w.WordID)
		s.Equal(i+1, w.Position)
	}

	byID, err := s.words.FindByIDs(s.ctx, s.db, []uuid.UUID{words[0].WordID, words[3].WordID, uuid.New()})
	s.Require().NoError(err)
	s.Len(byID, 2)

	_, err = s.words.FindByID(s.ctx, s.db, uuid.New())
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositorySuite) TestStudentProgressIsUniquePerModule() {
	m, _, batteries := s.seedModule("Verbs", 2)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	studentID := uuid.New()

	newProgress := func() *model.StudentProgress {
		return &model.StudentProgress{
			ProgressID:    uuid.New(),
			StudentID:     studentID,
			ModuleID:      m.ModuleID,
			ModuleVersion: 1,
			State:         model.ModuleInProgress,
			CurrentPhase:  1,
			BatteryOrder:  model.BatteryOrder{batteries[0].BatteryID},
			StartedAt:     now,
			LastActivity:  now,
		}
	}
	first := newProgress()
	s.Require().NoError(s.progress.CreateStudentProgress(s.ctx, s.db, first))
	s.ErrorIs(s.progress.CreateStudentProgress(s.ctx, s.db, newProgress()), model.ErrConflict)

	found, err := s.progress.FindStudentProgress(s.ctx, s.db, studentID, m.ModuleID)
	s.Require().NoError(err)
	s.Equal(first.ProgressID, found.ProgressID)
	s.Equal(model.BatteryOrder{batteries[0].BatteryID}, found.BatteryOrder)

	_, err = s.progress.FindStudentProgress(s.ctx, s.db, uuid.New(), m.ModuleID)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositorySuite) TestDeleteContentClearsDependentRows() {
	m, words, batteries := s.seedModule("Verbs", 2)
	other, otherWords, _ := s.seedModule("Other", 2)
	now := time.Now().UTC()
	studentID := uuid.New()

	sp := &model.StudentProgress{
		ProgressID: uuid.New(), StudentID: studentID, ModuleID: m.ModuleID, ModuleVersion: 1,
		State: model.ModuleInProgress, CurrentPhase: 1, StartedAt: now, LastActivity: now,
	}
	s.Require().NoError(s.progress.CreateStudentProgress(s.ctx, s.db, sp))
	bp := &model.BatteryProgress{
		BatteryProgressID: uuid.New(), StudentProgressID: sp.ProgressID, BatteryID: batteries[0].BatteryID,
		State: model.BatteryPhase1, Queue: model.WordQueue{words[0].WordID, words[1].WordID},
	}
	s.Require().NoError(s.progress.CreateBatteryProgress(s.ctx, s.db, bp))
	s.Require().NoError(s.progress.CreateQuestionProgress(s.ctx, s.db, &model.QuestionProgress{
		QuestionProgressID: uuid.New(), BatteryProgressID: bp.BatteryProgressID, WordID: words[0].WordID,
		Phase: 1, UserAnswer: "x", AttemptNumber: 1, AnsweredAt: now,
	}))
	s.Require().NoError(s.difficult.Add(s.ctx, s.db, &model.DifficultWord{DifficultWordID: uuid.New(), StudentID: studentID, WordID: words[1].WordID, AddedAt: now}))
	s.Require().NoError(s.difficult.Add(s.ctx, s.db, &model.DifficultWord{DifficultWordID: uuid.New(), StudentID: studentID, WordID: otherWords[0].WordID, AddedAt: now}))

	s.Require().NoError(s.db.Transaction(func(tx *gorm.DB) error {
		return s.modules.DeleteContent(s.ctx, tx, m.ModuleID)
	}))

	remaining, err := s.words.FindByModule(s.ctx, s.db, m.ModuleID)
	s.Require().NoError(err)
	s.Empty(remaining)
	stored, err := s.modules.FindBatteries(s.ctx, s.db, m.ModuleID)
	s.Require().NoError(err)
	s.Empty(stored)
	_, err = s.progress.FindStudentProgress(s.ctx, s.db, studentID, m.ModuleID)
	s.ErrorIs(err, model.ErrNotFound)

	var answers int64
	s.Require().NoError(s.db.Model(&model.QuestionProgress{}).Count(&answers).Error)
	s.Zero(answers)

	// the module row and other modules are untouched
	_, err = s.modules.FindByID(s.ctx, s.db, m.ModuleID)
	s.NoError(err)
	list, err := s.difficult.ListByStudent(s.ctx, s.db, studentID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(other.ModuleID, list[0].Word.ModuleID)
}

func (s *RepositorySuite) TestDifficultWords() {
	_, words, _ := s.seedModule("Verbs", 2)
	studentID := uuid.New()
	now := time.Now().UTC()

	entry := func() *model.DifficultWord {
		return &model.DifficultWord{DifficultWordID: uuid.New(), StudentID: studentID, WordID: words[0].WordID, AddedAt: now}
	}
	s.Require().NoError(s.difficult.Add(s.ctx, s.db, entry()))
	s.Require().NoError(s.difficult.Add(s.ctx, s.db, entry()), "second add is a no-op")

	list, err := s.difficult.ListByStudent(s.ctx, s.db, studentID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().NotNil(list[0].Word)
	s.NotNil(list[0].Word.Module)

	s.Require().NoError(s.difficult.Remove(s.ctx, s.db, studentID, words[0].WordID))
	s.ErrorIs(s.difficult.Remove(s.ctx, s.db, studentID, words[0].WordID), model.ErrNotFound)
}

func (s *RepositorySuite) TestClassCodes() {
	cc := &model.ClassCode{ClassCodeID: uuid.New(), Code: "SINT-AB12", Classroom: "5A", IsActive: true}
	s.Require().NoError(s.classCodes.Create(s.ctx, s.db, cc))

	dup := &model.ClassCode{ClassCodeID: uuid.New(), Code: "SINT-AB12", IsActive: true}
	s.ErrorIs(s.classCodes.Create(s.ctx, s.db, dup), model.ErrConflict)

	at := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.classCodes.Deactivate(s.ctx, s.db, "SINT-AB12", at))
	found, err := s.classCodes.FindByCode(s.ctx, s.db, "SINT-AB12")
	s.Require().NoError(err)
	s.False(found.IsActive)
	s.Require().NotNil(found.DeactivatedAt)
	s.True(at.Equal(*found.DeactivatedAt))

	s.ErrorIs(s.classCodes.Deactivate(s.ctx, s.db, "NOPE-0000", at), model.ErrNotFound)
	_, err = s.classCodes.FindByCode(s.ctx, s.db, "NOPE-0000")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositorySuite) TestQuotes() {
	_, err := s.quotes.FindRandomActive(s.ctx, s.db)
	s.ErrorIs(err, model.ErrNotFound)

	s.Require().NoError(s.quotes.Create(s.ctx, s.db, &model.Quote{QuoteID: uuid.New(), Text: "hidden", IsActive: false}))
	_, err = s.quotes.FindRandomActive(s.ctx, s.db)
	s.ErrorIs(err, model.ErrNotFound)

	s.Require().NoError(s.quotes.Create(s.ctx, s.db, &model.Quote{QuoteID: uuid.New(), Text: "shown", IsActive: true}))
	q, err := s.quotes.FindRandomActive(s.ctx, s.db)
	s.Require().NoError(err)
	s.Equal("shown", q.Text)

	all, err := s.quotes.List(s.ctx, s.db)
	s.Require().NoError(err)
	s.Len(all, 2)
}
