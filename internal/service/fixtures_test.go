package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"
	"github.com/De-Keersmaecker/Octovoc/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	fixedNow      = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	testAppConfig = config.AppConfig{MissedWordsLimit: 10}
)

// allowAll accepts every non-empty class code.
type allowAll struct{}

func (allowAll) IsValid(_ context.Context, code string) (bool, error) {
	return code != "", nil
}

// testEnv wires the real repositories against a private sqlite database.
// Shuffles keep their input order so runs are predictable.
type testEnv struct {
	ctx       context.Context
	db        *gorm.DB
	catalog   CatalogService
	progress  *progressService
	difficult DifficultWordService
	quotes    QuoteService
	analytics AnalyticsService
}

func newTestEnv(t *testing.T, access AccessChecker) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	moduleRepo := repository.NewGormModuleRepository()
	wordRepo := repository.NewGormWordRepository()
	progressRepo := repository.NewGormProgressRepository()
	difficultRepo := repository.NewGormDifficultWordRepository()
	quoteRepo := repository.NewGormQuoteRepository()

	if access == nil {
		access = allowAll{}
	}
	ps := NewProgressService(db, moduleRepo, wordRepo, progressRepo, difficultRepo, quoteRepo, access).(*progressService)
	ps.shuffle = func([]uuid.UUID) {}
	ps.now = func() time.Time { return fixedNow }

	return &testEnv{
		ctx:       testutil.Context(),
		db:        db,
		catalog:   NewCatalogService(db, moduleRepo, wordRepo),
		progress:  ps,
		difficult: NewDifficultWordService(db, difficultRepo),
		quotes:    NewQuoteService(db, quoteRepo),
		analytics: NewAnalyticsService(db, repository.NewGormAnalyticsRepository(), moduleRepo, wordRepo, progressRepo, testAppConfig),
	}
}

// wordRows builds n rows named word1..wordN with meanings meaning1..meaningN.
func wordRows(n int) []model.WordRow {
	rows := make([]model.WordRow, n)
	for i := range rows {
		w := fmt.Sprintf("word%d", i+1)
		rows[i] = model.WordRow{
			Line:            i + 2,
			Word:            w,
			Meaning:         fmt.Sprintf("meaning%d", i+1),
			ExampleSentence: "This is *" + w + "* in a sentence.",
		}
	}
	return rows
}

func (e *testEnv) createModule(t *testing.T, n int, free bool) *model.ModuleSummary {
	t.Helper()
	summary, err := e.catalog.CreateModule(e.ctx, &model.CreateModuleRequest{
		Name:   fmt.Sprintf("Module %d", n),
		IsFree: free,
	}, wordRows(n))
	require.NoError(t, err)
	return summary
}

func (e *testEnv) batteries(t *testing.T, moduleID uuid.UUID) []*model.Battery {
	t.Helper()
	batteries, err := e.catalog.BatteriesForModule(e.ctx, moduleID)
	require.NoError(t, err)
	return batteries
}

// wordsByID maps the words of a module by id.
func (e *testEnv) wordsByID(t *testing.T, moduleID uuid.UUID) map[uuid.UUID]*model.Word {
	t.Helper()
	words, err := e.catalog.WordsForModule(e.ctx, moduleID)
	require.NoError(t, err)
	out := make(map[uuid.UUID]*model.Word, len(words))
	for _, w := range words {
		out[w.WordID] = w
	}
	return out
}

// answer submits the right (or a wrong) answer for word in the current phase.
func (e *testEnv) answer(t *testing.T, studentID, bpID uuid.UUID, word *model.Word, phase int, correct bool) *model.AnswerResponse {
	t.Helper()
	text := word.Text
	if phase == 1 {
		text = word.Meaning
	}
	if !correct {
		text = "wrong"
	}
	resp, err := e.progress.SubmitAnswer(e.ctx, studentID, &model.AnswerRequest{
		BatteryProgressID: bpID,
		WordID:            word.WordID,
		Answer:            &text,
	})
	require.NoError(t, err)
	return resp
}

// clearPhase answers every word of the battery correctly in order.
func (e *testEnv) clearPhase(t *testing.T, studentID, bpID uuid.UUID, battery *model.Battery, words map[uuid.UUID]*model.Word, phase int) *model.AnswerResponse {
	t.Helper()
	var last *model.AnswerResponse
	for _, id := range battery.WordIDs {
		last = e.answer(t, studentID, bpID, words[id], phase, true)
	}
	return last
}

func strPtr(s string) *string { return &s }
