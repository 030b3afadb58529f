package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	classCodeSuffixLen = 4
	classCodeAttempts  = 10
)

// ClassCodeService issues and checks the codes that unlock paid modules.
type ClassCodeService interface {
	Issue(ctx context.Context, req *model.IssueClassCodeRequest) (*model.ClassCode, error)
	Deactivate(ctx context.Context, code string) error
	IsValid(ctx context.Context, code string) (bool, error)
	// Wait blocks until every queued instruction mail has been handled.
	Wait()
}

type classCodeService struct {
	db       *gorm.DB
	repo     repository.ClassCodeRepository
	mailer   Mailer
	cfg      config.MailerConfig
	template *template.Template
	wg       sync.WaitGroup
	now      func() time.Time
}

// classCodeMail is the data passed to the instruction template.
type classCodeMail struct {
	Code      string
	Classroom string
	URL       string
}

func NewClassCodeService(db *gorm.DB, repo repository.ClassCodeRepository, mailer Mailer, cfg config.MailerConfig) (ClassCodeService, error) {
	text := cfg.ClassCodeTemplate
	if text == "" {
		text = config.DefaultClassCodeTemplate
	}
	tmpl, err := template.New("class_code").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse class code template: %w", err)
	}
	if cfg.ClassCodeSubject == "" {
		cfg.ClassCodeSubject = config.DefaultClassCodeSubject
	}
	return &classCodeService{
		db:       db,
		repo:     repo,
		mailer:   mailer,
		cfg:      cfg,
		template: tmpl,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue creates a new SCHOOL-XXXX code. When a recipient is given the
// instruction mail is sent in the background.
func (s *classCodeService) Issue(ctx context.Context, req *model.IssueClassCodeRequest) (*model.ClassCode, error) {
	logger := middleware.GetLogger(ctx)
	school := strings.ToUpper(strings.TrimSpace(req.SchoolCode))

	for attempt := 0; attempt < classCodeAttempts; attempt++ {
		suffix, err := randomSuffix(classCodeSuffixLen)
		if err != nil {
			return nil, asAppError(err, "")
		}
		cc := &model.ClassCode{
			ClassCodeID: uuid.New(),
			Code:        school + "-" + suffix,
			Classroom:   strings.TrimSpace(req.Classroom),
			IsActive:    true,
		}
		err = s.repo.Create(ctx, s.db, cc)
		if errors.Is(err, model.ErrConflict) {
			logger.Debug("Class code collision, retrying", "code", cc.Code)
			continue
		}
		if err != nil {
			return nil, asAppError(err, "")
		}

		logger.Info("Class code issued", "code", cc.Code)
		if req.Recipient != "" {
			s.sendInstructions(ctx, req.Recipient, cc)
		}
		return cc, nil
	}
	logger.Error("Could not find a free class code", "school", school)
	return nil, model.NewAppError("CODE_SPACE_EXHAUSTED", "Could not generate a unique class code. Try again.", "", model.ErrConflict)
}

func (s *classCodeService) sendInstructions(ctx context.Context, to string, cc *model.ClassCode) {
	logger := middleware.GetLogger(ctx)

	var body bytes.Buffer
	err := s.template.Execute(&body, classCodeMail{Code: cc.Code, Classroom: cc.Classroom, URL: s.cfg.FrontendURL})
	if err != nil {
		logger.Error("Failed to render class code mail", "error", err, "code", cc.Code)
		return
	}

	mailCtx := middleware.WithLogger(context.WithoutCancel(ctx), logger)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.mailer.Send(mailCtx, to, s.cfg.ClassCodeSubject, body.String()); err != nil {
			logger.Error("Failed to send class code mail", "error", err, "code", cc.Code)
		}
	}()
}

func (s *classCodeService) Wait() {
	s.wg.Wait()
}

func (s *classCodeService) Deactivate(ctx context.Context, code string) error {
	code = normalizeCode(code)
	if err := s.repo.Deactivate(ctx, s.db, code, s.now()); err != nil {
		return asAppError(err, "Class code not found.")
	}
	middleware.GetLogger(ctx).Info("Class code deactivated", "code", code)
	return nil
}

func (s *classCodeService) IsValid(ctx context.Context, code string) (bool, error) {
	code = normalizeCode(code)
	if code == "" {
		return false, nil
	}
	cc, err := s.repo.FindByCode(ctx, s.db, code)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cc.IsActive, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomSuffix(n int) (string, error) {
	alphabet := model.ClassCodeAlphabet
	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate class code: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
