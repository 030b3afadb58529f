package service_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/service/mocks"
	"github.com/De-Keersmaecker/Octovoc/internal/testutil"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var classCodePattern = regexp.MustCompile(`^[A-Z0-9]+-[A-HJ-NP-Z2-9]{4}$`)

type ClassCodeServiceTestSuite struct {
	suite.Suite

	ctx        context.Context
	mockMailer *mocks.Mailer
	svc        service.ClassCodeService
}

func (s *ClassCodeServiceTestSuite) SetupTest() {
	s.ctx = testutil.Context()
	s.mockMailer = mocks.NewMailer(s.T())

	cfg := config.MailerConfig{
		FrontendURL:       "https://octovoc.test",
		ClassCodeTemplate: "Code {{.Code}} for {{.Classroom}} at {{.URL}}",
	}
	svc, err := service.NewClassCodeService(testutil.NewDB(s.T()), repository.NewGormClassCodeRepository(), s.mockMailer, cfg)
	s.Require().NoError(err)
	s.svc = svc
}

func TestClassCodeService(t *testing.T) {
	suite.Run(t, new(ClassCodeServiceTestSuite))
}

func (s *ClassCodeServiceTestSuite) TestIssueWithoutRecipient() {
	cc, err := s.svc.Issue(s.ctx, &model.IssueClassCodeRequest{SchoolCode: "sint", Classroom: "5A"})
	s.Require().NoError(err)
	s.Regexp(classCodePattern, cc.Code)
	s.True(strings.HasPrefix(cc.Code, "SINT-"))
	s.True(cc.IsActive)
	s.Equal("5A", cc.Classroom)

	s.svc.Wait()
	s.mockMailer.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClassCodeServiceTestSuite) TestIssueSendsInstructions() {
	var code string
	s.mockMailer.On("Send", mock.Anything, "admin@school.test", config.DefaultClassCodeSubject,
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "for 6B at https://octovoc.test")
		})).Return(nil).Once()

	cc, err := s.svc.Issue(s.ctx, &model.IssueClassCodeRequest{SchoolCode: "ATH", Classroom: "6B", Recipient: "admin@school.test"})
	s.Require().NoError(err)
	code = cc.Code

	s.svc.Wait()
	s.mockMailer.AssertCalled(s.T(), "Send", mock.Anything, "admin@school.test", config.DefaultClassCodeSubject,
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "Code "+code) }))
}

func (s *ClassCodeServiceTestSuite) TestMailFailureDoesNotFailIssue() {
	s.mockMailer.On("Send", mock.Anything, "x@school.test", mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()

	cc, err := s.svc.Issue(s.ctx, &model.IssueClassCodeRequest{SchoolCode: "ATH", Recipient: "x@school.test"})
	s.Require().NoError(err)
	s.NotEmpty(cc.Code)
	s.svc.Wait()
}

func (s *ClassCodeServiceTestSuite) TestValidityAndDeactivation() {
	cc, err := s.svc.Issue(s.ctx, &model.IssueClassCodeRequest{SchoolCode: "KA"})
	s.Require().NoError(err)

	ok, err := s.svc.IsValid(s.ctx, strings.ToLower(cc.Code))
	s.Require().NoError(err)
	s.True(ok, "codes are matched case-insensitively")

	ok, err = s.svc.IsValid(s.ctx, "KA-0000")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.svc.IsValid(s.ctx, "  ")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.svc.Deactivate(s.ctx, cc.Code))
	ok, err = s.svc.IsValid(s.ctx, cc.Code)
	s.Require().NoError(err)
	s.False(ok)

	err = s.svc.Deactivate(s.ctx, "NOPE-ZZZZ")
	s.ErrorIs(err, model.ErrNotFound)
}
