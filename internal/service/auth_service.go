package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues the bearer tokens that carry a student identity.
type AuthService interface {
	IssueStudentToken(ctx context.Context, req *model.TokenRequest) (*model.TokenResponse, error)
}

type authService struct {
	access AccessChecker
	cfg    config.AuthConfig
	now    func() time.Time
}

func NewAuthService(access AccessChecker, cfg config.AuthConfig) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = config.DefaultTokenTTL
	}
	return &authService{
		access: access,
		cfg:    cfg,
		now:    time.Now,
	}
}

// IssueStudentToken signs an HS256 token for the student. A class code, when
// given, must be active.
func (s *authService) IssueStudentToken(ctx context.Context, req *model.TokenRequest) (*model.TokenResponse, error) {
	logger := middleware.GetLogger(ctx)

	if s.cfg.JWTSecret == "" {
		logger.Error("Token requested but no JWT secret is configured")
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Token signing is not configured.", "", errors.New("empty jwt secret"))
	}

	studentID := uuid.New()
	if req.StudentID != nil && *req.StudentID != uuid.Nil {
		studentID = *req.StudentID
	}

	code := strings.ToUpper(strings.TrimSpace(req.ClassCode))
	if code != "" {
		ok, err := s.access.IsValid(ctx, code)
		if err != nil {
			return nil, asAppError(err, "")
		}
		if !ok {
			logger.Warn("Token requested with an invalid class code", "class_code", code)
			return nil, model.NewAppError("INVALID_CLASS_CODE", "The class code is not valid.", "class_code", model.ErrForbidden)
		}
	}

	now := s.now()
	claims := model.StudentClaims{
		ClassCode: code,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   studentID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			Issuer:    config.AppName,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign token", "error", err)
		return nil, asAppError(err, "")
	}

	logger.Info("Student token issued", "student_id", studentID.String(), "with_class_code", code != "")
	return &model.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		StudentID:   studentID,
		ExpiresIn:   int64(s.cfg.TokenTTL.Seconds()),
	}, nil
}
