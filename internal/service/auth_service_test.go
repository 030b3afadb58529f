package service_test

import (
	"testing"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/service/mocks"
	"github.com/De-Keersmaecker/Octovoc/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthService_IssueStudentToken(t *testing.T) {
	ctx := testutil.Context()
	known := uuid.New()

	tests := []struct {
		name      string
		req       *model.TokenRequest
		setupMock func(m *mocks.AccessChecker)
		wantErr   error
		wantID    *uuid.UUID
		wantCode  string
	}{
		{
			name:      "new student without class code",
			req:       &model.TokenRequest{},
			setupMock: func(m *mocks.AccessChecker) {},
		},
		{
			name:      "existing student keeps id",
			req:       &model.TokenRequest{StudentID: &known},
			setupMock: func(m *mocks.AccessChecker) {},
			wantID:    &known,
		},
		{
			name: "valid class code is embedded",
			req:  &model.TokenRequest{StudentID: &known, ClassCode: " sint-abcd "},
			setupMock: func(m *mocks.AccessChecker) {
				m.On("IsValid", mock.Anything, "SINT-ABCD").Return(true, nil).Once()
			},
			wantID:   &known,
			wantCode: "SINT-ABCD",
		},
		{
			name: "inactive class code is refused",
			req:  &model.TokenRequest{ClassCode: "SINT-ZZZZ"},
			setupMock: func(m *mocks.AccessChecker) {
				m.On("IsValid", mock.Anything, "SINT-ZZZZ").Return(false, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := mocks.NewAccessChecker(t)
			tt.setupMock(access)
			svc := service.NewAuthService(access, config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour})

			resp, err := svc.IssueStudentToken(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.EqualValues(t, 3600, resp.ExpiresIn)
			assert.NotEqual(t, uuid.Nil, resp.StudentID)
			if tt.wantID != nil {
				assert.Equal(t, *tt.wantID, resp.StudentID)
			}

			identity, err := middleware.ParseStudentToken(resp.AccessToken, testSecret)
			require.NoError(t, err)
			assert.Equal(t, resp.StudentID, identity.StudentID)
			assert.Equal(t, tt.wantCode, identity.ClassCode)

			_, err = middleware.ParseStudentToken(resp.AccessToken, "other-secret")
			assert.Error(t, err)
		})
	}
}

func TestAuthService_RequiresSecret(t *testing.T) {
	svc := service.NewAuthService(mocks.NewAccessChecker(t), config.AuthConfig{})
	_, err := svc.IssueStudentToken(testutil.Context(), &model.TokenRequest{})
	assert.Error(t, err)
}
