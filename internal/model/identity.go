package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the caller as established by the auth middleware. A nil
// *Identity in the context means an anonymous caller.
type Identity struct {
	StudentID uuid.UUID
	ClassCode string
}

// StudentClaims are the claims of a student access token.
type StudentClaims struct {
	ClassCode string `json:"class_code,omitempty"`
	jwt.RegisteredClaims
}

// TokenRequest asks for a student access token. An empty StudentID issues a
// token for a new student.
type TokenRequest struct {
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	ClassCode string     `json:"class_code,omitempty" validate:"omitempty,max=16"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	StudentID   uuid.UUID `json:"student_id"`
	ExpiresIn   int64     `json:"expires_in"`
}
