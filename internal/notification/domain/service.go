package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	CreateToken(ctx context.Context, t DeviceToken) error
	GetToken(ctx context.Context, token string) (*DeviceToken, error)
	DeleteToken(ctx context.Context, subjectID snowflake.ID, token string) error
	ListTokensBySubject(ctx context.Context, subjectID snowflake.ID) ([]DeviceToken, error)
}

type Service interface {
	// RegisterToken records a push target for the subject. Re-registering
	// the same token is idempotent.
	RegisterToken(ctx context.Context, req RegisterTokenRequest) (*DeviceToken, error)
	UnregisterToken(ctx context.Context, subjectID snowflake.ID, token string) error
}

type RegisterTokenRequest struct {
	SubjectID snowflake.ID `json:"subject_id"`
	Token     string       `json:"token"`
	Platform  string       `json:"platform"`
}

var (
	ErrInvalidSubject  = errors.New("invalid_subject")
	ErrInvalidToken    = errors.New("invalid_token")
	ErrInvalidPlatform = errors.New("invalid_platform")
	ErrTokenOwned      = errors.New("token_owned_by_other_subject")
)
