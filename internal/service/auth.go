package service

import (
	"github.com/deppfellow/request-tour/internal/config"
	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/deppfellow/request-tour/internal/model"
)

// AuthService implements the demonstration auth: a bearer token that is
// decoded by string templating and two fixed-value header checks. None of
// it is secure.
type AuthService struct {
	expectedToken string
	expectedKey   string
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{expectedToken: cfg.ExpectedToken, expectedKey: cfg.ExpectedKey}
}

// CurrentUser derives the user record for a bearer token.
func (s *AuthService) CurrentUser(token string) model.UserOut {
	fullName := "John Doe"
	return model.UserOut{UserBase: model.UserBase{
		Username: token + "fakedecoded",
		Email:    "john@example.com",
		FullName: &fullName,
	}}
}

// VerifyToken checks the X-Token header value.
func (s *AuthService) VerifyToken(token string) error {
	if token != s.expectedToken {
		return errs.NewBadRequestError("X-Token header invalid", false, nil)
	}
	return nil
}

// VerifyKey checks the X-Key header value.
func (s *AuthService) VerifyKey(key string) error {
	if key != s.expectedKey {
		return errs.NewBadRequestError("X-Key header invalid", false, nil)
	}
	return nil
}
