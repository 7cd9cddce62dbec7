package service

import (
	"context"

	"github.com/deppfellow/request-tour/internal/model"
	"github.com/rs/zerolog"
)

// WelcomeEnqueuer queues the welcome email of a new user.
type WelcomeEnqueuer interface {
	EnqueueWelcome(ctx context.Context, to, username, fullName string) error
}

// PasswordHasher turns a plain password into its stored form.
type PasswordHasher func(password string) string

// FakeHash is the demonstration hasher: a fixed prefix, no hashing.
func FakeHash(password string) string {
	return "supersecret" + password
}

type UserService struct {
	hash    PasswordHasher
	welcome WelcomeEnqueuer
	logger  *zerolog.Logger
}

// NewUserService builds the service. welcome may be nil, in which case no
// email is queued.
func NewUserService(welcome WelcomeEnqueuer, logger *zerolog.Logger) *UserService {
	return &UserService{hash: FakeHash, welcome: welcome, logger: logger}
}

// Save derives the stored form of a user.
func (s *UserService) Save(in model.UserIn) model.UserInDB {
	s.logger.Debug().Str("username", in.Username).Msg("user saved! ..not really")
	return model.UserInDB{UserBase: in.UserBase, HashedPassword: s.hash(in.Password)}
}

// Create saves the user and returns the safe view. A failure to queue the
// welcome email is logged, never returned.
func (s *UserService) Create(ctx context.Context, in model.UserIn) model.UserOut {
	stored := s.Save(in)

	if s.welcome != nil {
		fullName := ""
		if in.FullName != nil {
			fullName = *in.FullName
		}
		if err := s.welcome.EnqueueWelcome(ctx, in.Email, in.Username, fullName); err != nil {
			s.logger.Warn().Err(err).Str("username", in.Username).Msg("failed to queue welcome email")
		}
	}

	return stored.Out()
}
