package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Michela-Labianco/timetable-simulation/internal/models"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
	"github.com/Michela-Labianco/timetable-simulation/internal/security"
)

var (
	ErrInvalidEmailDomain = errors.New("invalid email address")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUnknownUser        = errors.New("user not found")
	ErrWrongPassword      = errors.New("incorrect password")
)

type AuthService struct {
	users      UserStore
	teachers   ProfileStore
	students   ProfileStore
	sessions   SessionStore
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(
	users UserStore,
	teachers ProfileStore,
	students ProfileStore,
	sessions SessionStore,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		teachers:   teachers,
		students:   students,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// Register runs the linear registration flow: role from email, password
// confirmation, email uniqueness, credential insert, then the role
// profile with an empty course list. Each validation fails closed; no
// User row is written unless every check before it passed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	email := strings.TrimSpace(input.Email)

	role, ok := roles.FromEmail(email)
	if !ok {
		return ErrInvalidEmailDomain
	}
	if input.Password != input.ConfirmPassword {
		return ErrPasswordMismatch
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	hash, err := security.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	// Admins have no roster row; their credential record is their profile.
	var store ProfileStore
	switch role {
	case roles.RoleTeacher:
		store = s.teachers
	case roles.RoleStudent:
		store = s.students
	default:
		return nil
	}

	_, err = store.Create(ctx, models.Profile{
		Email: email,
		Name:  roles.DisplayName(email),
		Role:  role,
	})
	if err != nil {
		// The credential row is already committed; the user exists with no
		// roster row until the audit job flags it. Not rolled back.
		s.log.Error().Err(err).Str("email", email).Str("role", string(role)).
			Msg("profile creation failed after user insert")
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login validates credentials and establishes a server-side session.
// The returned session id goes into the cookie; the role drives the
// post-login redirect.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (models.Session, models.User, error) {
	email := strings.TrimSpace(input.Email)

	if _, ok := roles.FromEmail(email); !ok {
		return models.Session{}, models.User{}, ErrInvalidEmailDomain
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Session{}, models.User{}, ErrUnknownUser
		}
		return models.Session{}, models.User{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	if !ok {
		return models.Session{}, models.User{}, ErrWrongPassword
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return models.Session{}, models.User{}, fmt.Errorf("create session: %w", err)
	}

	return sess, user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}
