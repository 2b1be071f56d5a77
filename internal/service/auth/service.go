package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/careportal/internal/email"
	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/repository"
	"github.com/jwalitptl/careportal/internal/session"
	apperrors "github.com/jwalitptl/careportal/pkg/errors"
	"github.com/jwalitptl/careportal/pkg/metrics"
	"github.com/jwalitptl/careportal/pkg/security"
)

var (
	ErrInvalidCredentials = apperrors.NewUnauthorized("invalid credentials", nil)
	ErrRoleMismatch       = apperrors.NewUnauthorized("role does not match account", nil)
	ErrHashingFailure     = apperrors.NewInternal("could not register user", nil)
)

// DoctorRegistrar creates the doctor record that accompanies a doctor account.
type DoctorRegistrar interface {
	CreateDoctor(ctx context.Context, doctor *model.Doctor) error
}

type Service struct {
	userRepo repository.UserRepository
	doctors  DoctorRegistrar
	hasher   security.PasswordHasher
	emailSvc email.Service
	metrics  *metrics.Metrics
}

func NewService(userRepo repository.UserRepository, doctors DoctorRegistrar, hasher security.PasswordHasher,
	emailSvc email.Service, m *metrics.Metrics) *Service {
	return &Service{
		userRepo: userRepo,
		doctors:  doctors,
		hasher:   hasher,
		emailSvc: emailSvc,
		metrics:  m,
	}
}

// Register stores a new user. Email uniqueness, format and password strength
// are not checked; the only failure is the hash itself.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.HashFailures.Inc()
		return nil, fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.Role == model.RoleDoctor {
		if err := s.doctors.CreateDoctor(ctx, &model.Doctor{ID: user.ID, Name: user.Name}); err != nil {
			return nil, fmt.Errorf("failed to create doctor: %w", err)
		}
	}

	s.metrics.Registrations.WithLabelValues(roleLabel(user.Role)).Inc()
	log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		// Log error but don't fail registration
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to send welcome email")
	}

	return user, nil
}

// Authenticate verifies email and password, then checks the claimed role.
// A wrong role is only reported once the password has verified.
func (s *Service) Authenticate(ctx context.Context, email, password string, claimedRole model.Role) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			log.Error().Err(err).Msg("credential lookup failed")
		}
		s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalidCredentials).Inc()
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalidCredentials).Inc()
		return nil, ErrInvalidCredentials
	}

	if claimedRole != user.Role {
		s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeRoleMismatch).Inc()
		log.Info().Str("user_id", user.ID).Str("claimed_role", string(claimedRole)).Msg("login role mismatch")
		return nil, ErrRoleMismatch
	}

	s.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return user, nil
}

// Login authenticates and binds the user to sess.
func (s *Service) Login(ctx context.Context, sess *session.Session, req *model.LoginRequest) (*model.User, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	sess.UserID = s.SerializePrincipal(user)
	return user, nil
}

// SerializePrincipal is what the session stores for a user.
func (s *Service) SerializePrincipal(user *model.User) string {
	return user.ID
}

// DeserializePrincipal resolves a stored id. Unknown ids yield nil.
func (s *Service) DeserializePrincipal(ctx context.Context, id string) *model.User {
	if id == "" {
		return nil
	}
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil
	}
	return user
}

// Logout unbinds sess and returns the role that was logged in, or "" when the
// session was anonymous.
func (s *Service) Logout(ctx context.Context, sess *session.Session) model.Role {
	var role model.Role
	if user := s.DeserializePrincipal(ctx, sess.UserID); user != nil {
		role = user.Role
	}
	sess.UserID = ""
	s.metrics.Logouts.Inc()
	return role
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleDoctor, model.RolePatient:
		return string(r)
	default:
		return "other"
	}
}
