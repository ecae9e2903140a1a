package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"eventconnect/internal/domain"
)

type profileService struct {
	profiles       domain.ProfileRepository
	roles          domain.RoleRepository
	tx             domain.Transactor
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewProfileService creates a ProfileService. emailService may be nil, in which case no welcome mail is sent.
func NewProfileService(
	profiles domain.ProfileRepository,
	roles domain.RoleRepository,
	tx domain.Transactor,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ProfileService {
	return &profileService{
		profiles:       profiles,
		roles:          roles,
		tx:             tx,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *profileService) Register(ctx context.Context, in domain.RegisterInput) (*domain.Profile, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.profiles.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.NewDuplicate("profile", "email", in.Email)
	}

	role, err := s.roles.GetByID(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("role", "id", in.RoleID)
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	profile := domain.NewProfile(in.Email, in.FirstName, in.LastName, hash, in.Phone, in.Organization, role, now, now)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.profiles.Create(ctx, profile)
	})
	if err != nil {
		return nil, createProfileError(err, in)
	}

	s.logger.InfoContext(ctx, "profile registered", "profile_id", profile.ID, "role", role.Name)
	s.sendWelcome(ctx, profile)
	return profile, nil
}

// createProfileError maps a unique violation to the duplicated field. The email check above
// can lose a race with a concurrent registration, so both constraints are handled.
func createProfileError(err error, in domain.RegisterInput) error {
	if errors.Is(err, domain.ErrUniqueViolation) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "phone"):
			return domain.NewDuplicate("profile", "phone", in.Phone)
		case strings.Contains(msg, "email"):
			return domain.NewDuplicate("profile", "email", in.Email)
		}
	}
	return fmt.Errorf("failed to create profile: %w", err)
}

func (s *profileService) sendWelcome(ctx context.Context, p *domain.Profile) {
	if s.emailService == nil {
		return
	}
	data := &domain.WelcomeMessageEmailData{Email: p.Email, FirstName: p.FirstName, Organization: p.Organization}
	if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "welcome email not sent", "profile_id", p.ID, "err", err)
	}
}

// Authenticate returns a signed token for valid credentials. Unknown email and wrong
// password produce the same ErrInvalidCredentials.
func (s *profileService) Authenticate(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown emails pay for one hash comparison like known ones.
			s.hasher.Verify(password, s.unknownProfileHash())
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	if !s.hasher.Verify(password, profile.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	roles := []string{}
	if profile.Role != nil {
		roles = append(roles, profile.Role.Name)
	}
	token, err := s.tokenIssuer.Issue(profile.Email, roles, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// unknownProfileHash is a hash with the configured cost that no submitted password matches.
func (s *profileService) unknownProfileHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unknown-profile-placeholder")
		if err != nil {
			s.logger.Error("failed to prepare placeholder hash", "err", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *profileService) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("profile", "email", email)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
