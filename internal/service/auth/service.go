package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
	"github.com/healthdesk/clinic-api/pkg/apperror"
	"github.com/healthdesk/clinic-api/pkg/auth"
)

// Service implements identity claim, login and single-session refresh.
// A user account exists only as the owner of exactly one doctor or patient
// record, claimed atomically at registration.
type Service struct {
	users       repository.UserRepository
	doctors     repository.DoctorRepository
	patients    repository.PatientRepository
	coordinator repository.Coordinator
	jwt         auth.JWTService
}

func NewService(users repository.UserRepository, doctors repository.DoctorRepository, patients repository.PatientRepository, coordinator repository.Coordinator, jwt auth.JWTService) *Service {
	return &Service{
		users:       users,
		doctors:     doctors,
		patients:    patients,
		coordinator: coordinator,
		jwt:         jwt,
	}
}

// VerifyIdentity matches the supplied name against the unclaimed doctor or
// patient record for the given credential. Exactly one of license number or
// personal health number must be present.
func (s *Service) VerifyIdentity(ctx context.Context, req *model.IdentityCheckRequest) (*model.VerifiedIdentity, error) {
	switch {
	case req.LicenseNumber != "" && req.PersonalHealthNumber != "":
		return nil, apperror.Validation("provide either a license number or a personal health number, not both", nil)

	case req.LicenseNumber != "":
		doctor, err := s.doctors.GetByLicenseNumber(ctx, req.LicenseNumber)
		if err != nil {
			return nil, err
		}
		if doctor.Name != req.Name {
			return nil, apperror.NotFound("doctor", nil)
		}
		if doctor.UserID != nil {
			return nil, apperror.Conflict("doctor record is already claimed", nil)
		}
		return &model.VerifiedIdentity{Identity: model.IdentityDoctor, ID: doctor.ID.String()}, nil

	case req.PersonalHealthNumber != "":
		patient, err := s.patients.GetByPersonalHealthNumber(ctx, req.PersonalHealthNumber)
		if err != nil {
			return nil, err
		}
		if patient.Name != req.Name {
			return nil, apperror.NotFound("patient", nil)
		}
		if patient.UserID != nil {
			return nil, apperror.Conflict("patient record is already claimed", nil)
		}
		return &model.VerifiedIdentity{Identity: model.IdentityPatient, ID: patient.ID.String()}, nil

	default:
		return nil, apperror.Validation("license number or personal health number is required", nil)
	}
}

// Register creates the user account and claims the verified identity record
// in one transaction, then signs the user in.
func (s *Service) Register(ctx context.Context, identity *model.VerifiedIdentity, req *model.RegisterRequest) (*model.User, *model.TokenPair, error) {
	roleID, err := uuid.Parse(identity.ID)
	if err != nil {
		return nil, nil, apperror.Validation("invalid identity reference", err)
	}

	name, role, err := s.identityName(ctx, identity.Identity, roleID)
	if err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &model.User{
		Base:         model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		RoleID:       roleID,
		Name:         name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		DateOfBirth:  req.DateOfBirth,
		PhoneNumber:  req.PhoneNumber,
		Roles:        model.Roles{role},
	}

	saved, err := s.coordinator.RegisterUser(ctx, identity.Identity, roleID, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueSession(ctx, saved, false)
	if err != nil {
		return nil, nil, err
	}
	return saved, pair, nil
}

func (s *Service) identityName(ctx context.Context, identity model.IdentityType, roleID uuid.UUID) (string, model.Role, error) {
	if identity == model.IdentityDoctor {
		doctor, err := s.doctors.Get(ctx, roleID)
		if err != nil {
			return "", "", err
		}
		return doctor.Name, model.RoleDoctor, nil
	}

	patient, err := s.patients.Get(ctx, roleID)
	if err != nil {
		return "", "", err
	}
	return patient.Name, model.RolePatient, nil
}

// Login verifies credentials and starts a fresh session, invalidating any
// refresh token issued earlier.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if apperror.CodeOf(err) == apperror.CodeNotFound {
			return nil, nil, apperror.Unauthorized("invalid credentials", nil)
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, apperror.Unauthorized("invalid credentials", nil)
	}

	pair, err := s.issueSession(ctx, user, req.RememberMe)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *Service) issueSession(ctx context.Context, user *model.User, rememberMe bool) (*model.TokenPair, error) {
	pair, jti, err := s.jwt.GenerateTokenPair(user, rememberMe)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshTokenID(ctx, user.ID, jti); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. Only the
// most recently issued refresh token is honored; an older one means the
// session was superseded by a newer login.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ParseToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	user, err := s.users.Get(ctx, claims.Profile.ID)
	if err != nil {
		if apperror.CodeOf(err) == apperror.CodeNotFound {
			return "", apperror.Unauthorized("account no longer exists", err)
		}
		return "", err
	}

	if user.JWTID == nil || *user.JWTID != claims.ID {
		return "", apperror.Unauthorized("session superseded by a newer login", nil)
	}

	return s.jwt.GenerateAccessToken(claims)
}
