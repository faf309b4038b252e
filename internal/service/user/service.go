package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	"github.com/telemedly/telemed-api/pkg/auth"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
	"github.com/telemedly/telemed-api/pkg/logger"
	"github.com/telemedly/telemed-api/pkg/security"
)

// Service handles registration, login and profile retrieval.
type Service interface {
	// Register creates the user together with exactly one role profile.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	// Login verifies credentials and returns the user with a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	jwt      auth.JWTService
	logger   *logger.Logger
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, jwt auth.JWTService, logger *logger.Logger) Service {
	return &service{
		userRepo: userRepo,
		hasher:   hasher,
		jwt:      jwt,
		logger:   logger,
	}
}

func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewBadRequest("email already in use", nil)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewInternal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid password", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		Address:      req.Address,
		Gender:       req.Gender,
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	switch req.Role {
	case model.RolePatient:
		profile := &model.PatientProfile{
			UserID:     user.ID,
			BloodGroup: req.BloodGroup,
			Weight:     req.Weight,
			Height:     req.Height,
			Allergies:  req.Allergies,
			Disabled:   req.Disabled,
		}
		if req.DOB != nil {
			profile.DOB = *req.DOB
		}
		if err := s.userRepo.CreatePatientProfile(ctx, profile); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	case model.RoleDoctor:
		profile := &model.DoctorProfile{
			UserID:         user.ID,
			Degree:         req.Degree,
			Specialization: req.Specialization,
			Experience:     req.Experience,
			WorkingPlace:   req.WorkingPlace,
			IsAvailable:    true,
		}
		if req.IsAvailable != nil {
			profile.IsAvailable = *req.IsAvailable
		}
		if err := s.userRepo.CreateDoctorProfile(ctx, profile); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "role", user.Role)
	return user, nil
}

func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperrors.NewNotFound("user", err)
		}
		return nil, "", apperrors.NewInternal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid credentials", nil)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", apperrors.NewInternal(err)
	}
	return user, token, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", err)
		}
		return nil, apperrors.NewInternal(err)
	}

	profile := &model.Profile{User: *user}
	switch user.Role {
	case model.RolePatient:
		p, err := s.userRepo.GetPatientProfile(ctx, userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewInternal(err)
		}
		profile.Patient = p
	case model.RoleDoctor:
		d, err := s.userRepo.GetDoctorProfile(ctx, userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewInternal(err)
		}
		profile.Doctor = d
	}
	return profile, nil
}
