package prescription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
)

// Service handles prescriptions written by doctors for patients.
type Service interface {
	Create(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.PrescriptionView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.PrescriptionView, error)
}

type service struct {
	prescriptionRepo repository.PrescriptionRepository
	userRepo         repository.UserRepository
}

func NewService(prescriptionRepo repository.PrescriptionRepository, userRepo repository.UserRepository) Service {
	return &service{prescriptionRepo: prescriptionRepo, userRepo: userRepo}
}

func (s *service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	patient, err := s.userRepo.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	if patient.Role != model.RolePatient {
		return nil, apperrors.NewNotFound("patient", nil)
	}

	prescription := &model.Prescription{
		PatientID: req.PatientID,
		DoctorID:  doctorID,
		Date:      time.Now(),
		Items:     model.PrescriptionItems(req.Items),
	}
	if err := s.prescriptionRepo.Create(ctx, prescription); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return prescription, nil
}

// Get returns a single prescription; only the two parties may read it, and a
// prescription belonging to others reads as missing.
func (s *service) Get(ctx context.Context, id, userID uuid.UUID) (*model.PrescriptionView, error) {
	view, err := s.prescriptionRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("prescription", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	if view.PatientID != userID && view.DoctorID != userID {
		return nil, apperrors.NewNotFound("prescription", nil)
	}
	return view, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.PrescriptionView, error) {
	views, err := s.prescriptionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if views == nil {
		views = []*model.PrescriptionView{}
	}
	return views, nil
}
