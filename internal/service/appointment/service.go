package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
	"github.com/telemedly/telemed-api/pkg/logger"
	"github.com/telemedly/telemed-api/pkg/roomid"
)

const maxRoomIDAttempts = 5

// Notifier receives lifecycle events after a state change has committed.
// Implementations must not fail the calling operation.
type Notifier interface {
	AppointmentRequested(ctx context.Context, appointment *model.Appointment)
	AppointmentDecided(ctx context.Context, appointment *model.Appointment)
}

// Service drives the appointment lifecycle. Every mutation verifies the
// caller is the appointment's own patient or doctor before touching state.
type Service interface {
	Create(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error)
	Update(ctx context.Context, id, patientID uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	Delete(ctx context.Context, id, patientID uuid.UUID) error
	Approve(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error)
	Decline(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error)
	Join(ctx context.Context, id, userID uuid.UUID) (*model.JoinResponse, error)
}

type service struct {
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	notifier        Notifier
	logger          *logger.Logger
}

func NewService(appointmentRepo repository.AppointmentRepository, userRepo repository.UserRepository, notifier Notifier, logger *logger.Logger) Service {
	return &service{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	doctor, err := s.userRepo.Get(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	if doctor.Role != model.RoleDoctor {
		return nil, apperrors.NewNotFound("doctor", nil)
	}

	appointment := &model.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Type:      req.Type,
		Date:      req.Date,
		Time:      req.Time,
		Status:    model.AppointmentStatusPending,
		Notes:     req.Notes,
	}

	if req.Type == model.ConsultationOnline {
		id, err := s.newRoomID(ctx)
		if err != nil {
			return nil, apperrors.NewInternal(err)
		}
		appointment.RoomID = id
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	s.notifier.AppointmentRequested(ctx, appointment)
	return appointment, nil
}

// newRoomID generates a room identifier that is not already in use. The
// keyspace is large enough that collisions are rare; retries cover the rest.
func (s *service) newRoomID(ctx context.Context) (string, error) {
	for i := 0; i < maxRoomIDAttempts; i++ {
		id, err := roomid.New()
		if err != nil {
			return "", err
		}
		exists, err := s.appointmentRepo.RoomIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room id after %d attempts", maxRoomIDAttempts)
}

func (s *service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	appointments, err := s.appointmentRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if appointments == nil {
		appointments = []*model.AppointmentWithDoctor{}
	}
	return appointments, nil
}

func (s *service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	appointments, err := s.appointmentRepo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if appointments == nil {
		appointments = []*model.AppointmentWithPatient{}
	}
	return appointments, nil
}

func (s *service) Update(ctx context.Context, id, patientID uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, apperrors.NewForbidden("you can only modify your own appointments", nil)
	}
	if appointment.Status != model.AppointmentStatusPending {
		return nil, apperrors.NewConflict("only pending appointments can be modified", nil)
	}

	if req.DoctorID != nil && *req.DoctorID != appointment.DoctorID {
		doctor, err := s.userRepo.Get(ctx, *req.DoctorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.NewNotFound("doctor", err)
			}
			return nil, apperrors.NewInternal(err)
		}
		if doctor.Role != model.RoleDoctor {
			return nil, apperrors.NewNotFound("doctor", nil)
		}
		appointment.DoctorID = *req.DoctorID
	}
	if req.Date != nil {
		appointment.Date = *req.Date
	}
	if req.Time != nil {
		appointment.Time = *req.Time
	}
	if req.Type != nil {
		appointment.Type = *req.Type
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return appointment, nil
}

// Delete hides ownership: an appointment that exists but belongs to another
// patient reads the same as one that never existed.
func (s *service) Delete(ctx context.Context, id, patientID uuid.UUID) error {
	deleted, err := s.appointmentRepo.Delete(ctx, id, patientID)
	if err != nil {
		return apperrors.NewInternal(err)
	}
	if !deleted {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (s *service) Approve(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	return s.decide(ctx, id, doctorID, model.AppointmentStatusApproved)
}

func (s *service) Decline(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	return s.decide(ctx, id, doctorID, model.AppointmentStatusCancelled)
}

func (s *service) decide(ctx context.Context, id, doctorID uuid.UUID, to model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, apperrors.NewForbidden("only the appointment's doctor can act on it", nil)
	}

	changed, err := s.appointmentRepo.UpdateStatusIf(ctx, id, model.AppointmentStatusPending, to)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if !changed {
		return nil, apperrors.NewConflict("appointment is no longer pending", nil)
	}

	appointment.Status = to
	s.notifier.AppointmentDecided(ctx, appointment)
	return appointment, nil
}

// Join returns the room identifier for an online consultation. Either party
// may call it, any number of times.
func (s *service) Join(ctx context.Context, id, userID uuid.UUID) (*model.JoinResponse, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != userID && appointment.DoctorID != userID {
		return nil, apperrors.NewForbidden("you are not part of this appointment", nil)
	}
	if appointment.Type != model.ConsultationOnline {
		return nil, apperrors.NewNotFound("consultation room", nil)
	}
	if appointment.RoomID == "" {
		return nil, apperrors.NewBadRequest("appointment has no room assigned", nil)
	}
	return &model.JoinResponse{RoomID: appointment.RoomID}, nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	return appointment, nil
}
