package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles identity and role-profile storage, including the
	// geospatial nearest-doctor query.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		CreatePatientProfile(ctx context.Context, profile *model.PatientProfile) error
		CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error
		GetPatientProfile(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
		GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
		ListDoctors(ctx context.Context) ([]*model.DoctorDirectoryEntry, error)
		FindNearbyDoctors(ctx context.Context, lng, lat, radiusMeters float64, exclude uuid.UUID) ([]*model.NearbyDoctor, error)
		CountPatients(ctx context.Context) (int, error)
	}

	// AppointmentRepository persists appointments and their joined views.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		// UpdateStatusIf transitions status only when the current value equals
		// from; reports whether a row was changed.
		UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error)
		// Delete removes the appointment only when owned by patientID; reports
		// whether a row was removed.
		Delete(ctx context.Context, id, patientID uuid.UUID) (bool, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error)
		RoomIDExists(ctx context.Context, roomID string) (bool, error)
		CountForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) (int, error)
		CountForDoctorByStatus(ctx context.Context, doctorID uuid.UUID, status model.AppointmentStatus) (int, error)
		ListForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.DashboardAppointment, error)
	}

	ChatRepository interface {
		Create(ctx context.Context, message *model.ChatMessage) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error)
		Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.PrescriptionView, error)
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.PrescriptionView, error)
	}

	ReportRepository interface {
		Create(ctx context.Context, report *model.Report) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Report, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	}
)
