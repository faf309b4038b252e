package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/telemedly/telemed-api/internal/email"
	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	"github.com/telemedly/telemed-api/pkg/logger"
)

// Event types published through the outbox.
const (
	EventAppointmentRequested = "appointment.requested"
	EventAppointmentApproved  = "appointment.approved"
	EventAppointmentCancelled = "appointment.cancelled"
)

// Service records notification events in the outbox for asynchronous
// publication, and sends decision emails directly. Notification failures are
// logged, never surfaced to the caller; the state change already committed.
type Service struct {
	outboxRepo repository.OutboxRepository
	userRepo   repository.UserRepository
	sender     email.Sender
	logger     *logger.Logger
}

func NewService(outboxRepo repository.OutboxRepository, userRepo repository.UserRepository, sender email.Sender, logger *logger.Logger) *Service {
	return &Service{
		outboxRepo: outboxRepo,
		userRepo:   userRepo,
		sender:     sender,
		logger:     logger,
	}
}

// AppointmentRequested records a booking event for the doctor's side.
func (s *Service) AppointmentRequested(ctx context.Context, appointment *model.Appointment) {
	s.emit(ctx, EventAppointmentRequested, appointment)
}

// AppointmentDecided records the decision event and emails the patient.
func (s *Service) AppointmentDecided(ctx context.Context, appointment *model.Appointment) {
	eventType := EventAppointmentCancelled
	if appointment.Status == model.AppointmentStatusApproved {
		eventType = EventAppointmentApproved
	}
	s.emit(ctx, eventType, appointment)

	patient, err := s.userRepo.Get(ctx, appointment.PatientID)
	if err != nil {
		s.logger.Error(err, "failed to load patient for decision email")
		return
	}

	subject := fmt.Sprintf("Your appointment has been %s", appointment.Status)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your appointment on %s at %s has been <b>%s</b>.</p>",
		patient.FirstName,
		appointment.Date.Format("2006-01-02"),
		appointment.Time,
		appointment.Status,
	)
	if err := s.sender.Send(patient.Email, subject, body); err != nil {
		s.logger.Error(err, "failed to send decision email")
	}
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal notification payload")
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to write outbox event")
	}
}
