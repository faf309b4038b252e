package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, type, date, "time", status, notes, room_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.Type,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.Notes,
		appointment.RoomID,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, type, date, "time", status, notes, room_id,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_id = $1, type = $2, date = $3, "time" = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.DoctorID,
		appointment.Type,
		appointment.Date,
		appointment.Time,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// UpdateStatusIf is the compare-and-set used for approve and decline. The
// transition happens only when the row is still in the expected state, so
// concurrent decisions cannot both win.
func (r *appointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, from, to, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id, patientID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE id = $1 AND patient_id = $2`, id, patientID)
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.type, a.date, a."time", a.status,
			   a.notes, a.room_id, a.created_at, a.updated_at,
			   u.first_name AS "doctor.first_name", u.last_name AS "doctor.last_name",
			   u.email AS "doctor.email", u.phone AS "doctor.phone",
			   u.avatar AS "doctor.avatar",
			   dp.degree AS "doctor.degree", dp.specialization AS "doctor.specialization",
			   dp.experience AS "doctor.experience", dp.working_place AS "doctor.working_place",
			   dp.is_available AS "doctor.is_available"
		FROM appointments a
		JOIN users u ON u.id = a.doctor_id
		JOIN doctor_profiles dp ON dp.user_id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.date, a."time"
	`
	var appointments []*model.AppointmentWithDoctor
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.type, a.date, a."time", a.status,
			   a.notes, a.room_id, a.created_at, a.updated_at,
			   u.first_name AS "user.first_name", u.last_name AS "user.last_name",
			   u.email AS "user.email", u.phone AS "user.phone",
			   u.avatar AS "user.avatar", u.gender AS "user.gender",
			   pp.dob AS "user.dob", pp.blood_group AS "user.blood_group",
			   pp.weight AS "user.weight", pp.height AS "user.height",
			   pp.allergies AS "user.allergies", pp.disabled AS "user.disabled"
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		JOIN patient_profiles pp ON pp.user_id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.date, a."time"
	`
	var appointments []*model.AppointmentWithPatient
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) RoomIDExists(ctx context.Context, roomID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM appointments WHERE room_id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, roomID); err != nil {
		return false, fmt.Errorf("failed to check room id: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) CountForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND date >= $2 AND date < $3
	`
	if err := r.db.GetContext(ctx, &count, query, doctorID, dayStart, dayEnd); err != nil {
		return 0, fmt.Errorf("failed to count appointments for day: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountForDoctorByStatus(ctx context.Context, doctorID uuid.UUID, status model.AppointmentStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, doctorID, status); err != nil {
		return 0, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) ListForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.DashboardAppointment, error) {
	query := `
		SELECT a."time", u.first_name || ' ' || u.last_name AS patient, a.status
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		WHERE a.doctor_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a."time" ASC
	`
	var appointments []*model.DashboardAppointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to list appointments for day: %w", err)
	}
	return appointments, nil
}
