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

const prescriptionViewColumns = `
	p.id, p.patient_id, p.doctor_id, p.date, p.items, p.created_at, p.updated_at,
	pu.id AS "user.id", pu.first_name AS "user.first_name",
	pu.last_name AS "user.last_name", pu.email AS "user.email",
	du.id AS "doctor.id", du.first_name AS "doctor.first_name",
	du.last_name AS "doctor.last_name", du.email AS "doctor.email",
	dp.specialization AS "doctor.specialization"`

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, patient_id, doctor_id, date, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = prescription.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.PatientID,
		prescription.DoctorID,
		prescription.Date,
		prescription.Items,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.PrescriptionView, error) {
	query := `
		SELECT` + prescriptionViewColumns + `
		FROM prescriptions p
		JOIN users pu ON pu.id = p.patient_id
		JOIN users du ON du.id = p.doctor_id
		JOIN doctor_profiles dp ON dp.user_id = p.doctor_id
		WHERE p.id = $1
	`
	var view model.PrescriptionView
	if err := r.db.GetContext(ctx, &view, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &view, nil
}

func (r *prescriptionRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.PrescriptionView, error) {
	query := `
		SELECT` + prescriptionViewColumns + `
		FROM prescriptions p
		JOIN users pu ON pu.id = p.patient_id
		JOIN users du ON du.id = p.doctor_id
		JOIN doctor_profiles dp ON dp.user_id = p.doctor_id
		WHERE p.patient_id = $1 OR p.doctor_id = $1
		ORDER BY p.date DESC, p.created_at DESC
	`
	var views []*model.PrescriptionView
	if err := r.db.SelectContext(ctx, &views, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return views, nil
}
