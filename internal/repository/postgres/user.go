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

const userColumns = `
	id, first_name, last_name, email, password_hash, role, avatar, phone,
	address_street AS "address.street", address_city AS "address.city",
	address_state AS "address.state", address_zip AS "address.zip",
	gender, longitude, latitude, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, first_name, last_name, email, password_hash, role, avatar, phone,
			address_street, address_city, address_state, address_zip,
			gender, longitude, latitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Avatar,
		user.Phone,
		user.Address.Street,
		user.Address.City,
		user.Address.State,
		user.Address.Zip,
		user.Gender,
		user.Longitude,
		user.Latitude,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) CreatePatientProfile(ctx context.Context, profile *model.PatientProfile) error {
	query := `
		INSERT INTO patient_profiles (
			id, user_id, dob, blood_group, weight, height, allergies, disabled,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.DOB,
		profile.BloodGroup,
		profile.Weight,
		profile.Height,
		profile.Allergies,
		profile.Disabled,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient profile: %w", err)
	}
	return nil
}

func (r *userRepository) CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (
			id, user_id, degree, specialization, experience, working_place,
			is_available, timeslot, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Degree,
		profile.Specialization,
		profile.Experience,
		profile.WorkingPlace,
		profile.IsAvailable,
		profile.Timeslot,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *userRepository) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	query := `
		SELECT id, user_id, dob, blood_group, weight, height, allergies, disabled,
			   created_at, updated_at
		FROM patient_profiles
		WHERE user_id = $1
	`
	var profile model.PatientProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &profile, nil
}

func (r *userRepository) GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT id, user_id, degree, specialization, experience, working_place,
			   is_available, timeslot, created_at, updated_at
		FROM doctor_profiles
		WHERE user_id = $1
	`
	var profile model.DoctorProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *userRepository) ListDoctors(ctx context.Context) ([]*model.DoctorDirectoryEntry, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.avatar, u.phone,
			   u.address_street AS "address.street", u.address_city AS "address.city",
			   u.address_state AS "address.state", u.address_zip AS "address.zip",
			   u.gender,
			   dp.degree, dp.specialization, dp.experience, dp.working_place, dp.is_available
		FROM users u
		JOIN doctor_profiles dp ON dp.user_id = u.id
		WHERE u.role = $1
		ORDER BY u.last_name, u.first_name
	`
	var doctors []*model.DoctorDirectoryEntry
	if err := r.db.SelectContext(ctx, &doctors, query, model.RoleDoctor); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// FindNearbyDoctors runs a spherical (haversine) distance query against the
// stored coordinates. Distance is returned in kilometers, rounded to two
// decimals, ascending.
func (r *userRepository) FindNearbyDoctors(ctx context.Context, lng, lat, radiusMeters float64, exclude uuid.UUID) ([]*model.NearbyDoctor, error) {
	query := `
		SELECT q.id, q.full_name, q.email, q.phone, q.avatar,
			   q.street AS "address.street", q.city AS "address.city",
			   q.state AS "address.state", q.zip AS "address.zip",
			   ROUND((q.distance_m / 1000)::numeric, 2) AS distance_km,
			   q.specialization, q.experience, q.working_place
		FROM (
			SELECT u.id,
				   u.first_name || ' ' || u.last_name AS full_name,
				   u.email, u.phone, u.avatar,
				   u.address_street AS street, u.address_city AS city,
				   u.address_state AS state, u.address_zip AS zip,
				   dp.specialization, dp.experience, dp.working_place,
				   6371000 * acos(LEAST(1.0,
						cos(radians($2)) * cos(radians(u.latitude)) *
						cos(radians(u.longitude) - radians($1)) +
						sin(radians($2)) * sin(radians(u.latitude))
				   )) AS distance_m
			FROM users u
			JOIN doctor_profiles dp ON dp.user_id = u.id
			WHERE u.role = $3
			  AND u.id <> $4
			  AND dp.is_available = TRUE
			  AND u.longitude IS NOT NULL
			  AND u.latitude IS NOT NULL
		) q
		WHERE q.distance_m <= $5
		ORDER BY q.distance_m ASC
	`
	var doctors []*model.NearbyDoctor
	if err := r.db.SelectContext(ctx, &doctors, query, lng, lat, model.RoleDoctor, exclude, radiusMeters); err != nil {
		return nil, fmt.Errorf("failed to find nearby doctors: %w", err)
	}
	return doctors, nil
}

func (r *userRepository) CountPatients(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, model.RolePatient); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}
