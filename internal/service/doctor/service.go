package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
	"github.com/telemedly/telemed-api/pkg/logger"
)

const (
	directoryCacheKey = "doctor_directory"
	directoryCacheTTL = time.Minute
)

// Service covers doctor discovery and the doctor dashboard.
type Service interface {
	// FindNearby returns available doctors within the configured radius of the
	// caller's stored location, nearest first.
	FindNearby(ctx context.Context, userID uuid.UUID) (*model.NearbyDoctorsResult, error)
	// Directory returns the public doctor listing. Results are cached briefly.
	Directory(ctx context.Context) ([]*model.DoctorDirectoryEntry, error)
	Dashboard(ctx context.Context, doctorID uuid.UUID) (*model.DashboardSnapshot, error)
}

type service struct {
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	radiusMeters    float64
	cache           *cache.Cache
	logger          *logger.Logger
}

func NewService(userRepo repository.UserRepository, appointmentRepo repository.AppointmentRepository, radiusMeters float64, logger *logger.Logger) Service {
	return &service{
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		radiusMeters:    radiusMeters,
		cache:           cache.New(directoryCacheTTL, 5*time.Minute),
		logger:          logger,
	}
}

func (s *service) FindNearby(ctx context.Context, userID uuid.UUID) (*model.NearbyDoctorsResult, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	if !user.HasLocation() {
		return nil, apperrors.NewNotFound("user location information", nil)
	}

	doctors, err := s.userRepo.FindNearbyDoctors(ctx, *user.Longitude, *user.Latitude, s.radiusMeters, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if doctors == nil {
		doctors = []*model.NearbyDoctor{}
	}

	return &model.NearbyDoctorsResult{
		Doctors:      doctors,
		TotalDoctors: len(doctors),
		MaxDistance:  fmt.Sprintf("%d km", int(s.radiusMeters/1000)),
	}, nil
}

func (s *service) Directory(ctx context.Context) ([]*model.DoctorDirectoryEntry, error) {
	if cached, found := s.cache.Get(directoryCacheKey); found {
		return cached.([]*model.DoctorDirectoryEntry), nil
	}

	doctors, err := s.userRepo.ListDoctors(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if doctors == nil {
		doctors = []*model.DoctorDirectoryEntry{}
	}

	s.cache.Set(directoryCacheKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

// Dashboard assembles the doctor's stat tiles and today's appointment list.
// Appointment counts are scoped to the doctor; the patient count is
// system-wide.
func (s *service) Dashboard(ctx context.Context, doctorID uuid.UUID) (*model.DashboardSnapshot, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	todayCount, err := s.appointmentRepo.CountForDoctorOnDay(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	pendingCount, err := s.appointmentRepo.CountForDoctorByStatus(ctx, doctorID, model.AppointmentStatusPending)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	completedCount, err := s.appointmentRepo.CountForDoctorByStatus(ctx, doctorID, model.AppointmentStatusCompleted)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	patientCount, err := s.userRepo.CountPatients(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	today, err := s.appointmentRepo.ListForDoctorOnDay(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if today == nil {
		today = []*model.DashboardAppointment{}
	}

	return &model.DashboardSnapshot{
		Stats: []model.DashboardStat{
			{Title: "Today's Appointments", Value: strconv.Itoa(todayCount)},
			{Title: "Pending Appointments", Value: strconv.Itoa(pendingCount)},
			{Title: "Total Patients", Value: strconv.Itoa(patientCount)},
			{Title: "Completed Appointments", Value: strconv.Itoa(completedCount)},
		},
		Appointments: today,
	}, nil
}
