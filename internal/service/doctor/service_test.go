package doctor

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedly/telemed-api/internal/model"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
	"github.com/telemedly/telemed-api/pkg/logger"
)

type fakeUserRepo struct {
	users            map[uuid.UUID]*model.User
	nearby           []*model.NearbyDoctor
	directory        []*model.DoctorDirectoryEntry
	patientCount     int
	listDoctorsCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) CreatePatientProfile(ctx context.Context, profile *model.PatientProfile) error {
	return nil
}

func (r *fakeUserRepo) CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error {
	return nil
}

func (r *fakeUserRepo) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) ListDoctors(ctx context.Context) ([]*model.DoctorDirectoryEntry, error) {
	r.listDoctorsCalls++
	return r.directory, nil
}

func (r *fakeUserRepo) FindNearbyDoctors(ctx context.Context, lng, lat, radiusMeters float64, exclude uuid.UUID) ([]*model.NearbyDoctor, error) {
	return r.nearby, nil
}

func (r *fakeUserRepo) CountPatients(ctx context.Context) (int, error) {
	return r.patientCount, nil
}

type fakeAppointmentRepo struct {
	todayCount     int
	pendingCount   int
	completedCount int
	today          []*model.DashboardAppointment
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error { return nil }

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, sql.ErrNoRows
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error { return nil }

func (r *fakeAppointmentRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error) {
	return false, nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id, patientID uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeAppointmentRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) RoomIDExists(ctx context.Context, roomID string) (bool, error) {
	return false, nil
}

func (r *fakeAppointmentRepo) CountForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	return r.todayCount, nil
}

func (r *fakeAppointmentRepo) CountForDoctorByStatus(ctx context.Context, doctorID uuid.UUID, status model.AppointmentStatus) (int, error) {
	if status == model.AppointmentStatusPending {
		return r.pendingCount, nil
	}
	return r.completedCount, nil
}

func (r *fakeAppointmentRepo) ListForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.DashboardAppointment, error) {
	return r.today, nil
}

func ptr(f float64) *float64 { return &f }

func TestFindNearbyWithoutLocation(t *testing.T) {
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &model.User{Base: model.Base{ID: userID}, Role: model.RolePatient}

	svc := NewService(users, &fakeAppointmentRepo{}, 10000, logger.NewLogger(nil))

	_, err := svc.FindNearby(context.Background(), userID)
	require.True(t, apperrors.IsNotFound(err))
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, "user location information not found", appErr.Message)
}

func TestFindNearbyReturnsCountAndRadiusLabel(t *testing.T) {
	users := newFakeUserRepo()
	userID := uuid.New()
	users.users[userID] = &model.User{
		Base:      model.Base{ID: userID},
		Role:      model.RolePatient,
		Longitude: ptr(72.8777),
		Latitude:  ptr(19.0760),
	}
	users.nearby = []*model.NearbyDoctor{
		{ID: uuid.New(), FullName: "Asha Rao", DistanceKm: 1.25},
		{ID: uuid.New(), FullName: "Vikram Shah", DistanceKm: 4.8},
	}

	svc := NewService(users, &fakeAppointmentRepo{}, 10000, logger.NewLogger(nil))

	result, err := svc.FindNearby(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalDoctors)
	assert.Equal(t, "10 km", result.MaxDistance)
	assert.Len(t, result.Doctors, 2)
}

func TestFindNearbyUnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo(), &fakeAppointmentRepo{}, 10000, logger.NewLogger(nil))

	_, err := svc.FindNearby(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDirectoryIsCached(t *testing.T) {
	users := newFakeUserRepo()
	users.directory = []*model.DoctorDirectoryEntry{{ID: uuid.New(), FirstName: "Asha"}}

	svc := NewService(users, &fakeAppointmentRepo{}, 10000, logger.NewLogger(nil))

	first, err := svc.Directory(context.Background())
	require.NoError(t, err)
	second, err := svc.Directory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, users.listDoctorsCalls)
}

func TestDashboard(t *testing.T) {
	users := newFakeUserRepo()
	users.patientCount = 7
	appointments := &fakeAppointmentRepo{
		todayCount:     3,
		pendingCount:   2,
		completedCount: 5,
		today: []*model.DashboardAppointment{
			{Time: "09:00", Patient: "Ravi Kumar", Status: model.AppointmentStatusApproved},
		},
	}

	svc := NewService(users, appointments, 10000, logger.NewLogger(nil))

	snapshot, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, snapshot.Stats, 4)
	assert.Equal(t, model.DashboardStat{Title: "Today's Appointments", Value: "3"}, snapshot.Stats[0])
	assert.Equal(t, model.DashboardStat{Title: "Pending Appointments", Value: "2"}, snapshot.Stats[1])
	assert.Equal(t, model.DashboardStat{Title: "Total Patients", Value: "7"}, snapshot.Stats[2])
	assert.Equal(t, model.DashboardStat{Title: "Completed Appointments", Value: "5"}, snapshot.Stats[3])
	require.Len(t, snapshot.Appointments, 1)
	assert.Equal(t, "Ravi Kumar", snapshot.Appointments[0].Patient)
}
