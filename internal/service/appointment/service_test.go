package appointment

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
	"github.com/telemedly/telemed-api/pkg/roomid"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) addDoctor() uuid.UUID {
	id := uuid.New()
	r.users[id] = &model.User{Base: model.Base{ID: id}, Role: model.RoleDoctor}
	return id
}

func (r *fakeUserRepo) addPatient() uuid.UUID {
	id := uuid.New()
	r.users[id] = &model.User{Base: model.Base{ID: id}, Role: model.RolePatient}
	return id
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
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
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
	return nil, nil
}

func (r *fakeUserRepo) FindNearbyDoctors(ctx context.Context, lng, lat, radiusMeters float64, exclude uuid.UUID) ([]*model.NearbyDoctor, error) {
	return nil, nil
}

func (r *fakeUserRepo) CountPatients(ctx context.Context) (int, error) {
	return 0, nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment

	// roomIDCollisions forces that many RoomIDExists calls to report true.
	roomIDCollisions int
	existsCalls      int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	copied := *a
	r.appointments[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	copied := *a
	r.appointments[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error) {
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id, patientID uuid.UUID) (bool, error) {
	a, ok := r.appointments[id]
	if !ok || a.PatientID != patientID {
		return false, nil
	}
	delete(r.appointments, id)
	return true, nil
}

func (r *fakeAppointmentRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	var out []*model.AppointmentWithDoctor
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, &model.AppointmentWithDoctor{Appointment: *a})
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	var out []*model.AppointmentWithPatient
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, &model.AppointmentWithPatient{Appointment: *a})
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) RoomIDExists(ctx context.Context, roomID string) (bool, error) {
	r.existsCalls++
	if r.existsCalls <= r.roomIDCollisions {
		return true, nil
	}
	for _, a := range r.appointments {
		if a.RoomID == roomID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) CountForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	return 0, nil
}

func (r *fakeAppointmentRepo) CountForDoctorByStatus(ctx context.Context, doctorID uuid.UUID, status model.AppointmentStatus) (int, error) {
	return 0, nil
}

func (r *fakeAppointmentRepo) ListForDoctorOnDay(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.DashboardAppointment, error) {
	return nil, nil
}

type recordingNotifier struct {
	requested []*model.Appointment
	decided   []*model.Appointment
}

func (n *recordingNotifier) AppointmentRequested(ctx context.Context, a *model.Appointment) {
	n.requested = append(n.requested, a)
}

func (n *recordingNotifier) AppointmentDecided(ctx context.Context, a *model.Appointment) {
	n.decided = append(n.decided, a)
}

type fixture struct {
	svc       Service
	users     *fakeUserRepo
	repo      *fakeAppointmentRepo
	notifier  *recordingNotifier
	patientID uuid.UUID
	doctorID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newFakeUserRepo()
	repo := newFakeAppointmentRepo()
	notifier := &recordingNotifier{}
	return &fixture{
		svc:       NewService(repo, users, notifier, logger.NewLogger(nil)),
		users:     users,
		repo:      repo,
		notifier:  notifier,
		patientID: users.addPatient(),
		doctorID:  users.addDoctor(),
	}
}

func createRequest(doctorID uuid.UUID, consultationType model.ConsultationType) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		DoctorID: doctorID,
		Date:     time.Now().AddDate(0, 0, 1),
		Time:     "14:30",
		Type:     consultationType,
	}
}

func TestCreateOnlineAssignsRoomID(t *testing.T) {
	f := newFixture(t)

	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.True(t, roomid.Valid(appointment.RoomID), "room id %q should be six alphanumerics", appointment.RoomID)
	require.Len(t, f.notifier.requested, 1)
}

func TestCreateInPersonHasNoRoomID(t *testing.T) {
	f := newFixture(t)

	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationInPerson))
	require.NoError(t, err)

	assert.Empty(t, appointment.RoomID)
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
}

func TestCreateUnknownDoctorPersistsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.patientID, createRequest(uuid.New(), model.ConsultationOnline))
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.repo.appointments)
	assert.Empty(t, f.notifier.requested)
}

func TestCreateRejectsNonDoctorTarget(t *testing.T) {
	f := newFixture(t)
	otherPatient := f.users.addPatient()

	_, err := f.svc.Create(context.Background(), f.patientID, createRequest(otherPatient, model.ConsultationOnline))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateRetriesRoomIDCollisions(t *testing.T) {
	f := newFixture(t)
	f.repo.roomIDCollisions = 2

	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	assert.True(t, roomid.Valid(appointment.RoomID))
	assert.Equal(t, 3, f.repo.existsCalls)
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	notes := "hijacked"
	_, err = f.svc.Update(context.Background(), appointment.ID, uuid.New(), &model.UpdateAppointmentRequest{Notes: &notes})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	stored := f.repo.appointments[appointment.ID]
	assert.NotEqual(t, "hijacked", stored.Notes)
}

func TestUpdateNonPendingIsConflict(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)
	f.repo.appointments[appointment.ID].Status = model.AppointmentStatusApproved

	notes := "too late"
	_, err = f.svc.Update(context.Background(), appointment.ID, f.patientID, &model.UpdateAppointmentRequest{Notes: &notes})
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdateAppliesFields(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	newTime := "09:15"
	notes := "bring previous reports"
	updated, err := f.svc.Update(context.Background(), appointment.ID, f.patientID, &model.UpdateAppointmentRequest{
		Time:  &newTime,
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:15", updated.Time)
	assert.Equal(t, "bring previous reports", updated.Notes)
	assert.Equal(t, appointment.RoomID, updated.RoomID)
}

func TestDeleteByNonOwnerReadsAsNotFound(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), appointment.ID, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, f.repo.appointments, appointment.ID)

	require.NoError(t, f.svc.Delete(context.Background(), appointment.ID, f.patientID))
	assert.NotContains(t, f.repo.appointments, appointment.ID)
}

func TestApproveByWrongDoctorIsForbidden(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	otherDoctor := f.users.addDoctor()
	_, err = f.svc.Approve(context.Background(), appointment.ID, otherDoctor)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	assert.Equal(t, model.AppointmentStatusPending, f.repo.appointments[appointment.ID].Status)
}

func TestApprovePendingAppointment(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	approved, err := f.svc.Approve(context.Background(), appointment.ID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusApproved, approved.Status)
	require.Len(t, f.notifier.decided, 1)
}

func TestApproveNonPendingIsConflict(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), appointment.ID, f.doctorID)
	require.NoError(t, err)

	_, err = f.svc.Decline(context.Background(), appointment.ID, f.doctorID)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, model.AppointmentStatusApproved, f.repo.appointments[appointment.ID].Status)
}

func TestDeclineSetsCancelled(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	declined, err := f.svc.Decline(context.Background(), appointment.ID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, declined.Status)
}

func TestJoinIsIdempotentForBothParties(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	first, err := f.svc.Join(context.Background(), appointment.ID, f.patientID)
	require.NoError(t, err)
	second, err := f.svc.Join(context.Background(), appointment.ID, f.doctorID)
	require.NoError(t, err)
	third, err := f.svc.Join(context.Background(), appointment.ID, f.patientID)
	require.NoError(t, err)

	assert.Equal(t, first.RoomID, second.RoomID)
	assert.Equal(t, first.RoomID, third.RoomID)
}

func TestJoinByNonPartyIsForbidden(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationOnline))
	require.NoError(t, err)

	_, err = f.svc.Join(context.Background(), appointment.ID, uuid.New())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestJoinInPersonIsNotFound(t *testing.T) {
	f := newFixture(t)
	appointment, err := f.svc.Create(context.Background(), f.patientID, createRequest(f.doctorID, model.ConsultationInPerson))
	require.NoError(t, err)

	_, err = f.svc.Join(context.Background(), appointment.ID, f.patientID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJoinUnknownAppointmentIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Join(context.Background(), uuid.New(), f.patientID)
	assert.True(t, apperrors.IsNotFound(err))
}
