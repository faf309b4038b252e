package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/pkg/auth"
	apperrors "github.com/telemedly/telemed-api/pkg/errors"
)

type fakeService struct {
	created     *model.Appointment
	createErr   error
	joinErr     error
	joinRoomID  string
	lastPatient uuid.UUID
}

func (s *fakeService) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	s.lastPatient = patientID
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *fakeService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDoctor, error) {
	return []*model.AppointmentWithDoctor{}, nil
}

func (s *fakeService) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	return []*model.AppointmentWithPatient{}, nil
}

func (s *fakeService) Update(ctx context.Context, id, patientID uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	return nil, apperrors.NewNotFound("appointment", nil)
}

func (s *fakeService) Delete(ctx context.Context, id, patientID uuid.UUID) error {
	return apperrors.NewNotFound("appointment", nil)
}

func (s *fakeService) Approve(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NewForbidden("only the appointment's doctor can act on it", nil)
}

func (s *fakeService) Decline(ctx context.Context, id, doctorID uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NewConflict("appointment is no longer pending", nil)
}

func (s *fakeService) Join(ctx context.Context, id, userID uuid.UUID) (*model.JoinResponse, error) {
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	return &model.JoinResponse{RoomID: s.joinRoomID}, nil
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func setup(t *testing.T, svc *fakeService) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	authMW := middleware.NewAuthMiddleware(jwtSvc)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), authMW)
	return r, jwtSvc
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCreateReturnsEnvelope(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	svc := &fakeService{created: &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: patientID,
		DoctorID:  doctorID,
		Type:      model.ConsultationOnline,
		Status:    model.AppointmentStatusPending,
		RoomID:    "aB3xY9",
	}}
	r, jwtSvc := setup(t, svc)
	token, err := jwtSvc.GenerateToken(patientID, model.RolePatient)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/appointment/", token, map[string]interface{}{
		"doctor_id": doctorID,
		"date":      time.Now().AddDate(0, 0, 1).Format(time.RFC3339),
		"time":      "14:30",
		"type":      "online",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "Appointment created successfully", env.Message)
	assert.Equal(t, patientID, svc.lastPatient)
}

func TestCreateRejectsDoctorRole(t *testing.T) {
	svc := &fakeService{}
	r, jwtSvc := setup(t, svc)
	token, err := jwtSvc.GenerateToken(uuid.New(), model.RoleDoctor)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/appointment/", token, map[string]interface{}{
		"doctor_id": uuid.New(),
		"date":      time.Now().Format(time.RFC3339),
		"time":      "14:30",
		"type":      "online",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, json.RawMessage("false"), env.Data)
}

func TestCreateRejectsBadTime(t *testing.T) {
	svc := &fakeService{}
	r, jwtSvc := setup(t, svc)
	token, err := jwtSvc.GenerateToken(uuid.New(), model.RolePatient)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/appointment/", token, map[string]interface{}{
		"doctor_id": uuid.New(),
		"date":      time.Now().Format(time.RFC3339),
		"time":      "25:99",
		"type":      "online",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestCreateUnknownDoctorMapsTo404(t *testing.T) {
	svc := &fakeService{createErr: apperrors.NewNotFound("doctor", nil)}
	r, jwtSvc := setup(t, svc)
	token, err := jwtSvc.GenerateToken(uuid.New(), model.RolePatient)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/appointment/", token, map[string]interface{}{
		"doctor_id": uuid.New(),
		"date":      time.Now().Format(time.RFC3339),
		"time":      "14:30",
		"type":      "online",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, "doctor not found", env.Message)
	assert.Equal(t, json.RawMessage("false"), env.Data)
}

func TestUpdateRejectsMalformedID(t *testing.T) {
	svc := &fakeService{}
	r, jwtSvc := setup(t, svc)
	token, err := jwtSvc.GenerateToken(uuid.New(), model.RolePatient)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPut, "/api/v1/appointment/not-a-uuid", token, map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid appointment id", env.Message)
}

func TestJoinReturnsRoomID(t *testing.T) {
	svc := &fakeService{joinRoomID: "aB3xY9"}
	r, jwtSvc := setup(t, svc)
	token, err := jwtSvc.GenerateToken(uuid.New(), model.RolePatient)
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/appointment/join/"+uuid.NewString(), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var room model.JoinResponse
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, "aB3xY9", room.RoomID)
}

func TestListRequiresAuthentication(t *testing.T) {
	svc := &fakeService{}
	r, _ := setup(t, svc)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/appointment/", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}
