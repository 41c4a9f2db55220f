package booking_session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRM-SchedulingService/internal/session"
	bookingFlow "github.com/m04kA/CRM-SchedulingService/internal/usecase/booking_flow"
)

type fakeFlow struct {
	resp *bookingFlow.Response
	err  error
}

func (f *fakeFlow) Start(_ context.Context, _ *bookingFlow.StartRequest) (*bookingFlow.Response, error) {
	return f.resp, f.err
}

func (f *fakeFlow) Get(_ context.Context, _ uuid.UUID) (*bookingFlow.Response, error) {
	return f.resp, f.err
}

func (f *fakeFlow) SelectDate(_ context.Context, _ *bookingFlow.SelectDateRequest) (*bookingFlow.Response, error) {
	return f.resp, f.err
}

func (f *fakeFlow) SelectSlot(_ context.Context, _ *bookingFlow.SelectSlotRequest) (*bookingFlow.Response, error) {
	return f.resp, f.err
}

func (f *fakeFlow) Submit(_ context.Context, _ *bookingFlow.SubmitRequest) (*bookingFlow.Response, error) {
	return f.resp, f.err
}

func (f *fakeFlow) Back(_ context.Context, _ uuid.UUID) (*bookingFlow.Response, error) {
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRouter(flow BookingFlowUseCase) *mux.Router {
	h := NewHandler(flow, nopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions", h.HandleStart).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/sessions/{sessionId}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/sessions/{sessionId}/select-date", h.HandleSelectDate).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/sessions/{sessionId}/submit", h.HandleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/sessions/{sessionId}/back", h.HandleBack).Methods(http.MethodPost)
	return r
}

func calendarStepResponse(id uuid.UUID) *bookingFlow.Response {
	return &bookingFlow.Response{Session: bookingFlow.SessionState{
		SessionID: id,
		Step:      session.StepCalendar,
		ServiceID: 10,
		ExpiresAt: time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC),
	}}
}

func TestHandler_Start(t *testing.T) {
	id := uuid.New()
	router := newRouter(&fakeFlow{resp: calendarStepResponse(id)})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions",
		bytes.NewBufferString(`{"serviceId": 10}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp.SessionID)
	assert.Equal(t, "calendar", resp.Step)
}

func TestHandler_Start_ServiceNotFound(t *testing.T) {
	router := newRouter(&fakeFlow{err: bookingFlow.ErrServiceNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions",
		bytes.NewBufferString(`{"serviceId": 99}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Get_MalformedSessionID(t *testing.T) {
	router := newRouter(&fakeFlow{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SelectDate_SessionNotFound(t *testing.T) {
	router := newRouter(&fakeFlow{err: bookingFlow.ErrSessionNotFound})

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+uuid.NewString()+"/select-date",
		bytes.NewBufferString(`{"date": "2025-06-03"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SelectDate_InvalidDate(t *testing.T) {
	router := newRouter(&fakeFlow{err: bookingFlow.ErrInvalidDate})

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+uuid.NewString()+"/select-date",
		bytes.NewBufferString(`{"date": "03.06.2025"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Submit_Conflict_EmbedsSessionState(t *testing.T) {
	id := uuid.New()
	// Конфликт: use case вернул и состояние сессии, и ошибку
	flow := &fakeFlow{
		resp: &bookingFlow.Response{
			Session: bookingFlow.SessionState{
				SessionID:             id,
				Step:                  session.StepTime,
				ServiceID:             10,
				SelectedDate:          "2025-06-03",
				SlotNoLongerAvailable: true,
			},
			Slots: []bookingFlow.Slot{
				{StartAt: time.Date(2025, 6, 3, 11, 0, 0, 0, time.UTC), DurationMinutes: 60},
			},
		},
		err: bookingFlow.ErrSlotNoLongerAvailable,
	}
	router := newRouter(flow)

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+id.String()+"/submit",
		bytes.NewBufferString(`{"contact": {"name": "Jane Cooper", "email": "jane@example.com", "phone": "+14155552671"}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error struct {
			Reason string `json:"reason"`
		} `json:"error"`
		Session *SessionResponse `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "slot_no_longer_available", body.Error.Reason)
	require.NotNil(t, body.Session)
	assert.Equal(t, "time", body.Session.Step)
	assert.True(t, body.Session.SlotNoLongerAvailable)
	assert.Len(t, body.Session.Slots, 1)
}

func TestHandler_Back_InvalidStep(t *testing.T) {
	router := newRouter(&fakeFlow{err: bookingFlow.ErrInvalidStep})

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+uuid.NewString()+"/back", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error struct {
			Reason string `json:"reason"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_step", resp.Error.Reason)
}
