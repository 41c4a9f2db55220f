package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	"github.com/m04kA/CRM-SchedulingService/pkg/metrics"

	reserveSlot "github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

type fakeUseCase struct {
	resp *reserveSlot.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ *reserveSlot.Request) (*reserveSlot.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) IncReservation(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func requestBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(CreateAppointmentRequest{
		ServiceID: 10,
		StartAt:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		Contact: ContactRequest{
			Name:  "Jane Cooper",
			Email: "jane@example.com",
			Phone: "+14155552671",
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func doRequest(t *testing.T, uc ReserveSlotUseCase, m ReservationMetrics, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(uc, m, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", body)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	appointmentID := uuid.New()
	uc := &fakeUseCase{resp: &reserveSlot.Response{
		AppointmentID:   appointmentID,
		ServiceID:       10,
		ServiceName:     "Strategy Call",
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Contact:         domain.Contact{Name: "Jane Cooper", Email: "jane@example.com", Phone: "+14155552671"},
		Source:          domain.SourceWidget,
		Status:          string(domain.StatusConfirmed),
	}}
	m := &recordingMetrics{}

	rec := doRequest(t, uc, m, requestBody(t))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{metrics.OutcomeConfirmed}, m.outcomes)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, appointmentID.String(), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "widget", resp.Source)
}

func TestHandler_SlotConflict(t *testing.T) {
	uc := &fakeUseCase{err: reserveSlot.ErrSlotConflict}
	m := &recordingMetrics{}

	rec := doRequest(t, uc, m, requestBody(t))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{metrics.OutcomeConflict}, m.outcomes)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_taken", resp.Error.Reason)
}

func TestHandler_ValidationError(t *testing.T) {
	uc := &fakeUseCase{err: &reserveSlot.ValidationError{Fields: []reserveSlot.FieldError{
		{Field: "email", Message: "invalid email format"},
		{Field: "phone", Message: "invalid phone number"},
	}}}

	rec := doRequest(t, uc, &recordingMetrics{}, requestBody(t))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Fields, 2)
	assert.Equal(t, "email", resp.Error.Fields[0].Field)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"service not found", reserveSlot.ErrServiceNotFound, http.StatusNotFound},
		{"service not bookable", reserveSlot.ErrServiceNotBookable, http.StatusBadRequest},
		{"calendar not configured", reserveSlot.ErrCalendarNotConfigured, http.StatusServiceUnavailable},
		{"invalid slot", reserveSlot.ErrInvalidSlot, http.StatusBadRequest},
		{"too late to book", reserveSlot.ErrTooLateToBook, http.StatusBadRequest},
		{"store unavailable", reserveSlot.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"internal", reserveSlot.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &fakeUseCase{err: tt.err}, &recordingMetrics{}, requestBody(t))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_StoreUnavailable_RetryAfter(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{err: reserveSlot.ErrStoreUnavailable}, &recordingMetrics{}, requestBody(t))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestHandler_MalformedBody(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, &recordingMetrics{}, bytes.NewBufferString("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UnknownFieldRejected(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, &recordingMetrics{},
		bytes.NewBufferString(`{"serviceId": 10, "unexpected": true}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
