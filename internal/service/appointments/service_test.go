package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/internal/integrations/crmcore"
	"github.com/m04kA/CRM-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/CRM-SchedulingService/pkg/ptr"
)

var (
	testPublicID = uuid.New()
	testStartAt  = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
)

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	getErr      error
	cancelErr   error

	// afterCancel подменяет appointment после успешного Cancel
	afterCancel *domain.Appointment
	cancelCalls int
	lastReason  *string
}

func (f *fakeAppointmentRepo) GetByPublicID(_ context.Context, _ uuid.UUID) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	appt := *f.appointment
	return &appt, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, _ uuid.UUID, reason *string) error {
	f.cancelCalls++
	f.lastReason = reason
	if f.afterCancel != nil {
		f.appointment = f.afterCancel
	}
	return f.cancelErr
}

type fakeCatalog struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, _ int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeCancelPublisher struct {
	events chan crmcore.AppointmentCancelledEvent
}

func newFakeCancelPublisher() *fakeCancelPublisher {
	return &fakeCancelPublisher{events: make(chan crmcore.AppointmentCancelledEvent, 8)}
}

func (f *fakeCancelPublisher) PublishAppointmentCancelledWithGracefulDegradation(_ context.Context, event crmcore.AppointmentCancelledEvent) error {
	f.events <- event
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		PublicID:        testPublicID,
		ServiceID:       10,
		StartAt:         testStartAt,
		DurationMinutes: 60,
		Contact:         domain.Contact{Name: "Jane Cooper", Email: "jane@example.com", Phone: "+14155552671"},
		Source:          domain.SourceWidget,
		Status:          domain.StatusConfirmed,
		CreatedAt:       testStartAt.Add(-24 * time.Hour),
		UpdatedAt:       testStartAt.Add(-24 * time.Hour),
	}
}

func cancelledAppointment(reason *string) *domain.Appointment {
	appt := confirmedAppointment()
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = reason
	cancelledAt := testStartAt.Add(-time.Hour)
	appt.CancelledAt = &cancelledAt
	return appt
}

func newTestService(repo *fakeAppointmentRepo, catalog *fakeCatalog, publisher EventPublisher) *Service {
	return NewService(repo, catalog, publisher, nopLogger{})
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{service: &domain.Service{ID: 10, Name: "Strategy Call", Active: true}}
}

func TestService_GetByPublicID(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: confirmedAppointment()}
	svc := newTestService(repo, defaultCatalog(), nil)

	resp, err := svc.GetByPublicID(context.Background(), testPublicID)
	require.NoError(t, err)

	assert.Equal(t, testPublicID.String(), resp.ID)
	assert.Equal(t, "Strategy Call", resp.ServiceName)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Nil(t, resp.CancelledAt)
}

func TestService_GetByPublicID_NotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}
	svc := newTestService(repo, defaultCatalog(), nil)

	_, err := svc.GetByPublicID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_GetByPublicID_CatalogFailureDoesNotBlock(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: confirmedAppointment()}
	catalog := &fakeCatalog{err: calendarRepo.ErrServiceNotFound}
	svc := newTestService(repo, catalog, nil)

	resp, err := svc.GetByPublicID(context.Background(), testPublicID)
	require.NoError(t, err)
	assert.Empty(t, resp.ServiceName)
}

func TestService_Cancel(t *testing.T) {
	reason := ptr.Ptr("client request")
	repo := &fakeAppointmentRepo{
		appointment: confirmedAppointment(),
		afterCancel: cancelledAppointment(reason),
	}
	svc := newTestService(repo, defaultCatalog(), nil)

	resp, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{Reason: reason})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "client request", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
}

func TestService_Cancel_NormalizesReason(t *testing.T) {
	repo := &fakeAppointmentRepo{
		appointment: confirmedAppointment(),
		afterCancel: cancelledAppointment(nil),
	}
	svc := newTestService(repo, defaultCatalog(), nil)

	_, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{Reason: ptr.Ptr("   ")})
	require.NoError(t, err)

	// Пустая причина после trim превращается в nil
	assert.Nil(t, repo.lastReason)
}

func TestService_Cancel_AlreadyCancelledIsSuccess(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: cancelledAppointment(nil)}
	svc := newTestService(repo, defaultCatalog(), nil)

	resp, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{})
	require.NoError(t, err)

	// Повторная отмена не трогает хранилище
	assert.Equal(t, 0, repo.cancelCalls)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestService_Cancel_ConcurrentCancellationIsSuccess(t *testing.T) {
	// Между чтением и отменой конкурент успел отменить бронирование:
	// репозиторий не находит активную запись, но перечитывание видит отмену
	repo := &fakeAppointmentRepo{
		appointment: confirmedAppointment(),
		afterCancel: cancelledAppointment(nil),
		cancelErr:   appointmentRepo.ErrAppointmentNotFound,
	}
	svc := newTestService(repo, defaultCatalog(), nil)

	resp, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 1, repo.cancelCalls)
}

func TestService_Cancel_NotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}
	svc := newTestService(repo, defaultCatalog(), nil)

	_, err := svc.Cancel(context.Background(), uuid.New(), &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_Cancel_RepositoryFailure(t *testing.T) {
	repo := &fakeAppointmentRepo{
		appointment: confirmedAppointment(),
		cancelErr:   errors.New("connection refused"),
	}
	svc := newTestService(repo, defaultCatalog(), nil)

	_, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Cancel_PublishesCancelledEvent(t *testing.T) {
	reason := ptr.Ptr("client request")
	repo := &fakeAppointmentRepo{
		appointment: confirmedAppointment(),
		afterCancel: cancelledAppointment(reason),
	}
	publisher := newFakeCancelPublisher()
	svc := newTestService(repo, defaultCatalog(), publisher)

	_, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{Reason: reason})
	require.NoError(t, err)

	select {
	case event := <-publisher.events:
		assert.Equal(t, testPublicID.String(), event.AppointmentID)
		assert.Equal(t, int64(10), event.ServiceID)
		require.NotNil(t, event.Reason)
		assert.Equal(t, "client request", *event.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled event was not published")
	}
}

func TestService_Cancel_AlreadyCancelledDoesNotPublish(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: cancelledAppointment(nil)}
	publisher := newFakeCancelPublisher()
	svc := newTestService(repo, defaultCatalog(), publisher)

	_, err := svc.Cancel(context.Background(), testPublicID, &models.CancelAppointmentRequest{})
	require.NoError(t, err)

	select {
	case <-publisher.events:
		t.Fatal("no event expected for an already cancelled appointment")
	case <-time.After(100 * time.Millisecond):
	}
}
