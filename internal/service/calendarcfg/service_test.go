package calendarcfg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg/models"
	"github.com/m04kA/CRM-SchedulingService/pkg/ptr"
)

type fakeCalendarRepo struct {
	config     *domain.CalendarConfig
	configErr  error
	service    *domain.Service
	serviceErr error

	created *domain.CalendarConfig
	updated *domain.CalendarConfig
}

func (f *fakeCalendarRepo) GetConfig(_ context.Context) (*domain.CalendarConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeCalendarRepo) CreateConfig(_ context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error) {
	created := *cfg
	created.ID = 1
	created.UpdatedAt = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	f.created = &created
	return &created, nil
}

func (f *fakeCalendarRepo) UpdateConfig(_ context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error) {
	updated := *cfg
	updated.UpdatedAt = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	f.updated = &updated
	return &updated, nil
}

func (f *fakeCalendarRepo) GetServiceByID(_ context.Context, _ int64) (*domain.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

func (f *fakeCalendarRepo) ListServices(_ context.Context, _ bool) ([]*domain.Service, error) {
	if f.service == nil {
		return nil, nil
	}
	return []*domain.Service{f.service}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func storedConfig() *domain.CalendarConfig {
	return &domain.CalendarConfig{
		ID:       1,
		TimeZone: "UTC",
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		DayStart:               "09:00",
		DayEnd:                 "17:00",
		SlotGranularityMinutes: 30,
		MinLeadMinutes:         30,
	}
}

func validUpdateRequest() *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		TimeZone:               "Europe/Berlin",
		WorkingDays:            []int{1, 2, 3, 4, 5},
		DayStart:               "10:00",
		DayEnd:                 "18:00",
		SlotGranularityMinutes: 60,
		MinLeadMinutes:         120,
	}
}

func TestService_Get(t *testing.T) {
	repo := &fakeCalendarRepo{config: storedConfig()}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "UTC", resp.TimeZone)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, resp.WorkingDays)
	assert.Equal(t, "09:00", resp.DayStart)
	assert.Equal(t, "17:00", resp.DayEnd)
}

func TestService_Get_NotFound(t *testing.T) {
	repo := &fakeCalendarRepo{configErr: calendarRepo.ErrConfigNotFound}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestService_Update(t *testing.T) {
	repo := &fakeCalendarRepo{config: storedConfig()}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), validUpdateRequest())
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Nil(t, repo.created)
	// Строка конфигурации одна, обновление идёт по существующему ID
	assert.Equal(t, int64(1), repo.updated.ID)

	assert.Equal(t, "Europe/Berlin", resp.TimeZone)
	assert.Equal(t, "10:00", resp.DayStart)
	assert.Equal(t, 60, resp.SlotGranularityMinutes)
}

func TestService_Update_CreatesOnFirstPut(t *testing.T) {
	repo := &fakeCalendarRepo{configErr: calendarRepo.ErrConfigNotFound}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), validUpdateRequest())
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Nil(t, repo.updated)
	assert.Equal(t, "Europe/Berlin", resp.TimeZone)
}

func TestService_Update_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.UpdateConfigRequest)
	}{
		{
			name:   "malformed day start",
			mutate: func(r *models.UpdateConfigRequest) { r.DayStart = "25:99" },
		},
		{
			name:   "end before start",
			mutate: func(r *models.UpdateConfigRequest) { r.DayStart = "18:00"; r.DayEnd = "10:00" },
		},
		{
			name:   "no working days",
			mutate: func(r *models.UpdateConfigRequest) { r.WorkingDays = nil },
		},
		{
			name:   "granularity does not divide window",
			mutate: func(r *models.UpdateConfigRequest) { r.SlotGranularityMinutes = 70 },
		},
		{
			name:   "unknown timezone",
			mutate: func(r *models.UpdateConfigRequest) { r.TimeZone = "Mars/Olympus" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCalendarRepo{config: storedConfig()}
			svc := NewService(repo, nopLogger{})

			req := validUpdateRequest()
			tt.mutate(req)

			_, err := svc.Update(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.updated)
		})
	}
}

func TestService_Update_DefaultServiceMustExist(t *testing.T) {
	repo := &fakeCalendarRepo{config: storedConfig(), serviceErr: calendarRepo.ErrServiceNotFound}
	svc := NewService(repo, nopLogger{})

	req := validUpdateRequest()
	req.DefaultServiceID = ptr.Ptr(int64(99))

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_Update_DefaultServiceMustBeActive(t *testing.T) {
	repo := &fakeCalendarRepo{
		config:  storedConfig(),
		service: &domain.Service{ID: 10, Name: "Strategy Call", Active: false},
	}
	svc := NewService(repo, nopLogger{})

	req := validUpdateRequest()
	req.DefaultServiceID = ptr.Ptr(int64(10))

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Update_WithTheme(t *testing.T) {
	repo := &fakeCalendarRepo{config: storedConfig()}
	svc := NewService(repo, nopLogger{})

	req := validUpdateRequest()
	req.Theme = &models.ThemeRequest{PrimaryColor: ptr.Ptr("#1a73e8")}

	resp, err := svc.Update(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.Theme)
	require.NotNil(t, resp.Theme.PrimaryColor)
	assert.Equal(t, "#1a73e8", *resp.Theme.PrimaryColor)
}

func TestService_Update_RepositoryFailure(t *testing.T) {
	repo := &fakeCalendarRepo{configErr: errors.New("connection refused")}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Update(context.Background(), validUpdateRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
