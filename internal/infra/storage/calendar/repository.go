package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	"github.com/m04kA/CRM-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/CRM-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации календаря и каталога услуг
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig получает конфигурацию календаря
// Сервис работает с одним календарём (single-practitioner), поэтому берётся единственная строка
func (r *Repository) GetConfig(ctx context.Context) (*domain.CalendarConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"time_zone",
		"working_days_mask",
		"day_start",
		"day_end",
		"slot_granularity_minutes",
		"min_lead_minutes",
		"default_service_id",
		"theme_primary_color",
		"theme_accent_color",
		"theme_logo_url",
		"created_at",
		"updated_at",
	).
		From("calendar_config").
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.CalendarConfig
	var mask int16
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.TimeZone,
		&mask,
		&cfg.DayStart,
		&cfg.DayEnd,
		&cfg.SlotGranularityMinutes,
		&cfg.MinLeadMinutes,
		&cfg.DefaultServiceID,
		&cfg.Theme.PrimaryColor,
		&cfg.Theme.AccentColor,
		&cfg.Theme.LogoURL,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfig - scan config: %v", ErrScanRow, err)
	}

	cfg.WorkingDays = domain.WorkingDaysFromMask(mask)
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// CreateConfig создает конфигурацию календаря
// Используется при первичной настройке, когда строки ещё нет
func (r *Repository) CreateConfig(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendar_config").
		Columns(
			"time_zone",
			"working_days_mask",
			"day_start",
			"day_end",
			"slot_granularity_minutes",
			"min_lead_minutes",
			"default_service_id",
			"theme_primary_color",
			"theme_accent_color",
			"theme_logo_url",
		).
		Values(
			cfg.TimeZone,
			domain.WorkingDaysMask(cfg.WorkingDays),
			cfg.DayStart,
			cfg.DayEnd,
			cfg.SlotGranularityMinutes,
			cfg.MinLeadMinutes,
			cfg.DefaultServiceID,
			cfg.Theme.PrimaryColor,
			cfg.Theme.AccentColor,
			cfg.Theme.LogoURL,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateConfig - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateConfig - execute insert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time
	return cfg, nil
}

// UpdateConfig обновляет конфигурацию календаря
func (r *Repository) UpdateConfig(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_config").
		Set("time_zone", cfg.TimeZone).
		Set("working_days_mask", domain.WorkingDaysMask(cfg.WorkingDays)).
		Set("day_start", cfg.DayStart).
		Set("day_end", cfg.DayEnd).
		Set("slot_granularity_minutes", cfg.SlotGranularityMinutes).
		Set("min_lead_minutes", cfg.MinLeadMinutes).
		Set("default_service_id", cfg.DefaultServiceID).
		Set("theme_primary_color", cfg.Theme.PrimaryColor).
		Set("theme_accent_color", cfg.Theme.AccentColor).
		Set("theme_logo_url", cfg.Theme.LogoURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": cfg.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - execute update: %v", ErrExecQuery, err)
	}

	cfg.UpdatedAt = updatedAt.Time
	return cfg, nil
}

// GetServiceByID получает услугу из каталога по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"duration_minutes",
		"active",
		"created_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.Active,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time
	return &svc, nil
}

// ListServices получает каталог услуг
// activeOnly=true возвращает только опубликованные (бронируемые) услуги
func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"duration_minutes",
		"active",
		"created_at",
	).
		From("services").
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var svc domain.Service
		var createdAt sql.NullTime

		err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.Description,
			&svc.DurationMinutes,
			&svc.Active,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}

		svc.CreatedAt = createdAt.Time
		services = append(services, &svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}
