package booking_flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/internal/session"
	"github.com/m04kA/CRM-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

// UseCase оркестратор пошагового сценария бронирования.
// Переходы между шагами валидирует session.Session, этот слой
// связывает сессию с расчётом доступности и резервированием
type UseCase struct {
	sessions     SessionStore
	availability AvailabilityProvider
	reserver     SlotReserver
	calendarRepo CalendarRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessions SessionStore,
	availability AvailabilityProvider,
	reserver SlotReserver,
	calendarRepo CalendarRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessions,
		availability: availability,
		reserver:     reserver,
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// Start создает сессию бронирования для услуги
func (uc *UseCase) Start(ctx context.Context, req *StartRequest) (*Response, error) {
	svc, err := uc.calendarRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("BookingFlow: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrStoreUnavailable, err)
	}
	if !svc.Active {
		return nil, ErrServiceNotBookable
	}

	s := uc.sessions.Create(req.ServiceID)
	uc.logger.Info("BookingFlow: started session id=%s for service=%d", s.ID, req.ServiceID)

	return &Response{Session: sessionState(s)}, nil
}

// Get возвращает текущее состояние сессии
func (uc *UseCase) Get(ctx context.Context, sessionID uuid.UUID) (*Response, error) {
	s, err := uc.sessions.Get(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	resp := &Response{Session: sessionState(s)}

	// На шаге time переотдаем слоты выбранной даты, чтобы виджет
	// мог перерисовать список после перезагрузки страницы
	if s.Step == session.StepTime && s.SelectedDate != "" {
		slots, err := uc.slotsForDate(ctx, s.ServiceID, s.SelectedDate)
		if err == nil {
			resp.Slots = slots
		}
	}

	return resp, nil
}

// SelectDate фиксирует дату и возвращает доступные слоты на нее.
// Дата без слотов - валидный ответ с пустым списком, не ошибка
func (uc *UseCase) SelectDate(ctx context.Context, req *SelectDateRequest) (*Response, error) {
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}

	s, err := uc.sessions.Update(req.SessionID, func(s *session.Session) error {
		return s.SelectDate(req.Date)
	})
	if err != nil {
		return nil, uc.mapSessionError(err)
	}

	slots, err := uc.slotsForDate(ctx, s.ServiceID, req.Date)
	if err != nil {
		return nil, err
	}

	return &Response{Session: sessionState(s), Slots: slots}, nil
}

// SelectSlot фиксирует выбранный слот.
// Слот обязан присутствовать среди предложенных на выбранную дату
func (uc *UseCase) SelectSlot(ctx context.Context, req *SelectSlotRequest) (*Response, error) {
	current, err := uc.sessions.Get(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if current.Step != session.StepTime {
		return nil, fmt.Errorf("%w: select slot from step %q", ErrInvalidStep, current.Step)
	}

	slots, err := uc.slotsForDate(ctx, current.ServiceID, current.SelectedDate)
	if err != nil {
		return nil, err
	}

	startAt := req.StartAt.UTC()
	var chosen *Slot
	for i := range slots {
		if slots[i].StartAt.Equal(startAt) {
			chosen = &slots[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrSlotNotOffered
	}

	s, err := uc.sessions.Update(req.SessionID, func(s *session.Session) error {
		return s.SelectSlot(domain.Slot{
			ServiceID:       s.ServiceID,
			StartAt:         chosen.StartAt,
			DurationMinutes: chosen.DurationMinutes,
		})
	})
	if err != nil {
		return nil, uc.mapSessionError(err)
	}

	return &Response{Session: sessionState(s)}, nil
}

// Submit резервирует выбранный слот с контактными данными.
// При конфликте сессия откатывается на шаг time с признаком
// SlotNoLongerAvailable, состояние возвращается вместе с ошибкой
func (uc *UseCase) Submit(ctx context.Context, req *SubmitRequest) (*Response, error) {
	current, err := uc.sessions.Get(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if current.Step != session.StepForm || current.SelectedSlot == nil {
		return nil, fmt.Errorf("%w: submit from step %q", ErrInvalidStep, current.Step)
	}

	// Сохраняем контакт до резервирования: при любом исходе
	// пользователю не придется заполнять форму заново
	if _, err := uc.sessions.Update(req.SessionID, func(s *session.Session) error {
		s.Contact = req.Contact
		return nil
	}); err != nil {
		return nil, uc.mapSessionError(err)
	}

	resp, err := uc.reserver.Execute(ctx, &reserve_slot.Request{
		ServiceID: current.ServiceID,
		StartAt:   current.SelectedSlot.StartAt,
		Contact:   req.Contact,
		Source:    domain.SourceWidget,
	})

	switch {
	case err == nil:
		s, uerr := uc.sessions.Update(req.SessionID, func(s *session.Session) error {
			return s.Confirm(resp.AppointmentID)
		})
		if uerr != nil {
			// Резерв уже зафиксирован - отдаем подтверждение даже при потере сессии
			uc.logger.Warn("BookingFlow: session id=%s lost after reservation: %v", req.SessionID, uerr)
			return &Response{Session: SessionState{
				SessionID:     req.SessionID,
				Step:          session.StepConfirmation,
				ServiceID:     current.ServiceID,
				AppointmentID: &resp.AppointmentID,
			}}, nil
		}
		uc.logger.Info("BookingFlow: session id=%s confirmed appointment id=%s", s.ID, resp.AppointmentID)
		return &Response{Session: sessionState(s)}, nil

	case errors.Is(err, reserve_slot.ErrSlotConflict):
		uc.logger.Warn("BookingFlow: slot conflict in session id=%s, returning to slot selection", req.SessionID)
		s, uerr := uc.sessions.Update(req.SessionID, func(s *session.Session) error {
			return s.ReturnToSlotSelection()
		})
		if uerr != nil {
			return nil, uc.mapSessionError(uerr)
		}
		result := &Response{Session: sessionState(s)}
		if slots, serr := uc.slotsForDate(ctx, s.ServiceID, s.SelectedDate); serr == nil {
			result.Slots = slots
		}
		return result, ErrSlotNoLongerAvailable

	case errors.Is(err, reserve_slot.ErrStoreUnavailable):
		// Сессия остается на шаге form, запрос можно повторить
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)

	default:
		// Ошибки валидации и прочее пробрасываем как есть, шаг не меняется
		return nil, err
	}
}

// Back возвращает сессию на предыдущий шаг
func (uc *UseCase) Back(ctx context.Context, sessionID uuid.UUID) (*Response, error) {
	s, err := uc.sessions.Update(sessionID, func(s *session.Session) error {
		return s.Back()
	})
	if err != nil {
		return nil, uc.mapSessionError(err)
	}

	resp := &Response{Session: sessionState(s)}
	if s.Step == session.StepTime && s.SelectedDate != "" {
		if slots, serr := uc.slotsForDate(ctx, s.ServiceID, s.SelectedDate); serr == nil {
			resp.Slots = slots
		}
	}
	return resp, nil
}

// slotsForDate считает доступные слоты услуги на одну дату календаря
func (uc *UseCase) slotsForDate(ctx context.Context, serviceID int64, date string) ([]Slot, error) {
	cal, err := uc.calendarRepo.GetConfig(ctx)
	if err != nil {
		uc.logger.Error("BookingFlow: failed to get calendar config: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar config: %v", ErrStoreUnavailable, err)
	}
	loc, err := cal.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	day, err := time.ParseInLocation(domain.DateFormat, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	resp, err := uc.availability.Execute(ctx, &get_availability.Request{
		ServiceID:  serviceID,
		RangeStart: day,
		RangeEnd:   day.AddDate(0, 0, 1).Add(-time.Nanosecond),
	})
	if err != nil {
		switch {
		case errors.Is(err, get_availability.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		case errors.Is(err, get_availability.ErrServiceNotBookable):
			return nil, ErrServiceNotBookable
		default:
			uc.logger.Error("BookingFlow: availability failed for service=%d date=%s: %v", serviceID, date, err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	slots := make([]Slot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, Slot{StartAt: s.StartAt, DurationMinutes: s.DurationMinutes})
	}
	return slots, nil
}

func (uc *UseCase) mapSessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, session.ErrInvalidSessionState):
		return fmt.Errorf("%w: %v", ErrInvalidStep, err)
	default:
		return err
	}
}
