package booking_flow

import "errors"

var (
	// ErrSessionNotFound сессия не найдена или истекла
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrInvalidStep операция недопустима для текущего шага сессии
	ErrInvalidStep = errors.New("operation is not valid for current step")

	// ErrServiceNotFound услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceNotBookable услуга неактивна и недоступна для записи
	ErrServiceNotBookable = errors.New("service is not bookable")

	// ErrInvalidDate дата не распознана или вне допустимого диапазона
	ErrInvalidDate = errors.New("invalid date")

	// ErrSlotNotOffered выбранный слот отсутствует среди предложенных на дату
	ErrSlotNotOffered = errors.New("slot is not among offered slots")

	// ErrSlotNoLongerAvailable слот заняли между выбором и подтверждением
	ErrSlotNoLongerAvailable = errors.New("slot is no longer available")

	// ErrStoreUnavailable хранилище недоступно, запрос можно повторить
	ErrStoreUnavailable = errors.New("store is unavailable")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
