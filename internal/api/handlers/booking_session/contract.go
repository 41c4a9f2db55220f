package booking_session

import (
	"context"

	"github.com/google/uuid"

	bookingFlow "github.com/m04kA/CRM-SchedulingService/internal/usecase/booking_flow"
)

type BookingFlowUseCase interface {
	Start(ctx context.Context, req *bookingFlow.StartRequest) (*bookingFlow.Response, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*bookingFlow.Response, error)
	SelectDate(ctx context.Context, req *bookingFlow.SelectDateRequest) (*bookingFlow.Response, error)
	SelectSlot(ctx context.Context, req *bookingFlow.SelectSlotRequest) (*bookingFlow.Response, error)
	Submit(ctx context.Context, req *bookingFlow.SubmitRequest) (*bookingFlow.Response, error)
	Back(ctx context.Context, sessionID uuid.UUID) (*bookingFlow.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
