package crmcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для публикации событий в ядро CRM
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ядра CRM
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// PublishAppointmentConfirmed публикует событие подтверждения бронирования
func (c *Client) PublishAppointmentConfirmed(ctx context.Context, event AppointmentConfirmedEvent) error {
	return c.post(ctx, "/internal/events/appointment-confirmed", event)
}

// PublishAppointmentCancelled публикует событие отмены бронирования
func (c *Client) PublishAppointmentCancelled(ctx context.Context, event AppointmentCancelledEvent) error {
	return c.post(ctx, "/internal/events/appointment-cancelled", event)
}

// PublishAppointmentConfirmedWithGracefulDegradation публикует событие с graceful degradation.
// Бронирование уже зафиксировано в БД, поэтому недоступность ядра CRM не является
// ошибкой операции: возвращается ErrServiceDegraded, событие остаётся только в логах.
func (c *Client) PublishAppointmentConfirmedWithGracefulDegradation(ctx context.Context, event AppointmentConfirmedEvent) error {
	c.log.Info("Publishing AppointmentConfirmed: appointment=%s, service=%d, start=%s",
		event.AppointmentID, event.ServiceID, event.StartAt.Format(time.RFC3339))

	if err := c.PublishAppointmentConfirmed(ctx, event); err != nil {
		c.log.Error("CRM core unavailable, applying graceful degradation for appointment=%s: %v",
			event.AppointmentID, err)
		return fmt.Errorf("%w: appointment=%s, error=%v", ErrServiceDegraded, event.AppointmentID, err)
	}

	c.log.Info("Successfully published AppointmentConfirmed: appointment=%s", event.AppointmentID)
	return nil
}

// PublishAppointmentCancelledWithGracefulDegradation публикует событие отмены с graceful degradation.
// Отмена уже зафиксирована в БД, недоступность ядра CRM не откатывает её.
func (c *Client) PublishAppointmentCancelledWithGracefulDegradation(ctx context.Context, event AppointmentCancelledEvent) error {
	c.log.Info("Publishing AppointmentCancelled: appointment=%s, service=%d", event.AppointmentID, event.ServiceID)

	if err := c.PublishAppointmentCancelled(ctx, event); err != nil {
		c.log.Error("CRM core unavailable, applying graceful degradation for appointment=%s: %v",
			event.AppointmentID, err)
		return fmt.Errorf("%w: appointment=%s, error=%v", ErrServiceDegraded, event.AppointmentID, err)
	}

	c.log.Info("Successfully published AppointmentCancelled: appointment=%s", event.AppointmentID)
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
