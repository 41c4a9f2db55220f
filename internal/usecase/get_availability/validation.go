package get_availability

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.RangeStart.IsZero() {
		return fmt.Errorf("%w: rangeStart is required", ErrInvalidInput)
	}

	if req.RangeEnd.IsZero() {
		return fmt.Errorf("%w: rangeEnd is required", ErrInvalidInput)
	}

	if req.RangeEnd.Before(req.RangeStart) {
		return fmt.Errorf("%w: rangeEnd must not be before rangeStart", ErrInvalidInput)
	}

	if req.RangeEnd.Sub(req.RangeStart) > time.Duration(maxRangeDays)*24*time.Hour {
		return fmt.Errorf("%w: range must not exceed %d days", ErrRangeTooWide, maxRangeDays)
	}

	return nil
}
