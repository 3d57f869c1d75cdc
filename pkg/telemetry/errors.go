package telemetry

import (
	"errors"
	"fmt"

	"liyu1981.xyz/sensor-telemetry-service/pkg/models"
)

var (
	ErrPayloadInvalid   = errors.New("payload invalid")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidField     = models.ErrInvalidField
	ErrInvalidDate      = errors.New("invalid date")
	ErrRateLimited      = errors.New("rate limited")
	ErrOffsetMismatch   = errors.New("stored readings use a different UTC offset")
)

func storeUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func payloadInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPayloadInvalid, fmt.Sprintf(format, args...))
}
