package adapter

import (
	"context"
	"time"
)

// DeviceActions are effects performed on the applicant's device.
type DeviceActions interface {
	Copy(ctx context.Context, text string) error
	Dial(ctx context.Context, uri string, after time.Duration) error
	Open(ctx context.Context, uri string) error
}
