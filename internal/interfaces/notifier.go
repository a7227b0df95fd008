package interfaces

import (
	"context"
	"errors"
)

// ErrNoChannel is returned by a Notifier that has nowhere to deliver to.
// Callers treat it as "not delivered" rather than as a failure.
var ErrNoChannel = errors.New("no notification channel configured")

// Notifier delivers a message to a chat channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
