package notifier

import (
	"context"

	"gearhunter/internal/gear"
)

// Notifier delivers the flagged deals of one run to an alert channel.
// The core hands over structured results; rendering is the notifier's job.
type Notifier interface {
	// Notify delivers the flagged deals, already in report order
	Notify(ctx context.Context, deals []gear.DealResult) error

	// Close closes the notifier connection
	Close() error
}
