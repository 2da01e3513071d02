// Package notify delivers human-readable status messages to operators.
// Delivery is best-effort: a failing channel is logged and skipped, and never
// blocks or rolls back a decision that already committed to the ledger.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/logger"
)

// Sender is the interface each notification channel must implement.
type Sender interface {
	// Send delivers a plain-text message.
	Send(ctx context.Context, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches messages to all registered senders.
type Notifier struct {
	senders []Sender
}

// NewNotifier creates a Notifier delivering to the given senders. A Notifier
// with no senders is valid and drops every message.
func NewNotifier(senders ...Sender) *Notifier {
	return &Notifier{senders: senders}
}

// Notify sends the message to every sender. Individual failures are collected
// into a combined error so callers can log them; one failing sender does not
// prevent delivery to the rest.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	if len(n.senders) == 0 {
		return nil
	}
	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, message); err != nil {
			logger.Warn(ctx, "Notification send failed", "sender", s.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
