package noop

import (
	"context"
	"log"

	"brokerdocs/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notices to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendRejectionNotice(_ context.Context, toEmail, toName, documentName, reason string) error {
	log.Printf("[NOOP EMAIL] Rejection notice for %s (%s): document %q rejected: %s", toName, toEmail, documentName, reason)
	return nil
}

func (s *noopSender) SendExpiryNotice(_ context.Context, toEmail, toName, documentName string, daysLeft int) error {
	log.Printf("[NOOP EMAIL] Expiry notice for %s (%s): document %q expires in %d days", toName, toEmail, documentName, daysLeft)
	return nil
}
