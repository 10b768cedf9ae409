package port

import "context"

// EmailSender defines the contract for sending document notices.
type EmailSender interface {
	SendRejectionNotice(ctx context.Context, toEmail, toName, documentName, reason string) error
	SendExpiryNotice(ctx context.Context, toEmail, toName, documentName string, daysLeft int) error
}
