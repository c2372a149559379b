package domain

import "context"

// EmailSender delivers a single email. Delivery is best-effort from the
// caller's perspective: the core never retries and never rolls back state
// when a send fails.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
