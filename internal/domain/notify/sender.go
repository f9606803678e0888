package notify

import "context"

// Sender delivers a single message to a recipient address (email address or
// phone number, depending on the implementation). A nil return is taken as
// "delivered"; a failed send is retried on the dispatch worker's next
// periodic pass, not within the same run.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
