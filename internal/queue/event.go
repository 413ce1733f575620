package queue

import "time"

// EmailQueueName is the durable queue carrying outbound account email
// jobs when async delivery is enabled.
const EmailQueueName = "email.outbound"

// Email job kinds.
const (
	EmailKindVerification  = "verification"
	EmailKindPasswordReset = "password_reset"
)

// EmailJob is the payload published for each account email. The link
// already contains the signed token; the consumer only renders and
// delivers.
type EmailJob struct {
	Kind        string    `json:"kind"`
	To          string    `json:"to"`
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	RequestedAt time.Time `json:"requested_at"`
}
