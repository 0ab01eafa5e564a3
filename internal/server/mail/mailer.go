// Package mail defines the outbound notification capability. Delivery is
// best-effort: the orchestrator sends asynchronously and a failure never
// rolls back the state change that triggered the message.
package mail

import "context"

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
