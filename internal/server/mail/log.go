package mail

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// LogMailer records that a message would have been sent instead of
// delivering it. It is the fallback backend when no mail API key is
// configured. Bodies are never logged: OTP codes must not end up in logs.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mail")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info(ctx, "mail delivery skipped (no api key configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}
