// Package email provides the SEND_EMAIL action handler. Delivery itself is
// the host's concern, adapted through the protocol.Mailer collaborator.
package email

import (
	"context"
	"log/slog"

	"github.com/wareflow/wareflow/pkg/protocol"
)

type Action struct {
	mailer   protocol.Mailer
	to       string
	subject  string
	template string
}

func (a *Action) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger.InfoContext(ctx, "Sending notification email", "to", a.to, "subject", a.subject)

	if err := a.mailer.Send(ctx, a.to, a.subject, a.template); err != nil {
		return nil, err
	}

	return map[string]any{"to": a.to, "subject": a.subject}, nil
}
