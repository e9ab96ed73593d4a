// Package notifier delivers reminders as Discord direct messages and
// classifies the result for the reminder scanner.
package notifier

import (
	"context"

	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/engine"
	"github.com/julianstephens/objectives/internal/logger"
)

// DirectMessenger sends a direct message to a user.
type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// Notifier is an engine.Dispatcher backed by Discord direct messages.
type Notifier struct {
	dm DirectMessenger
}

var _ engine.Dispatcher = (*Notifier)(nil)

func New(dm DirectMessenger) *Notifier {
	return &Notifier{dm: dm}
}

// Send delivers message to the owner and classifies any failure.
func (n *Notifier) Send(ctx context.Context, ownerID, message string) engine.Outcome {
	err := n.dm.SendDirectMessage(ctx, ownerID, message)
	outcome := Classify(err)
	switch outcome {
	case engine.Delivered:
		logger.Debug("Reminder delivered", "owner", ownerID)
	case engine.PermanentlyUndeliverable:
		logger.Info("Owner cannot receive reminders", "owner", ownerID, "error", err)
	default:
		if retry, limited := discord.IsRateLimited(err); limited {
			logger.Warn("Reminder rate limited", "owner", ownerID, "retry_after", retry)
			break
		}
		logger.Warn("Reminder delivery failed", "owner", ownerID, "error", err)
	}
	return outcome
}

// Classify maps a delivery error to an outcome. Only the two Discord codes
// that will never succeed are permanent: DMs closed or blocked (50007) and
// an unknown account (10013). Everything else, a bare 404 included, is
// transient.
func Classify(err error) engine.Outcome {
	switch {
	case err == nil:
		return engine.Delivered
	case discord.HasCode(err, discord.CodeCannotSendMessagesToUser),
		discord.HasCode(err, discord.CodeUnknownUser):
		return engine.PermanentlyUndeliverable
	default:
		return engine.TransientFailure
	}
}
