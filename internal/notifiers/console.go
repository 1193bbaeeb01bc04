package notifiers

import (
	"context"

	"github.com/sbilibin2017/gw-user-activation/internal/logger"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

// ConsoleNotifier writes activation codes to the log. For development only.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (ConsoleNotifier) SendActivationCode(ctx context.Context, n models.ActivationNotification) error {
	logger.Log.Infow("activation code issued",
		"email", n.Email,
		"code", n.Code,
		"expires_at", n.ExpiresAt,
	)
	return nil
}
