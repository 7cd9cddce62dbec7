package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/request-tour/internal/lib/email"
	"github.com/hibiken/asynq"
)

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A payload that never decodes will not decode on retry either.
		return fmt.Errorf("failed to unmarshal welcome email payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().Str("type", "welcome").Str("to", p.To).Logger()
	log.Info().Msg("processing welcome email task")

	err := j.mailer.SendWelcomeEmail(ctx, p.To, email.WelcomeData{
		Username: p.Username,
		Email:    p.To,
		FullName: p.FullName,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("sent welcome email")
	return nil
}
