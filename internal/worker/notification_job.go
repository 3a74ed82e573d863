package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/services"
)

// NewNotificationRulesJob lists the active cultivations and queues one rule
// evaluation per cultivation. All evaluations of a run share the same clock
// reading so cooldown windows line up.
func NewNotificationRulesJob(rules services.INotificationRulesService, pool *WorkingPool, now func() time.Time) Job {
	return func(ctx context.Context) error {
		cultivations, err := rules.ActiveCultivations(ctx)
		if err != nil {
			return fmt.Errorf("list active cultivations: %w", err)
		}

		at := now()
		dropped := 0
		for i := range cultivations {
			c := cultivations[i]
			if err := pool.TrySubmit(evaluateCultivationJob(rules, &c, at)); err != nil {
				dropped++
			}
		}

		log.Printf("[NotificationRules] Queued %d of %d active cultivations.\n", len(cultivations)-dropped, len(cultivations))
		if dropped > 0 {
			return fmt.Errorf("%d cultivations not evaluated: %w", dropped, ErrQueueFull)
		}
		return nil
	}
}

func evaluateCultivationJob(rules services.INotificationRulesService, c *models.Cultivation, at time.Time) Job {
	return func(ctx context.Context) error {
		sent, err := rules.EvaluateCultivation(ctx, c, at)
		if err != nil {
			return fmt.Errorf("evaluate cultivation %s: %w", c.ID, err)
		}
		if sent > 0 {
			log.Printf("[NotificationRules] Cultivation %s: %d notifications created.\n", c.ID, sent)
		}
		return nil
	}
}
