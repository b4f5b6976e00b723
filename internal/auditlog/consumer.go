package auditlog

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/33kotidham/admin-gateway/config"
	"github.com/33kotidham/admin-gateway/utils"
)

// StartKafkaConsumer drains audit events into audit_logs until ctx is
// cancelled. Call in a goroutine from main.
func StartKafkaConsumer(ctx context.Context, cfg *config.Config, svc Service) {
	reader := utils.NewAuditReader(cfg)
	defer reader.Close()

	log.Info().Str("topic", cfg.KafkaAuditTopic).Msg("audit consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("audit consumer read failed")
			continue
		}

		var ev Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Error().Err(err).Str("key", string(msg.Key)).Msg("audit event unmarshal failed")
			continue
		}

		if err := svc.Persist(ctx, ev); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit event persist failed")
		}
	}
}
