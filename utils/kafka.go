package utils

import (
	"context"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/33kotidham/admin-gateway/config"
)

var auditWriter *kafka.Writer

// InitializeKafka sets up the producer for audit events.
func InitializeKafka(cfg *config.Config) {
	auditWriter = &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		Topic:    cfg.KafkaAuditTopic,
		Balancer: &kafka.LeastBytes{},
	}
}

// PublishAuditEvent writes one audit event keyed by action name.
func PublishAuditEvent(ctx context.Context, key string, payload []byte) error {
	if auditWriter == nil {
		return nil // kafka disabled, audit persistence falls back to direct writes
	}
	return auditWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// KafkaEnabled reports whether the producer was initialized.
func KafkaEnabled() bool { return auditWriter != nil }

// NewAuditReader builds the consumer the audit log persister runs on.
func NewAuditReader(cfg *config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(cfg.KafkaBrokers, ","),
		GroupID: "admin-gateway-auditlog",
		Topic:   cfg.KafkaAuditTopic,
	})
}
