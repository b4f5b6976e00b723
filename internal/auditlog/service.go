package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/33kotidham/admin-gateway/utils"
)

type Service interface {
	LogAction(ctx context.Context, userID *uint, entity string, entityID uint, action string, details map[string]interface{}, ip string, status string)
	GetAuditLogs(ctx context.Context, filter Filter) (*Paginated, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error)
	GetStatusCounts(ctx context.Context) (StatusCounts, error)
	Persist(ctx context.Context, ev Event) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction records one mutation attempt. Events go through Kafka when the
// producer is up so a slow audit store never delays the mutation path;
// without Kafka they are written directly. Audit failures are logged and
// swallowed: auditing never fails the operation it describes.
func (s *service) LogAction(ctx context.Context, userID *uint, entity string, entityID uint, action string, details map[string]interface{}, ip string, status string) {
	if details == nil {
		details = map[string]interface{}{}
	}

	ev := Event{
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		Status:    status,
		At:        time.Now(),
	}

	if utils.KafkaEnabled() {
		payload, err := json.Marshal(ev)
		if err == nil {
			if err := utils.PublishAuditEvent(ctx, action, payload); err == nil {
				return
			}
			log.Warn().Str("action", action).Msg("audit publish failed, writing directly")
		}
	}

	if err := s.Persist(ctx, ev); err != nil {
		log.Error().Err(err).Str("action", action).Msg("audit write failed")
	}
}

// Persist writes one event into audit_logs. Also the consumer's sink.
func (s *service) Persist(ctx context.Context, ev Event) error {
	return s.repo.Create(ctx, &AuditLog{
		UserID:    ev.UserID,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Action:    ev.Action,
		Details:   ev.Details,
		IPAddress: ev.IPAddress,
		Status:    ev.Status,
		CreatedAt: ev.At,
	})
}

func (s *service) GetAuditLogs(ctx context.Context, filter Filter) (*Paginated, error) {
	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return &Paginated{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("audit log not found: %w", err)
	}
	return log, nil
}

func (s *service) GetStatusCounts(ctx context.Context) (StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}
