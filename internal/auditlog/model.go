package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one admin mutation against the platform, success or
// failure.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint             `gorm:"index" json:"user_id"` // nullable (e.g. failed login)
	Entity     string            `gorm:"size:50;index" json:"entity"`
	EntityID   uint              `gorm:"index" json:"entity_id"`
	Action     string            `gorm:"size:100;not null;index" json:"action"`
	Details    datatypes.JSONMap `json:"details"`
	IPAddress  string            `gorm:"size:45" json:"ip_address"`
	Status     string            `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt  time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Event is the wire form published to Kafka by mutation paths and drained
// into audit_logs by the consumer.
type Event struct {
	UserID    *uint                  `json:"user_id"`
	Entity    string                 `json:"entity"`
	EntityID  uint                   `json:"entity_id"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	IPAddress string                 `json:"ip_address"`
	Status    string                 `json:"status"`
	At        time.Time              `json:"at"`
}

// Filter narrows audit log queries.
type Filter struct {
	UserID   *uint
	Entity   string
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

type Paginated struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// StatusCounts feeds the dashboard's audit activity card.
type StatusCounts struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failure int64 `json:"failure"`
}
