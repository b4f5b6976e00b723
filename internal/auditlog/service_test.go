package auditlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	logs []AuditLog
}

func (r *memRepo) Create(ctx context.Context, log *AuditLog) error {
	log.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memRepo) GetByFilter(ctx context.Context, filter Filter) ([]AuditLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

func (r *memRepo) GetByID(ctx context.Context, id uint) (*AuditLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id {
			return &r.logs[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memRepo) CountByStatus(ctx context.Context) (StatusCounts, error) {
	counts := StatusCounts{Total: int64(len(r.logs))}
	for _, l := range r.logs {
		switch l.Status {
		case "success":
			counts.Success++
		case "failure":
			counts.Failure++
		}
	}
	return counts, nil
}

func TestLogActionWritesDirectlyWithoutKafka(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	userID := uint(4)
	svc.LogAction(context.Background(), &userID, "chadawa", 7, "CHADAWA_CREATED",
		map[string]interface{}{"name": "Deepam"}, "10.0.0.1", "success")
	svc.LogAction(context.Background(), nil, "puja", 0, "PUJA_CREATE_FAILED",
		nil, "10.0.0.2", "failure")

	require.Len(t, repo.logs, 2)
	assert.Equal(t, "CHADAWA_CREATED", repo.logs[0].Action)
	assert.Equal(t, &userID, repo.logs[0].UserID)
	assert.Equal(t, "Deepam", repo.logs[0].Details["name"])

	// nil details are stored as an empty object, nil user stays nil
	assert.Nil(t, repo.logs[1].UserID)
	assert.NotNil(t, repo.logs[1].Details)

	counts, err := svc.GetStatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCounts{Total: 2, Success: 1, Failure: 1}, counts)
}

func TestGetAuditLogsPagination(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	for i := 0; i < 5; i++ {
		svc.LogAction(context.Background(), nil, "plan", uint(i+1), "PLAN_DELETED", nil, "10.0.0.1", "success")
	}

	page, err := svc.GetAuditLogs(context.Background(), Filter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
}

func TestGetAuditLogByID(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	svc.LogAction(context.Background(), nil, "temple", 2, "TEMPLE_UPDATED", nil, "10.0.0.1", "success")

	got, err := svc.GetAuditLogByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "TEMPLE_UPDATED", got.Action)

	_, err = svc.GetAuditLogByID(context.Background(), 99)
	assert.Error(t, err)
}
