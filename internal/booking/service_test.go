package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

type auditStub struct{}

func (auditStub) LogAction(ctx context.Context, userID *uint, entity string, entityID uint, action string, details map[string]interface{}, ip string, status string) {
}
func (auditStub) GetAuditLogs(ctx context.Context, filter auditlog.Filter) (*auditlog.Paginated, error) {
	return &auditlog.Paginated{}, nil
}
func (auditStub) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLog, error) {
	return nil, nil
}
func (auditStub) GetStatusCounts(ctx context.Context) (auditlog.StatusCounts, error) {
	return auditlog.StatusCounts{}, nil
}
func (auditStub) Persist(ctx context.Context, ev auditlog.Event) error { return nil }

func seedBookings() []interface{} {
	return []interface{}{
		map[string]interface{}{
			"id": float64(1), "status": "pending", "booking_date": "2024-06-10",
			"mobile_number": "9876543210", "gotra": "Kashyap",
			"user": map[string]interface{}{"id": float64(11), "name": "Ramesh Kumar"},
			"puja": map[string]interface{}{"id": float64(3), "name": "Satyanarayan Katha"},
		},
		map[string]interface{}{
			"id": float64(2), "status": "confirmed", "booking_date": "2024-06-15",
			"mobile_number": "9123456780", "gotra": "Bharadwaj",
			"user": map[string]interface{}{"id": float64(12), "name": "Sita Devi"},
			"puja": map[string]interface{}{"id": float64(4), "name": "Rudrabhishek"},
		},
		map[string]interface{}{
			"id": float64(3), "status": "cancelled", "booking_date": "2024-07-01",
			"mobile_number": "9000000000", "gotra": "Kashyap",
			"user": map[string]interface{}{"id": float64(13), "name": "Mohan Lal"},
			"puja": map[string]interface{}{"id": float64(3), "name": "Satyanarayan Katha"},
		},
		// malformed date record; must never crash date filtering
		map[string]interface{}{
			"id": float64(4), "status": "pending", "booking_date": "soon",
			"user": map[string]interface{}{"id": float64(14), "name": "Gopal"},
		},
	}
}

func newListService(t *testing.T) Service {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(seedBookings())
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api := upstream.NewClient(server.URL, 5*time.Second, zerolog.Nop())
	return NewService(api, upstream.NewImageResolver(server.URL), auditStub{})
}

func TestListFilters(t *testing.T) {
	svc := newListService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []uint
	}{
		{"no filter returns all", ListFilter{}, []uint{1, 2, 3, 4}},
		{"empty search returns all", ListFilter{Search: ""}, []uint{1, 2, 3, 4}},
		{"by status", ListFilter{Status: "pending"}, []uint{1, 4}},
		{"by user name", ListFilter{Search: "ramesh"}, []uint{1}},
		{"by phone fragment", ListFilter{Search: "912345"}, []uint{2}},
		{"by gotra", ListFilter{Search: "kashyap"}, []uint{1, 3}},
		{"by puja name", ListFilter{Search: "rudrabhishek"}, []uint{2}},
		{"no match", ListFilter{Search: "zzz"}, []uint{}},
		{"from date drops earlier and unparseable", ListFilter{FromDate: "2024-06-12"}, []uint{2, 3}},
		{"to date", ListFilter{ToDate: "2024-06-30"}, []uint{1, 2}},
		{"date range with status", ListFilter{FromDate: "2024-06-01", ToDate: "2024-06-30", Status: "confirmed"}, []uint{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]uint, 0, len(items))
			for _, b := range items {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCounts(t *testing.T) {
	svc := newListService(t)

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCounts{Total: 4, Pending: 2, Confirmed: 1, Cancelled: 1}, counts)
}

func TestUpdateStatusRejectsUnknownStatusWithoutNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	api := upstream.NewClient(server.URL, 5*time.Second, zerolog.Nop())
	svc := NewService(api, upstream.NewImageResolver(server.URL), auditStub{})

	_, err := svc.UpdateStatus(context.Background(), 1, "shipped", nil, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestUpdateStatusPutsAndRefreshes(t *testing.T) {
	status := "pending"
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]interface{}{
			map[string]interface{}{"id": float64(1), "status": status, "booking_date": "2024-06-10"},
		})
	})
	mux.HandleFunc("PUT /api/v1/bookings/1/status", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		status = payload["status"]
		json.NewEncoder(w).Encode(map[string]interface{}{"id": float64(1), "status": status})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	api := upstream.NewClient(server.URL, 5*time.Second, zerolog.Nop())
	svc := NewService(api, upstream.NewImageResolver(server.URL), auditStub{})

	updated, err := svc.UpdateStatus(context.Background(), 1, StatusConfirmed, nil, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	items, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusConfirmed, items[0].Status)
}

func TestNormalizeDefaultsInvalidStatusToPending(t *testing.T) {
	b := Normalize(map[string]interface{}{"id": float64(9), "status": "SHIPPED"}, nil)
	assert.Equal(t, StatusPending, b.Status)
}
