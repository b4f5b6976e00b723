package chadawa

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/staging"
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

func newTestService(t *testing.T, baseURL string) Service {
	t.Helper()
	api := upstream.NewClient(baseURL, 5*time.Second, zerolog.Nop())
	return NewService(api, upstream.NewImageResolver(baseURL), auditStub{})
}

func stageOne(t *testing.T, area *staging.Area, name string) *staging.Batch {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	batch, err := area.Stage(form.File["image"])
	require.NoError(t, err)
	return batch
}

func TestCreateUploadsThenCreatesThenRefreshes(t *testing.T) {
	var created atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/uploads/chadawa", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"path": "uploads/chadawas/deepam.jpg"})
	})
	mux.HandleFunc("POST /api/v1/chadawas", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		record := map[string]interface{}{
			"id":            float64(7),
			"name":          payload["name"],
			"description":   payload["description"],
			"price":         payload["price"],
			"image_url":     payload["image_url"],
			"requires_note": payload["requires_note"],
			"created_at":    "2024-06-01",
		}
		created.Store(record)
		json.NewEncoder(w).Encode(record)
	})
	mux.HandleFunc("GET /api/v1/chadawas", func(w http.ResponseWriter, r *http.Request) {
		list := []interface{}{}
		if rec := created.Load(); rec != nil {
			list = append(list, rec)
		}
		json.NewEncoder(w).Encode(list)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newTestService(t, server.URL)
	area, err := staging.NewArea(t.TempDir())
	require.NoError(t, err)
	batch := stageOne(t, area, "deepam.jpg")
	defer batch.Close()

	got, err := svc.Create(context.Background(), Input{
		Name:        "Ganga Aarti Deepam",
		Description: "Lit on your behalf at the evening aarti",
		Price:       decimal.NewFromInt(101),
	}, batch, nil, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "₹101", got.FormattedPrice)
	assert.Equal(t, server.URL+"/uploads/chadawas/deepam.jpg", got.ImageURL)

	// the create triggered a wholesale refresh; the list now serves the
	// new record without a further fetch
	items, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ganga Aarti Deepam", items[0].Name)
	assert.Equal(t, "₹101", items[0].FormattedPrice)
}

func TestCreateRejectsEmptyNameWithoutNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	area, err := staging.NewArea(t.TempDir())
	require.NoError(t, err)
	batch := stageOne(t, area, "deepam.jpg")
	defer batch.Close()

	_, err = svc.Create(context.Background(), Input{
		Name:        "   ",
		Description: "valid description",
		Price:       decimal.NewFromInt(101),
	}, batch, nil, "10.0.0.1")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCreateRequiresImage(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	_, err := svc.Create(context.Background(), Input{
		Name:        "Deepam",
		Description: "desc",
		Price:       decimal.NewFromInt(51),
	}, nil, nil, "10.0.0.1")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCreateAbortsWhenUploadFails(t *testing.T) {
	var createCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/uploads/chadawa", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("POST /api/v1/chadawas", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&createCalls, 1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newTestService(t, server.URL)
	area, err := staging.NewArea(t.TempDir())
	require.NoError(t, err)
	batch := stageOne(t, area, "deepam.jpg")
	defer batch.Close()

	_, err = svc.Create(context.Background(), Input{
		Name:        "Deepam",
		Description: "desc",
		Price:       decimal.NewFromInt(51),
	}, batch, nil, "10.0.0.1")

	require.Error(t, err)
	assert.Equal(t, apperr.KindUpload, apperr.KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&createCalls))
}

func TestListSearchFiltersNameAndDescription(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/chadawas", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]interface{}{
			map[string]interface{}{"id": float64(1), "name": "Flower Garland", "description": "fresh marigold"},
			map[string]interface{}{"id": float64(2), "name": "Deepam", "description": "ghee lamp"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newTestService(t, server.URL)

	all, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := svc.List(context.Background(), ListFilter{Search: "garland"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, uint(1), byName[0].ID)

	byDescription, err := svc.List(context.Background(), ListFilter{Search: "GHEE"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, uint(2), byDescription[0].ID)
}
