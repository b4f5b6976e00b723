package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/store"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

const basePath = "/api/v1/bookings"

type ListFilter struct {
	Search   string
	Status   string
	FromDate string // YYYY-MM-DD, compared against booking_date
	ToDate   string
}

// StatusCounts feeds the dashboard summary cards.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Booking, error)
	Get(ctx context.Context, id uint) (*Booking, error)
	UpdateStatus(ctx context.Context, id uint, status string, userID *uint, ip string) (*Booking, error)
	Counts(ctx context.Context) (StatusCounts, error)
	Cache() *store.Collection[Booking]
}

type service struct {
	api      *upstream.Client
	images   *upstream.ImageResolver
	cache    *store.Collection[Booking]
	auditSvc auditlog.Service
}

func NewService(api *upstream.Client, images *upstream.ImageResolver, auditSvc auditlog.Service) Service {
	s := &service{api: api, images: images, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *service) Cache() *store.Collection[Booking] { return s.cache }

func (s *service) fetchAll(ctx context.Context) ([]Booking, error) {
	raws, err := s.api.List(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, func(m map[string]interface{}) Booking {
		return Normalize(m, s.images)
	}, Placeholder())
	return normalize.Keep(items, func(b Booking) bool { return b.ID > 0 }), nil
}

// List serves the cache with status, date-range and substring filters.
// Search matches customer name, phone numbers, gotra and puja name.
func (s *service) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.cache.Snapshot()

	if filter.Status != "" {
		items = normalize.Keep(items, func(b Booking) bool { return b.Status == filter.Status })
	}
	if filter.FromDate != "" {
		items = normalize.Keep(items, func(b Booking) bool {
			return b.BookingDate != normalize.DateSentinel && b.BookingDate[:10] >= filter.FromDate
		})
	}
	if filter.ToDate != "" {
		items = normalize.Keep(items, func(b Booking) bool {
			return b.BookingDate != normalize.DateSentinel && b.BookingDate[:10] <= filter.ToDate
		})
	}
	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		items = normalize.Keep(items, func(b Booking) bool {
			return strings.Contains(strings.ToLower(b.User.Name), term) ||
				strings.Contains(b.MobileNumber, term) ||
				strings.Contains(b.WhatsappNumber, term) ||
				strings.Contains(strings.ToLower(b.Gotra), term) ||
				strings.Contains(strings.ToLower(b.Puja.Name), term)
		})
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Booking, error) {
	raw, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id))
	if err != nil {
		return nil, err
	}
	b := Normalize(raw, s.images)
	return &b, nil
}

// UpdateStatus is the only booking mutation the dashboard performs.
func (s *service) UpdateStatus(ctx context.Context, id uint, status string, userID *uint, ip string) (*Booking, error) {
	if !ValidStatus(status) {
		return nil, apperr.Validation("status must be pending, confirmed or cancelled")
	}

	raw, err := s.api.Put(ctx, fmt.Sprintf("%s/%d/status", basePath, id), map[string]interface{}{
		"status": status,
	})
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "booking", id, "BOOKING_STATUS_UPDATE_FAILED", map[string]interface{}{
			"status": status, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	updated := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "booking", id, "BOOKING_STATUS_UPDATED", map[string]interface{}{
		"status": status,
	}, ip, "success")
	return &updated, nil
}

// Counts tallies the cached collection per status.
func (s *service) Counts(ctx context.Context) (StatusCounts, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, b := range s.cache.Snapshot() {
		counts.Total++
		switch b.Status {
		case StatusPending:
			counts.Pending++
		case StatusConfirmed:
			counts.Confirmed++
		case StatusCancelled:
			counts.Cancelled++
		}
	}
	return counts, nil
}
