package booking

import (
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

// Valid booking statuses. The platform drives the dashboard's badge color
// from these.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// UserSnapshot is the embedded customer view the platform denormalizes
// onto each booking.
type UserSnapshot struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type RefSnapshot struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Booking is read-mostly on the dashboard: listed, inspected, and moved
// between statuses, never created here.
type Booking struct {
	ID             uint          `json:"id"`
	PujaID         uint          `json:"puja_id"`
	PlanID         uint          `json:"plan_id"`
	BookingDate    string        `json:"booking_date"`
	MobileNumber   string        `json:"mobile_number"`
	WhatsappNumber string        `json:"whatsapp_number"`
	Gotra          string        `json:"gotra"`
	UserID         uint          `json:"user_id"`
	Status         string        `json:"status"`
	PujaLink       string        `json:"puja_link"`
	User           UserSnapshot  `json:"user"`
	Puja           RefSnapshot   `json:"puja"`
	Plan           RefSnapshot   `json:"plan"`
	Chadawas       []RefSnapshot `json:"chadawas"`
	CreatedAt      string        `json:"created_at"`
}

func Placeholder() Booking {
	return Booking{
		ID:          0,
		Status:      StatusPending,
		BookingDate: normalize.DateSentinel,
		Chadawas:    []RefSnapshot{},
		CreatedAt:   normalize.DateSentinel,
	}
}

func Normalize(raw map[string]interface{}, _ *upstream.ImageResolver) Booking {
	status := normalize.String(raw, "status")
	if !ValidStatus(status) {
		status = StatusPending
	}

	user := normalize.AsMap(raw["user"])
	puja := normalize.AsMap(raw["puja"])
	plan := normalize.AsMap(raw["plan"])

	chadawas := make([]RefSnapshot, 0)
	for _, item := range normalize.DetectList(raw["chadawas"]).Items() {
		obj := normalize.AsMap(item)
		if id := normalize.ID(obj, "id"); id > 0 {
			chadawas = append(chadawas, RefSnapshot{ID: id, Name: normalize.String(obj, "name")})
		}
	}

	return Booking{
		ID:             normalize.ID(raw, "id"),
		PujaID:         normalize.ID(raw, "puja_id"),
		PlanID:         normalize.ID(raw, "plan_id"),
		BookingDate:    normalize.Date(raw, "booking_date"),
		MobileNumber:   normalize.String(raw, "mobile_number"),
		WhatsappNumber: normalize.String(raw, "whatsapp_number"),
		Gotra:          normalize.String(raw, "gotra"),
		UserID:         normalize.ID(raw, "user_id"),
		Status:         status,
		PujaLink:       normalize.String(raw, "puja_link"),
		User: UserSnapshot{
			ID:    normalize.ID(user, "id"),
			Name:  normalize.String(user, "name"),
			Email: normalize.String(user, "email"),
			Phone: normalize.String(user, "phone"),
		},
		Puja:      RefSnapshot{ID: normalize.ID(puja, "id"), Name: normalize.String(puja, "name")},
		Plan:      RefSnapshot{ID: normalize.ID(plan, "id"), Name: normalize.String(plan, "name")},
		Chadawas:  chadawas,
		CreatedAt: normalize.Date(raw, "created_at"),
	}
}
