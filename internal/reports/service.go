package reports

import (
	"context"
	"fmt"

	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/booking"
	"github.com/33kotidham/admin-gateway/internal/puja"
)

type Service interface {
	Generate(ctx context.Context, reportType, format string) ([]byte, string, string, error)
}

type service struct {
	exporter   Exporter
	bookingSvc booking.Service
	pujaSvc    puja.Service
	auditSvc   auditlog.Service
}

func NewService(bookingSvc booking.Service, pujaSvc puja.Service, auditSvc auditlog.Service) Service {
	return &service{
		exporter:   NewExporter(),
		bookingSvc: bookingSvc,
		pujaSvc:    pujaSvc,
		auditSvc:   auditSvc,
	}
}

// Generate gathers the current data for one report type and renders it in
// the requested format.
func (s *service) Generate(ctx context.Context, reportType, format string) ([]byte, string, string, error) {
	var data ReportData

	switch reportType {
	case ReportTypeBookings:
		items, err := s.bookingSvc.List(ctx, booking.ListFilter{})
		if err != nil {
			return nil, "", "", fmt.Errorf("load bookings: %w", err)
		}
		data.Bookings = items
	case ReportTypePujas:
		items, err := s.pujaSvc.List(ctx, puja.ListFilter{})
		if err != nil {
			return nil, "", "", fmt.Errorf("load pujas: %w", err)
		}
		data.Pujas = items
	case ReportTypeAuditLogs:
		page, err := s.auditSvc.GetAuditLogs(ctx, auditlog.Filter{Limit: 10000, Page: 1})
		if err != nil {
			return nil, "", "", fmt.Errorf("load audit logs: %w", err)
		}
		data.AuditLogs = page.Data
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}

	return s.exporter.Export(reportType, format, data)
}
