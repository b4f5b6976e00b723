package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/booking"
	"github.com/33kotidham/admin-gateway/internal/puja"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

const (
	ReportTypeBookings  = "bookings"
	ReportTypePujas     = "pujas"
	ReportTypeAuditLogs = "audit_logs"
)

type ReportData struct {
	Bookings  []booking.Booking
	Pujas     []puja.Puja
	AuditLogs []auditlog.AuditLog
}

// Exporter renders a report as downloadable bytes plus filename and
// content type.
type Exporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

func (e *exporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeBookings:
		return e.exportByFormat(format, fmt.Sprintf("bookings_report_%s", timestamp),
			bookingHeaders, bookingRows(data.Bookings))
	case ReportTypePujas:
		return e.exportByFormat(format, fmt.Sprintf("pujas_report_%s", timestamp),
			pujaHeaders, pujaRows(data.Pujas))
	case ReportTypeAuditLogs:
		return e.exportByFormat(format, fmt.Sprintf("audit_logs_report_%s", timestamp),
			auditHeaders, auditRows(data.AuditLogs))
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

func (e *exporter) exportByFormat(format, basename string, headers []string, rows [][]string) ([]byte, string, string, error) {
	switch format {
	case FormatCSV, "":
		data, err := exportCSV(headers, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".csv", "text/csv", nil
	case FormatExcel:
		data, err := exportExcel(headers, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case FormatPDF:
		data, err := exportPDF(basename, headers, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".pdf", "application/pdf", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

func exportCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Report"
	f.SetSheetName("Sheet1", sheetName)

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, header)
	}

	for r, row := range rows {
		for cIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, r+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(title string, headers []string, rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(15)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(headers))

	pdf.SetFont("Arial", "B", 9)
	for _, h := range headers {
		pdf.CellFormat(colWidth, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for _, v := range row {
			pdf.CellFormat(colWidth, 6, truncateCell(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncateCell shortens long cell text on rune boundaries, so multi-byte
// names (Devanagari is common here) are never split mid-character.
func truncateCell(v string) string {
	r := []rune(v)
	if len(r) <= 40 {
		return v
	}
	return string(r[:37]) + "..."
}

var bookingHeaders = []string{"ID", "Customer", "Phone", "Puja", "Plan", "Gotra", "Booking Date", "Status", "Created At"}

func bookingRows(items []booking.Booking) [][]string {
	rows := make([][]string, 0, len(items))
	for _, b := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.User.Name,
			b.MobileNumber,
			b.Puja.Name,
			b.Plan.Name,
			b.Gotra,
			b.BookingDate,
			b.Status,
			b.CreatedAt,
		})
	}
	return rows
}

var pujaHeaders = []string{"ID", "Name", "Date", "Time", "Temple Address", "Categories", "Active", "Featured"}

func pujaRows(items []puja.Puja) [][]string {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Date,
			p.Time,
			p.TempleAddress,
			fmt.Sprintf("%v", p.Category),
			strconv.FormatBool(p.IsActive),
			strconv.FormatBool(p.IsFeatured),
		})
	}
	return rows
}

var auditHeaders = []string{"ID", "User ID", "Entity", "Entity ID", "Action", "Status", "IP Address", "Timestamp"}

func auditRows(items []auditlog.AuditLog) [][]string {
	rows := make([][]string, 0, len(items))
	for _, l := range items {
		userID := ""
		if l.UserID != nil {
			userID = strconv.FormatUint(uint64(*l.UserID), 10)
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(l.ID), 10),
			userID,
			l.Entity,
			strconv.FormatUint(uint64(l.EntityID), 10),
			l.Action,
			l.Status,
			l.IPAddress,
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}
