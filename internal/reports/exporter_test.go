package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/33kotidham/admin-gateway/internal/booking"
	"github.com/33kotidham/admin-gateway/internal/puja"
)

func sampleData() ReportData {
	return ReportData{
		Bookings: []booking.Booking{
			{
				ID: 1, Status: booking.StatusConfirmed, BookingDate: "2024-06-10T00:00:00Z",
				MobileNumber: "9876543210", Gotra: "Kashyap",
				User: booking.UserSnapshot{Name: "Ramesh Kumar"},
				Puja: booking.RefSnapshot{Name: "Satyanarayan Katha"},
				Plan: booking.RefSnapshot{Name: "Single"},
			},
		},
		Pujas: []puja.Puja{
			{ID: 3, Name: "Rudrabhishek", Category: []string{"health"}, IsActive: true},
		},
	}
}

func TestExportBookingsCSV(t *testing.T) {
	e := NewExporter()

	data, filename, contentType, err := e.Export(ReportTypeBookings, FormatCSV, sampleData())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "bookings_report_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Equal(t, "text/csv", contentType)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, bookingHeaders, records[0])
	assert.Equal(t, "Ramesh Kumar", records[1][1])
	assert.Equal(t, "confirmed", records[1][7])
}

func TestExportPujasExcel(t *testing.T) {
	e := NewExporter()

	data, filename, contentType, err := e.Export(ReportTypePujas, FormatExcel, sampleData())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Report", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Rudrabhishek", name)
}

func TestExportAuditLogsPDF(t *testing.T) {
	e := NewExporter()

	data, filename, contentType, err := e.Export(ReportTypeAuditLogs, FormatPDF, sampleData())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestTruncateCellKeepsRunesIntact(t *testing.T) {
	// Devanagari runes are multi-byte; byte slicing would split one
	long := strings.Repeat("श्री", 15)
	got := truncateCell(long)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 40, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))

	short := "Ramesh Kumar"
	assert.Equal(t, short, truncateCell(short))
}

func TestExportPDFWithLongDevanagariNames(t *testing.T) {
	e := NewExporter()
	data := sampleData()
	data.Bookings[0].User.Name = strings.Repeat("श्री सत्यनारायण ", 5)

	out, _, _, err := e.Export(ReportTypeBookings, FormatPDF, data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportDefaultsToCSV(t *testing.T) {
	e := NewExporter()

	_, filename, contentType, err := e.Export(ReportTypeBookings, "", sampleData())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Equal(t, "text/csv", contentType)
}

func TestExportRejectsUnknownTypeAndFormat(t *testing.T) {
	e := NewExporter()

	_, _, _, err := e.Export("invoices", FormatCSV, ReportData{})
	assert.Error(t, err)

	_, _, _, err = e.Export(ReportTypeBookings, "docx", ReportData{})
	assert.Error(t, err)
}
