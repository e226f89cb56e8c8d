package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/utils"
	"github.com/jung-kurt/gofpdf"
)

// VoucherService renders booking vouchers as PDF
type VoucherService struct {
	bookings *BookingLedger
	now      func() time.Time
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(bookings *BookingLedger) *VoucherService {
	return &VoucherService{bookings: bookings, now: time.Now}
}

// Render returns the voucher of a booking the actor may read, with its file name
func (s *VoucherService) Render(ctx context.Context, bookingID, actorID string) ([]byte, string, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID, actorID)
	if err != nil {
		return nil, "", err
	}

	data, err := RenderVoucherPDF(booking, s.now())
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("voucher-%s.pdf", booking.ID), nil
}

// RenderVoucherPDF lays out a one-page A4 voucher
func RenderVoucherPDF(b *models.BookingResponse, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Booking Voucher "+b.ID, false)
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(15, 76, 92)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "Jelajah", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Tour Booking Voucher", "", 1, "L", false, 0, "")

	pdf.SetY(36)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(15, 76, 92)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	sectionHeader("Booking")
	row("Reference", b.ID)
	row("Status", string(b.Status))
	row("Booked on", readableDate(b.BookingDate))
	if b.Notes != nil && *b.Notes != "" {
		row("Notes", *b.Notes)
	}
	pdf.Ln(4)

	sectionHeader("Tour")
	if b.TourPackage != nil {
		row("Package", b.TourPackage.Title)
		row("Duration", fmt.Sprintf("%d-%d days", b.TourPackage.MinDays, b.TourPackage.MaxDays))
		row("Price per person", utils.FormatRupiah(b.TourPackage.PricePerPerson))
	}
	if b.Availability != nil {
		row("Departure", readableDate(b.Availability.StartDate))
		row("Return", readableDate(b.Availability.EndDate))
	}
	row("Travelers", fmt.Sprintf("%d", b.TotalPeople))
	pdf.Ln(4)

	pdf.SetFillColor(242, 183, 5)
	pdf.SetTextColor(15, 40, 50)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, utils.FormatRupiah(b.TotalPrice), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if b.Status == models.BookingStatusCancelled {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(200, 30, 30)
		pdf.CellFormat(170, 10, "CANCELLED - NOT VALID FOR TRAVEL", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	// Footer
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated "+generatedAt.UTC().Format("02 Jan 2006 15:04 UTC")+" - present this voucher to your tour agent",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("voucher output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func readableDate(d models.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02 Jan 2006 (Mon)")
}
