package tickets

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"stagepass/internal/bookings"
	"stagepass/internal/shared/config"
)

// VerificationResult is returned when a ticket QR code is scanned at the
// gate. Valid means the underlying booking is still CONFIRMED.
type VerificationResult struct {
	BookingRef   string `json:"booking_ref"`
	Valid        bool   `json:"valid"`
	Status       string `json:"status"`
	EventName    string `json:"event_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

type Service interface {
	// GeneratePDF renders the printable ticket for a booking, QR code included
	GeneratePDF(ctx context.Context, bookingRef string) ([]byte, error)

	// Verify resolves a scanned booking reference to its current validity
	Verify(ctx context.Context, bookingRef string) (*VerificationResult, error)

	// VerificationURL is the URL encoded into the ticket's QR code
	VerificationURL(bookingRef string) string
}

type service struct {
	bookingSvc bookings.Service
	cfg        config.TicketingConfig
}

func NewService(bookingSvc bookings.Service, cfg config.TicketingConfig) Service {
	return &service{bookingSvc: bookingSvc, cfg: cfg}
}

func (s *service) VerificationURL(bookingRef string) string {
	return fmt.Sprintf("%s/verify-ticket/%s", strings.TrimRight(s.cfg.VerifyOrigin, "/"), bookingRef)
}

func (s *service) Verify(ctx context.Context, bookingRef string) (*VerificationResult, error) {
	booking, err := s.bookingSvc.GetBookingByRef(ctx, bookingRef)
	if err != nil {
		return nil, err
	}

	return &VerificationResult{
		BookingRef:   booking.BookingRef,
		Valid:        booking.Status == bookings.StatusConfirmed,
		Status:       booking.Status.String(),
		EventName:    booking.EventName,
		CategoryName: booking.CategoryName,
		Quantity:     booking.Quantity,
		CustomerName: booking.CustomerName,
	}, nil
}

func (s *service) GeneratePDF(ctx context.Context, bookingRef string) ([]byte, error) {
	booking, err := s.bookingSvc.GetBookingByRef(ctx, bookingRef)
	if err != nil {
		return nil, err
	}

	qrPNG, err := qrcode.Encode(s.VerificationURL(booking.BookingRef), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "StagePass Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, booking.EventName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, booking.ShowTime.Format("Mon, 02 Jan 2006 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	writeRow("Booking Ref", booking.BookingRef)
	writeRow("Name", booking.CustomerName)
	writeRow("Category", booking.CategoryName)
	writeRow("Quantity", fmt.Sprintf("%d", booking.Quantity))

	seats := seatLabels(booking)
	if len(seats) > 0 {
		writeRow("Seats", strings.Join(seats, ", "))
	}
	writeRow("Amount Paid", fmt.Sprintf("Rs. %.2f", booking.TotalPrice))
	pdf.Ln(4)

	// Embed the QR code centered below the details
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", imageOpts, bytes.NewReader(qrPNG))
	pageWidth, _ := pdf.GetPageSize()
	qrSize := 45.0
	pdf.ImageOptions("ticket-qr", (pageWidth-qrSize)/2, pdf.GetY(), qrSize, qrSize, false, imageOpts, 0, "")
	pdf.SetY(pdf.GetY() + qrSize + 3)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Scan at the venue to verify this ticket", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func seatLabels(booking *bookings.BookingResponse) []string {
	var seats []string
	for _, item := range booking.LineItems {
		seats = append(seats, item.Seats...)
	}
	return seats
}
