package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"stagepass/internal/availability"
	"stagepass/internal/events"
	"stagepass/internal/pricing"
	"stagepass/pkg/logger"

	"github.com/google/uuid"
)

// AvailabilityNotifier broadcasts availability changes to connected clients
// after a booking commits
type AvailabilityNotifier interface {
	PublishAvailabilityChange(ctx context.Context, eventID string)
}

// ConfirmationPublisher hands confirmed bookings to the async confirmation
// pipeline. Publish failures never fail the booking.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, booking *Booking) error
}

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error)
	GetBookingByRef(ctx context.Context, bookingRef string) (*BookingResponse, error)
	ListBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)
	CancelBooking(ctx context.Context, bookingRef string) error
}

type service struct {
	repo       Repository
	eventsRepo events.Repository
	eventsSvc  events.Service
	avail      availability.Service
	notifier   AvailabilityNotifier
	publisher  ConfirmationPublisher
	log        *logger.Logger
}

func NewService(
	repo Repository,
	eventsRepo events.Repository,
	eventsSvc events.Service,
	avail availability.Service,
	notifier AvailabilityNotifier,
	publisher ConfirmationPublisher,
) Service {
	return &service{
		repo:       repo,
		eventsRepo: eventsRepo,
		eventsSvc:  eventsSvc,
		avail:      avail,
		notifier:   notifier,
		publisher:  publisher,
		log:        logger.GetDefault(),
	}
}

// bookingLine pairs a validated request item with everything the
// transactional writer needs for it
type bookingLine struct {
	category *events.TicketCategory
	scope    availability.Scope
	quote    pricing.Quote
	seats    []string
}

// CreateBooking validates the request against recomputed availability,
// inserts one row per category in a single transaction and then performs
// the post-commit bookkeeping. Rows from one request commit together or
// not at all.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.IsBookable() {
		return nil, ErrEventNotBookable
	}

	var occurrence *events.EventOccurrence
	var occurrenceID *uuid.UUID
	if req.OccurrenceID != nil {
		parsed, err := uuid.Parse(*req.OccurrenceID)
		if err != nil {
			return nil, fmt.Errorf("invalid occurrence ID: %w", err)
		}
		occurrence, err = s.eventsRepo.GetOccurrenceByID(ctx, parsed)
		if err != nil {
			return nil, err
		}
		if occurrence.EventID != eventID {
			return nil, events.ErrNotFound
		}
		occurrenceID = &parsed
	}

	lines, err := s.validateItems(ctx, event, occurrenceID, req.Items)
	if err != nil {
		return nil, err
	}

	rows, checks, err := s.buildRows(event, occurrenceID, req, lines)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateConfirmed(ctx, rows, checks); err != nil {
		if capErr, ok := asCapacityError(err); ok {
			s.log.LogBookingRejected(ctx, event.ID.String(), capErr.CategoryName, capErr.Requested, capErr.Remaining)
		}
		return nil, err
	}

	for _, row := range rows {
		s.log.LogBookingCreated(ctx, row.BookingRef, row.EventID.String(), categoryIDString(row), row.Quantity)
	}

	soldOut := s.afterCommit(ctx, event, occurrence, lines, rows)

	return s.buildCreateResponse(event, occurrence, rows, soldOut), nil
}

// validateItems resolves every requested category, rejects lines that cannot
// be sold and pre-checks availability for a friendly error before the
// transaction retries the check under row locks.
func (s *service) validateItems(ctx context.Context, event *events.Event, occurrenceID *uuid.UUID, items []CreateBookingItem) ([]bookingLine, error) {
	lines := make([]bookingLine, 0, len(items))

	for _, item := range items {
		categoryID, err := uuid.Parse(item.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category ID: %w", err)
		}

		category, err := s.eventsRepo.GetCategoryByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, events.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		if category.EventID != event.ID {
			return nil, ErrCategoryNotFound
		}
		if occurrenceID != nil {
			if category.OccurrenceID == nil || *category.OccurrenceID != *occurrenceID {
				return nil, ErrCategoryNotFound
			}
		} else if category.OccurrenceID != nil {
			return nil, ErrCategoryNotFound
		}
		if !category.HasPricing() {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotOnSale, category.Name)
		}
		if event.SeatMapped && len(item.Seats) != item.Quantity {
			return nil, fmt.Errorf("category %s requires exactly one seat per ticket", category.Name)
		}

		scope := availability.Scope{
			EventID:      event.ID,
			OccurrenceID: occurrenceID,
			CategoryID:   &category.ID,
			CategoryName: category.Name,
		}

		remaining, err := s.avail.Remaining(ctx, scope, category.TotalQuantity)
		if err != nil {
			return nil, err
		}
		if remaining < item.Quantity {
			s.log.LogBookingRejected(ctx, event.ID.String(), category.Name, item.Quantity, remaining)
			return nil, &CapacityError{
				CategoryName: category.Name,
				Requested:    item.Quantity,
				Remaining:    remaining,
			}
		}

		lines = append(lines, bookingLine{
			category: category,
			scope:    scope,
			quote: pricing.Resolve(
				category.Price(),
				category.ConvenienceFeeRule(),
				category.CommissionRule(),
				item.Quantity,
				event.IsRecurring && event.IsGeneralAdmission(),
			),
			seats: item.Seats,
		})
	}

	return lines, nil
}

func (s *service) buildRows(event *events.Event, occurrenceID *uuid.UUID, req CreateBookingRequest, lines []bookingLine) ([]*Booking, []CapacityCheck, error) {
	rows := make([]*Booking, 0, len(lines))
	checks := make([]CapacityCheck, 0, len(lines))

	for i := range lines {
		line := &lines[i]

		bookingRef, err := generateBookingReference()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate booking reference: %w", err)
		}

		unitPrice := line.quote.UnitTotal
		feeTotal := line.quote.ConvenienceFee * float64(line.quote.Quantity)
		commissionTotal := line.quote.CommissionPerUnit * float64(line.quote.Quantity)

		rows = append(rows, &Booking{
			BookingRef:   bookingRef,
			EventID:      event.ID,
			OccurrenceID: occurrenceID,
			CategoryID:   &line.category.ID,
			CategoryName: line.category.Name,
			Quantity:     line.quote.Quantity,
			LineItems: availability.LineItems{{
				Category: line.category.Name,
				Quantity: line.quote.Quantity,
				Seats:    line.seats,
				Price:    unitPrice,
			}},
			CustomerName:   req.CustomerName,
			CustomerEmail:  req.CustomerEmail,
			CustomerPhone:  req.CustomerPhone,
			CustomerState:  req.CustomerState,
			UnitPrice:      &unitPrice,
			TotalPrice:     line.quote.LineTotal,
			ConvenienceFee: &feeTotal,
			Commission:     &commissionTotal,
			Status:         StatusConfirmed,
		})

		checks = append(checks, CapacityCheck{
			Scope:     line.scope,
			Total:     line.category.TotalQuantity,
			Requested: line.quote.Quantity,
		})
	}

	return rows, checks, nil
}

// afterCommit refreshes the advisory counters, re-evaluates the sold-out
// flag and fans the booking out to the async pipelines. Every step here is
// best effort; the committed rows are never rolled back.
func (s *service) afterCommit(ctx context.Context, event *events.Event, occurrence *events.EventOccurrence, lines []bookingLine, rows []*Booking) bool {
	for i := range lines {
		line := &lines[i]
		remaining, err := s.avail.Remaining(ctx, line.scope, line.category.TotalQuantity)
		if err != nil {
			s.log.LogCounterUpdateFailed(ctx, line.category.ID.String(), err)
			continue
		}
		if err := s.eventsRepo.UpdateCategoryAvailability(ctx, line.category.ID, remaining); err != nil {
			s.log.LogCounterUpdateFailed(ctx, line.category.ID.String(), err)
		}
	}

	if occurrence != nil {
		occScope := availability.Scope{EventID: event.ID, OccurrenceID: &occurrence.ID}
		remaining, err := s.avail.Remaining(ctx, occScope, occurrence.TotalQuantity)
		if err != nil {
			s.log.LogCounterUpdateFailed(ctx, occurrence.ID.String(), err)
		} else if err := s.eventsRepo.UpdateOccurrenceAvailability(ctx, occurrence.ID, remaining); err != nil {
			s.log.LogCounterUpdateFailed(ctx, occurrence.ID.String(), err)
		}
	}

	s.eventsSvc.InvalidateEventCache(ctx, event.ID)

	soldOut, err := s.eventsSvc.RecheckSoldOut(ctx, event.ID)
	if err != nil {
		s.log.WithError(err).Warn("sold-out recheck failed after booking")
	}

	if s.notifier != nil {
		s.notifier.PublishAvailabilityChange(ctx, event.ID.String())
	}
	if s.publisher != nil {
		for _, row := range rows {
			if err := s.publisher.PublishBookingConfirmed(ctx, row); err != nil {
				s.log.WithError(err).Warn("failed to publish booking confirmation")
			}
		}
	}

	return soldOut
}

func (s *service) buildCreateResponse(event *events.Event, occurrence *events.EventOccurrence, rows []*Booking, soldOut bool) *CreateBookingResponse {
	resp := &CreateBookingResponse{SoldOut: soldOut}
	for _, row := range rows {
		resp.Bookings = append(resp.Bookings, toBookingResponse(row, event, occurrence))
		resp.Total += row.TotalPrice
	}
	return resp
}

func (s *service) GetBookingByRef(ctx context.Context, bookingRef string) (*BookingResponse, error) {
	booking, err := s.repo.GetByRef(ctx, bookingRef)
	if err != nil {
		return nil, err
	}

	event, err := s.eventsRepo.GetEventByID(ctx, booking.EventID)
	if err != nil {
		return nil, err
	}

	var occurrence *events.EventOccurrence
	if booking.OccurrenceID != nil {
		occurrence, err = s.eventsRepo.GetOccurrenceByID(ctx, *booking.OccurrenceID)
		if err != nil && !errors.Is(err, events.ErrNotFound) {
			return nil, err
		}
	}

	resp := toBookingResponse(booking, event, occurrence)
	return &resp, nil
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	rows, totalCount, err := s.repo.ListBookings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	resp := &PaginatedBookings{TotalCount: totalCount, Page: page, Limit: limit}
	for i := range rows {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&rows[i], nil, nil))
	}
	return resp, nil
}

// CancelBooking flips the row to CANCELLED, which immediately frees its
// quantity: the next availability recomputation no longer counts it.
func (s *service) CancelBooking(ctx context.Context, bookingRef string) error {
	booking, err := s.repo.GetByRef(ctx, bookingRef)
	if err != nil {
		return err
	}
	if booking.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}

	if err := s.repo.Cancel(ctx, booking.ID); err != nil {
		return err
	}

	event, err := s.eventsRepo.GetEventByID(ctx, booking.EventID)
	if err == nil {
		var occurrence *events.EventOccurrence
		if booking.OccurrenceID != nil {
			occurrence, _ = s.eventsRepo.GetOccurrenceByID(ctx, *booking.OccurrenceID)
		}

		if booking.CategoryID != nil {
			if category, catErr := s.eventsRepo.GetCategoryByID(ctx, *booking.CategoryID); catErr == nil {
				line := bookingLine{
					category: category,
					scope: availability.Scope{
						EventID:      event.ID,
						OccurrenceID: booking.OccurrenceID,
						CategoryID:   booking.CategoryID,
						CategoryName: category.Name,
					},
				}
				s.afterCommit(ctx, event, occurrence, []bookingLine{line}, nil)
				return nil
			}
		}
		s.afterCommit(ctx, event, occurrence, nil, nil)
	}

	return nil
}

func toBookingResponse(b *Booking, event *events.Event, occurrence *events.EventOccurrence) BookingResponse {
	resp := BookingResponse{
		ID:             b.ID.String(),
		BookingRef:     b.BookingRef,
		EventID:        b.EventID.String(),
		CategoryName:   b.CategoryName,
		Quantity:       b.Quantity,
		LineItems:      b.LineItems,
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		TotalPrice:     b.TotalPrice,
		ConvenienceFee: b.ConvenienceFeeAmount(),
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
	if b.UnitPrice != nil {
		resp.UnitPrice = *b.UnitPrice
	}
	if b.OccurrenceID != nil {
		resp.OccurrenceID = b.OccurrenceID.String()
	}
	if event != nil {
		resp.EventName = event.Name
		resp.ShowTime = event.ShowTime(occurrence)
	}
	return resp
}

func categoryIDString(b *Booking) string {
	if b.CategoryID == nil {
		return ""
	}
	return b.CategoryID.String()
}

func asCapacityError(err error) (*CapacityError, bool) {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return capErr, true
	}
	return nil, false
}

// generateBookingReference builds a customer-facing reference like
// SP-20260901-KDQWRT
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("SP-%s-%s", timestamp, string(randomPart)), nil
}
