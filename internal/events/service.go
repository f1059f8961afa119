package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stagepass/internal/availability"
	"stagepass/internal/pricing"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for event browsing and management
type Service interface {
	// Browsing
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*EventResponse, error)
	GetSeatMap(ctx context.Context, eventID uuid.UUID) ([]SeatResponse, error)

	// Availability
	CategoryAvailability(ctx context.Context, event *Event, category *TicketCategory) (*CategoryAvailabilityResponse, error)
	RecheckSoldOut(ctx context.Context, eventID uuid.UUID) (bool, error)

	// Admin
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, req UpdateEventRequest) (*Event, error)

	// Cache invalidation, called when bookings or pricing change
	InvalidateEventCache(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo         Repository
	avail        availability.Service
	availRepo    availability.Repository
	cacheService cache.Service
	listingTTL   time.Duration
	log          *logger.Logger
}

// NewService creates a new event service instance
func NewService(repo Repository, avail availability.Service, availRepo availability.Repository, cacheService cache.Service, listingTTL time.Duration) Service {
	return &service{
		repo:         repo,
		avail:        avail,
		availRepo:    availRepo,
		cacheService: cacheService,
		listingTTL:   listingTTL,
		log:          logger.GetDefault(),
	}
}

// ListEvents serves the browse listing. Unfiltered pages go through the
// cache-aside helper; listings carry no availability numbers, so a stale
// page is harmless.
func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if s.cacheService != nil && query.Search == "" && query.Status == "" {
		page := query.Page
		if page <= 0 {
			page = 1
		}
		limit := query.Limit
		if limit <= 0 {
			limit = 10
		}

		var cached PaginatedEvents
		err := s.cacheService.GetOrSet(ctx, cache.EventListKey(page, limit), s.listingTTL, func() (interface{}, error) {
			return s.listEventsFromDB(ctx, query)
		}, &cached)
		if err == nil {
			return &cached, nil
		}
		s.log.WithError(err).Warn("event listing cache unavailable, serving from database")
	}

	return s.listEventsFromDB(ctx, query)
}

func (s *service) listEventsFromDB(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	events, totalCount, err := s.repo.ListEvents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, EventResponse{
			ID:          events[i].ID.String(),
			Name:        events[i].Name,
			Description: events[i].Description,
			Venue:       events[i].Venue,
			VenueState:  events[i].VenueState,
			IsRecurring: events[i].IsRecurring,
			SeatMapped:  events[i].SeatMapped,
			DisplayTime: events[i].DisplayTime,
			Status:      events[i].Status,
			SoldOut:     events[i].Status == StatusSoldOut,
		})
	}

	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
	}, nil
}

// GetEvent builds the detail payload. Every availability number here is
// recomputed from confirmed bookings; the stored available_quantity columns
// are ignored.
func (s *service) GetEvent(ctx context.Context, eventID uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &EventResponse{
		ID:          event.ID.String(),
		Name:        event.Name,
		Description: event.Description,
		Venue:       event.Venue,
		VenueState:  event.VenueState,
		IsRecurring: event.IsRecurring,
		SeatMapped:  event.SeatMapped,
		DisplayTime: event.DisplayTime,
		Status:      event.Status,
	}

	if event.IsRecurring {
		occurrences, err := s.repo.ListOccurrencesByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to list occurrences: %w", err)
		}

		allSoldOut := len(occurrences) > 0
		for i := range occurrences {
			occResp, err := s.buildOccurrenceResponse(ctx, event, &occurrences[i])
			if err != nil {
				return nil, err
			}
			if !occResp.SoldOut {
				allSoldOut = false
			}
			resp.Occurrences = append(resp.Occurrences, *occResp)
		}
		resp.SoldOut = allSoldOut
	} else {
		categories, err := s.repo.ActiveCategoriesByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}

		inventories := make([]availability.CategoryInventory, 0, len(categories))
		for i := range categories {
			catResp, err := s.CategoryAvailability(ctx, event, &categories[i])
			if err != nil {
				return nil, err
			}
			resp.Categories = append(resp.Categories, *catResp)
			inventories = append(inventories, availability.CategoryInventory{
				CategoryID:   categories[i].ID,
				CategoryName: categories[i].Name,
				Total:        categories[i].TotalQuantity,
				Remaining:    catResp.Remaining,
			})
		}
		resp.SoldOut = availability.SoldOut(inventories)
	}

	return resp, nil
}

func (s *service) buildOccurrenceResponse(ctx context.Context, event *Event, occ *EventOccurrence) (*OccurrenceResponse, error) {
	categories, err := s.repo.ActiveCategoriesByOccurrence(ctx, occ.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrence categories: %w", err)
	}

	occResp := &OccurrenceResponse{
		ID:       occ.ID.String(),
		ShowTime: event.ShowTime(occ),
	}

	inventories := make([]availability.CategoryInventory, 0, len(categories))
	for i := range categories {
		catResp, err := s.CategoryAvailability(ctx, event, &categories[i])
		if err != nil {
			return nil, err
		}
		occResp.Categories = append(occResp.Categories, *catResp)
		inventories = append(inventories, availability.CategoryInventory{
			CategoryID:   categories[i].ID,
			CategoryName: categories[i].Name,
			Total:        categories[i].TotalQuantity,
			Remaining:    catResp.Remaining,
		})
	}
	occResp.SoldOut = availability.SoldOut(inventories)

	return occResp, nil
}

// CategoryAvailability recomputes one category's remaining inventory and
// resolves its display pricing
func (s *service) CategoryAvailability(ctx context.Context, event *Event, category *TicketCategory) (*CategoryAvailabilityResponse, error) {
	resp := &CategoryAvailabilityResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	}

	// No pricing configuration means not on sale, never a default price
	if !category.HasPricing() || category.TotalQuantity <= 0 {
		return resp, nil
	}

	scope := availability.Scope{
		EventID:      event.ID,
		OccurrenceID: category.OccurrenceID,
		CategoryID:   &category.ID,
		CategoryName: category.Name,
	}
	remaining, err := s.avail.Remaining(ctx, scope, category.TotalQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to compute availability for category %s: %w", category.Name, err)
	}

	quote := pricing.Resolve(
		category.Price(),
		category.ConvenienceFeeRule(),
		category.CommissionRule(),
		1,
		event.IsRecurring && event.IsGeneralAdmission(),
	)

	resp.BasePrice = quote.BasePrice
	resp.ConvenienceFee = quote.ConvenienceFee
	resp.UnitTotal = quote.UnitTotal
	resp.Total = category.TotalQuantity
	resp.Remaining = remaining
	resp.Available = remaining > 0

	return resp, nil
}

// GetSeatMap lists the seat grid with occupancy derived from confirmed
// bookings' line items, not from any per-seat flag
func (s *service) GetSeatMap(ctx context.Context, eventID uuid.UUID) ([]SeatResponse, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.SeatMapped {
		return nil, fmt.Errorf("event %s has no seat map", eventID)
	}

	seats, err := s.repo.ListSeatsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	bookings, err := s.availRepo.ConfirmedBookings(ctx, availability.Scope{EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed bookings: %w", err)
	}
	occupied := occupiedSeatLabels(bookings)

	responses := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		status := "AVAILABLE"
		if seats[i].IsBlocked {
			status = "BLOCKED"
		} else if occupied[strings.ToUpper(seats[i].SeatNumber)] {
			status = "BOOKED"
		}
		responses = append(responses, SeatResponse{
			ID:         seats[i].ID.String(),
			CategoryID: seats[i].CategoryID.String(),
			Row:        seats[i].Row,
			Position:   seats[i].Position,
			SeatNumber: seats[i].SeatNumber,
			Status:     status,
		})
	}
	return responses, nil
}

func occupiedSeatLabels(bookings []availability.ConfirmedBooking) map[string]bool {
	occupied := make(map[string]bool)
	for _, booking := range bookings {
		for _, item := range booking.Items {
			for _, seat := range item.Seats {
				occupied[strings.ToUpper(strings.TrimSpace(seat))] = true
			}
		}
	}
	return occupied
}

// RecheckSoldOut recomputes every category of the event and flips the event
// status when all of them reach zero remaining
func (s *service) RecheckSoldOut(ctx context.Context, eventID uuid.UUID) (bool, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return false, err
	}

	var categories []TicketCategory
	if event.IsRecurring {
		occurrences, err := s.repo.ListOccurrencesByEvent(ctx, eventID)
		if err != nil {
			return false, fmt.Errorf("failed to list occurrences: %w", err)
		}
		for i := range occurrences {
			occCategories, err := s.repo.ActiveCategoriesByOccurrence(ctx, occurrences[i].ID)
			if err != nil {
				return false, fmt.Errorf("failed to list occurrence categories: %w", err)
			}
			categories = append(categories, occCategories...)
		}
	} else {
		categories, err = s.repo.ActiveCategoriesByEvent(ctx, eventID)
		if err != nil {
			return false, fmt.Errorf("failed to list categories: %w", err)
		}
	}

	inventories := make([]availability.CategoryInventory, 0, len(categories))
	for i := range categories {
		scope := availability.Scope{
			EventID:      eventID,
			OccurrenceID: categories[i].OccurrenceID,
			CategoryID:   &categories[i].ID,
			CategoryName: categories[i].Name,
		}
		inv, err := s.avail.Inventory(ctx, scope, categories[i].TotalQuantity)
		if err != nil {
			return false, err
		}
		inventories = append(inventories, *inv)
	}

	soldOut := availability.SoldOut(inventories)
	if soldOut && event.Status == StatusPublished {
		if err := s.repo.UpdateEventStatus(ctx, eventID, StatusSoldOut); err != nil {
			return soldOut, fmt.Errorf("failed to mark event sold out: %w", err)
		}
		s.log.LogEventSoldOut(ctx, eventID.String())
	}
	if !soldOut && event.Status == StatusSoldOut {
		// A cancellation freed inventory; put the event back on sale
		if err := s.repo.UpdateEventStatus(ctx, eventID, StatusPublished); err != nil {
			return soldOut, fmt.Errorf("failed to reopen event: %w", err)
		}
	}

	return soldOut, nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := &Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		VenueState:  req.VenueState,
		IsRecurring: req.IsRecurring,
		SeatMapped:  req.SeatMapped,
		DisplayTime: req.DisplayTime,
		Status:      StatusDraft,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if req.IsRecurring {
		for _, occReq := range req.Occurrences {
			occurrence := &EventOccurrence{
				EventID:           event.ID,
				StartsAt:          occReq.StartsAt,
				TotalQuantity:     occReq.TotalQuantity,
				AvailableQuantity: occReq.TotalQuantity,
				IsActive:          true,
			}
			if err := s.repo.CreateOccurrence(ctx, occurrence); err != nil {
				return nil, fmt.Errorf("failed to create occurrence: %w", err)
			}
			if err := s.createCategories(ctx, event.ID, &occurrence.ID, req.Categories); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.createCategories(ctx, event.ID, nil, req.Categories); err != nil {
			return nil, err
		}
	}

	return event, nil
}

func (s *service) createCategories(ctx context.Context, eventID uuid.UUID, occurrenceID *uuid.UUID, reqs []CreateCategoryRequest) error {
	for _, catReq := range reqs {
		feeType := catReq.ConvenienceFeeType
		if feeType == "" {
			feeType = string(pricing.FeeTypeFlat)
		}
		commissionType := catReq.CommissionType
		if commissionType == "" {
			commissionType = string(pricing.FeeTypeFlat)
		}

		category := &TicketCategory{
			EventID:             eventID,
			OccurrenceID:        occurrenceID,
			Name:                catReq.Name,
			BasePrice:           catReq.BasePrice,
			ConvenienceFeeType:  feeType,
			ConvenienceFeeValue: catReq.ConvenienceFeeValue,
			CommissionType:      commissionType,
			CommissionValue:     catReq.CommissionValue,
			TotalQuantity:       catReq.TotalQuantity,
			AvailableQuantity:   catReq.TotalQuantity,
			IsActive:            true,
		}
		if err := s.repo.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to create category %s: %w", catReq.Name, err)
		}
	}
	return nil
}

func (s *service) UpdateEvent(ctx context.Context, eventID uuid.UUID, req UpdateEventRequest) (*Event, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.VenueState != nil {
		event.VenueState = *req.VenueState
	}
	if req.DisplayTime != nil {
		event.DisplayTime = *req.DisplayTime
	}
	if req.Status != nil {
		status := EventStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("invalid event status: %s", *req.Status)
		}
		event.Status = status
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.InvalidateEventCache(ctx, eventID)
	return event, nil
}

// InvalidateEventCache drops cached listing and detail payloads for the
// event. Best effort: a stale cache entry only affects denormalized display
// data, never availability.
func (s *service) InvalidateEventCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, cache.EventDetailKey(eventID.String())); err != nil {
		s.log.WithError(err).Warn("failed to invalidate event detail cache")
	}
	if err := s.cacheService.DeletePattern(ctx, cache.ListingPattern()); err != nil {
		s.log.WithError(err).Warn("failed to invalidate event listing cache")
	}
}
