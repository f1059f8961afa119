package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/pricing"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

// GSTSplit separates a GST total into the home-state bucket and the bucket
// for every other state
type GSTSplit struct {
	HomeState  float64 `json:"home_state"`
	OtherState float64 `json:"other_state"`
}

func (g *GSTSplit) add(bucket pricing.GSTBucket, amount float64) {
	if bucket == pricing.GSTBucketHomeState {
		g.HomeState += amount
	} else {
		g.OtherState += amount
	}
}

// EventFinancialReport decomposes an event's confirmed bookings into the
// components finance settles on. Convenience-fee GST is bucketed by the
// customer's state and commission GST by the venue's state.
type EventFinancialReport struct {
	EventID    string `json:"event_id"`
	EventName  string `json:"event_name"`
	VenueState string `json:"venue_state"`

	TotalBookings int `json:"total_bookings"`
	TotalTickets  int `json:"total_tickets"`

	GrossRevenue       float64  `json:"gross_revenue"`
	BaseRevenue        float64  `json:"base_revenue"`
	ConvenienceFeeBase float64  `json:"convenience_fee_base"`
	ConvenienceFeeGST  GSTSplit `json:"convenience_fee_gst"`
	CommissionBase     float64  `json:"commission_base"`
	CommissionGST      GSTSplit `json:"commission_gst"`

	// LegacyBookings counts rows without per-booking pricing fields, whose
	// components were zeroed by the fallback decomposition
	LegacyBookings int `json:"legacy_bookings"`

	GeneratedAt time.Time `json:"generated_at"`
}

type Service interface {
	EventReport(ctx context.Context, eventID uuid.UUID) (*EventFinancialReport, error)
}

type service struct {
	bookingRepo  bookings.Repository
	eventsRepo   events.Repository
	cacheService cache.Service
	homeState    string
	reportTTL    time.Duration
	log          *logger.Logger
}

func NewService(bookingRepo bookings.Repository, eventsRepo events.Repository, cacheService cache.Service, homeState string, reportTTL time.Duration) Service {
	return &service{
		bookingRepo:  bookingRepo,
		eventsRepo:   eventsRepo,
		cacheService: cacheService,
		homeState:    homeState,
		reportTTL:    reportTTL,
		log:          logger.GetDefault(),
	}
}

func (s *service) EventReport(ctx context.Context, eventID uuid.UUID) (*EventFinancialReport, error) {
	if s.cacheService != nil {
		var cached EventFinancialReport
		err := s.cacheService.GetOrSet(ctx, cache.ReportKey(eventID.String()), s.reportTTL, func() (interface{}, error) {
			return s.buildReport(ctx, eventID)
		}, &cached)
		if err == nil {
			return &cached, nil
		}
		if errors.Is(err, events.ErrNotFound) {
			return nil, err
		}
		s.log.WithError(err).Warn("report cache unavailable, building report directly")
	}

	return s.buildReport(ctx, eventID)
}

func (s *service) buildReport(ctx context.Context, eventID uuid.UUID) (*EventFinancialReport, error) {
	event, err := s.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rows, err := s.bookingRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for report: %w", err)
	}

	report := &EventFinancialReport{
		EventID:     event.ID.String(),
		EventName:   event.Name,
		VenueState:  event.VenueState,
		GeneratedAt: time.Now().UTC(),
	}

	venueBucket := pricing.BucketForState(event.VenueState, s.homeState)

	for i := range rows {
		row := &rows[i]
		report.TotalBookings++
		report.TotalTickets += row.Quantity
		report.GrossRevenue += row.TotalPrice

		var breakdown pricing.Breakdown
		if row.HasPricingFields() {
			breakdown = pricing.Decompose(row.TotalPrice, row.ConvenienceFeeAmount(), row.CommissionAmount())
		} else {
			// Historical rows carry only a total; components are zeroed
			breakdown = pricing.DecomposeFallback(row.TotalPrice, row.Quantity)
			breakdown.BasePrice *= float64(row.Quantity)
			report.LegacyBookings++
			s.log.LogPricingFieldDefaulted(ctx, row.ID.String(), "convenience_fee")
		}

		customerBucket := pricing.BucketForState(row.CustomerState, s.homeState)

		report.BaseRevenue += breakdown.BasePrice
		report.ConvenienceFeeBase += breakdown.ConvenienceFeeBase
		report.ConvenienceFeeGST.add(customerBucket, breakdown.ConvenienceFeeGST)
		report.CommissionBase += breakdown.CommissionBase
		report.CommissionGST.add(venueBucket, breakdown.CommissionGST)
	}

	return report, nil
}
