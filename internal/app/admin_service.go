package app

import (
	"context"
	"time"

	"github.com/seatwise/ticketer/internal/clock"
	"github.com/seatwise/ticketer/internal/domain"
)

type AdminStore interface {
	CreateVenue(ctx context.Context, venue domain.Venue) error
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	GetVenue(ctx context.Context, venueID string) (domain.Venue, error)
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context, salesOpenOnly bool) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	SetSalesOpen(ctx context.Context, eventID string, open bool) error
}

type SeatCreator interface {
	CreateSeat(ctx context.Context, seat domain.Seat) error
	ListAvailable(ctx context.Context, eventID string) ([]domain.Seat, error)
}

// AvailabilityCache caches FREE-seat listings per event. Implementations
// must treat every method as best effort.
type AvailabilityCache interface {
	GetAvailable(ctx context.Context, eventID string) ([]domain.Seat, bool)
	SetAvailable(ctx context.Context, eventID string, seats []domain.Seat)
	InvalidateAvailable(ctx context.Context, eventID string)
}

// AdminService manages venue, event and seat reference data. Seat-state
// transitions stay with the reservation engine; the only seat mutation
// here is creating new FREE seats.
type AdminService struct {
	repo  AdminStore
	seats SeatCreator
	cache AvailabilityCache
	clock clock.Clock
}

func NewAdminService(repo AdminStore, seats SeatCreator, clk clock.Clock, opts ...AdminOption) *AdminService {
	svc := &AdminService{
		repo:  repo,
		seats: seats,
		clock: clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AdminOption func(*AdminService)

// WithAvailabilityCache enables cached seat listings.
func WithAvailabilityCache(c AvailabilityCache) AdminOption {
	return func(s *AdminService) {
		s.cache = c
	}
}

type CreateVenueInput struct {
	Name    string
	Address string
}

func (s *AdminService) CreateVenue(ctx context.Context, in CreateVenueInput) (domain.Venue, error) {
	if in.Name == "" {
		return domain.Venue{}, domain.ErrVenueNameRequired
	}
	venue := domain.Venue{
		ID:      newID(),
		Name:    in.Name,
		Address: in.Address,
	}
	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return domain.Venue{}, err
	}
	return venue, nil
}

func (s *AdminService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListVenues(ctx)
}

func (s *AdminService) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	if venueID == "" {
		return domain.Venue{}, domain.ErrInvalidID
	}
	return s.repo.GetVenue(ctx, venueID)
}

type CreateEventInput struct {
	VenueID  string
	Name     string
	StartsAt *time.Time
	Capacity int
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.VenueID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.Capacity <= 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}
	if _, err := s.repo.GetVenue(ctx, in.VenueID); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	startsAt := now
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	event := domain.Event{
		ID:        newID(),
		VenueID:   in.VenueID,
		Name:      in.Name,
		StartsAt:  startsAt,
		Capacity:  in.Capacity,
		SalesOpen: true,
		CreatedAt: now,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context, salesOpenOnly bool) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx, salesOpenOnly)
}

func (s *AdminService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *AdminService) SetSalesOpen(ctx context.Context, eventID string, open bool) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	if err := s.repo.SetSalesOpen(ctx, eventID, open); err != nil {
		return domain.Event{}, err
	}
	return s.repo.GetEvent(ctx, eventID)
}

type CreateSeatInput struct {
	EventID    string
	Label      string
	Row        string
	Col        int
	PriceCents int64
}

func (s *AdminService) CreateSeat(ctx context.Context, in CreateSeatInput) (domain.Seat, error) {
	if in.EventID == "" {
		return domain.Seat{}, domain.ErrInvalidID
	}
	if in.Label == "" {
		return domain.Seat{}, domain.ErrSeatLabelRequired
	}
	if in.PriceCents < 0 {
		return domain.Seat{}, domain.ErrInvalidPrice
	}
	if _, err := s.repo.GetEvent(ctx, in.EventID); err != nil {
		return domain.Seat{}, err
	}

	seat := domain.Seat{
		ID:         newID(),
		EventID:    in.EventID,
		Label:      in.Label,
		Row:        in.Row,
		Col:        in.Col,
		PriceCents: in.PriceCents,
		State:      domain.SeatFree,
	}
	if err := s.seats.CreateSeat(ctx, seat); err != nil {
		return domain.Seat{}, err
	}
	if s.cache != nil {
		s.cache.InvalidateAvailable(ctx, in.EventID)
	}
	return seat, nil
}

// ListAvailableSeats returns the FREE seats for an event, served from the
// cache when possible.
func (s *AdminService) ListAvailableSeats(ctx context.Context, eventID string) ([]domain.Seat, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	if s.cache != nil {
		if seats, ok := s.cache.GetAvailable(ctx, eventID); ok {
			return seats, nil
		}
	}
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	seats, err := s.seats.ListAvailable(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetAvailable(ctx, eventID, seats)
	}
	return seats, nil
}
