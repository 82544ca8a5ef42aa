package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwise/ticketer/internal/domain"
)

// AdminRepository covers venue and event reference data. It exposes no
// seat- or order-state mutations; those stay behind the reservation
// engine's repositories.
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) CreateVenue(ctx context.Context, venue domain.Venue) error {
	const stmt = `INSERT INTO venues (id, name, address) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, stmt, venue.ID, venue.Name, venue.Address); err != nil {
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	const query = `SELECT id, name, address FROM venues ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

func (r *AdminRepository) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	const query = `SELECT id, name, address FROM venues WHERE id = $1`
	var v domain.Venue
	err := r.pool.QueryRow(ctx, query, venueID).Scan(&v.ID, &v.Name, &v.Address)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Venue{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Venue{}, domain.ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, venue_id, name, starts_at, capacity, sales_open, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID, event.VenueID, event.Name, event.StartsAt,
		event.Capacity, event.SalesOpen, event.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrVenueNotFound
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListEvents(ctx context.Context, salesOpenOnly bool) ([]domain.Event, error) {
	query := `
SELECT id, venue_id, name, starts_at, capacity, sales_open, created_at
FROM events`
	if salesOpenOnly {
		query += ` WHERE sales_open`
	}
	query += ` ORDER BY starts_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.VenueID, &e.Name, &e.StartsAt, &e.Capacity, &e.SalesOpen, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *AdminRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `
SELECT id, venue_id, name, starts_at, capacity, sales_open, created_at
FROM events
WHERE id = $1`

	var e domain.Event
	err := r.pool.QueryRow(ctx, query, eventID).
		Scan(&e.ID, &e.VenueID, &e.Name, &e.StartsAt, &e.Capacity, &e.SalesOpen, &e.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *AdminRepository) SetSalesOpen(ctx context.Context, eventID string, open bool) error {
	const stmt = `UPDATE events SET sales_open = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, stmt, eventID, open)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set sales open: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
